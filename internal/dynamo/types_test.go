package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		valid bool
	}{
		{"zero", 0, true},
		{"normal", 288.15, true},
		{"NaN", math.NaN(), false},
		{"+Inf", math.Inf(1), false},
		{"-Inf", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.v); got != tt.valid {
				t.Errorf("IsValid(%v) = %v, want %v", tt.v, got, tt.valid)
			}
		})
	}
}

func TestTrajectory(t *testing.T) {
	tr := NewTrajectory(3)
	tr.Append(0, 288, 1e-7)
	tr.Append(10, 289, 5e-8)

	if tr.Len() != 2 {
		t.Fatalf("expected 2 samples, got %d", tr.Len())
	}

	final := tr.Final()
	if final.Time != 10 || final.Temperature != 289 || final.Rate != 5e-8 {
		t.Errorf("unexpected final point: %+v", final)
	}

	pts := tr.Points()
	if len(pts) != 2 || pts[0].Temperature != 288 {
		t.Errorf("unexpected points: %+v", pts)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 15, Time: 1.5, State: math.NaN(), Wrapped: ErrInvalidState}
	expected := "step 15 (t=1.5000, x=NaN): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected errors.Is to match ErrInvalidState")
	}
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		out := make([]int, n)
		var calls int32
		ParallelFor(n, 8, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				out[i] = i * i
			}
		})

		for i := range out {
			if out[i] != i*i {
				t.Fatalf("n=%d: index %d not visited", n, i)
			}
		}
		if n == 0 && calls != 0 {
			t.Errorf("expected no calls for n=0, got %d", calls)
		}
	}
}
