package analysis

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
)

func TestClassifyBistable(t *testing.T) {
	g := NewWithT(t)
	m := climate.DefaultModel()

	eqs, err := Classify(m, 0.4)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(eqs).To(HaveLen(3))

	g.Expect(eqs[0].Branch).To(Equal(Ice))
	g.Expect(eqs[1].Branch).To(Equal(Unstable))
	g.Expect(eqs[2].Branch).To(Equal(Hot))

	g.Expect(eqs[0].Temperature).To(BeNumerically("~", 258.3535, 1e-3))
	g.Expect(eqs[1].Temperature).To(BeNumerically("~", 279.5657, 1e-3))
	g.Expect(eqs[2].Temperature).To(BeNumerically("~", 302.7980, 1e-3))

	step := (m.MaxTemp() - m.MinTemp()) / float64(m.Params().Simulation.TempResolution-1)
	for _, e := range eqs {
		g.Expect(e.Root).To(BeNumerically(">=", e.Temperature))
		g.Expect(e.Root).To(BeNumerically("<=", e.Temperature+step))
		g.Expect(math.Abs(m.Rate(e.Root, 0.4))).To(BeNumerically("<", 1e-12))
	}
	g.Expect(eqs[2].Root).To(BeNumerically("~", 303.195, 1e-3))
}

func TestClassifyMonostable(t *testing.T) {
	tests := []struct {
		gh     float64
		branch Branch
	}{
		{0.3, Ice},
		{0.45, Hot},
	}

	m := climate.DefaultModel()
	for _, tt := range tests {
		eqs, err := Classify(m, tt.gh)
		if err != nil {
			t.Fatalf("g=%v: %v", tt.gh, err)
		}
		if len(eqs) != 1 {
			t.Fatalf("g=%v: expected 1 equilibrium, got %d", tt.gh, len(eqs))
		}
		if eqs[0].Branch != tt.branch {
			t.Errorf("g=%v: expected %v, got %v", tt.gh, tt.branch, eqs[0].Branch)
		}
	}
}

func TestClassifyInvalidGreenhouse(t *testing.T) {
	_, err := Classify(climate.DefaultModel(), 1.5)
	if !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRelaxationTime(t *testing.T) {
	g := NewWithT(t)

	eqs, err := Classify(climate.DefaultModel(), 0.4)
	g.Expect(err).NotTo(HaveOccurred())

	// about seven weeks for the hot state
	days := eqs[2].RelaxationTime() / 86400
	g.Expect(days).To(BeNumerically("~", 51, 2))
	g.Expect(math.IsInf(eqs[1].RelaxationTime(), 1)).To(BeTrue())
}

func TestRefine(t *testing.T) {
	g := NewWithT(t)
	m := climate.DefaultModel()

	root, err := Refine(m, 0.4, 300, 305, 1e-10)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(root).To(BeNumerically("~", 303.19506, 1e-4))

	_, err = Refine(m, 0.4, 310, 320, 1e-6)
	g.Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())

	_, err = Refine(m, 0.4, 305, 300, 1e-6)
	g.Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())

	_, err = Refine(m, 0.4, 300, 305, 0)
	g.Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
}

func TestBranchString(t *testing.T) {
	for b, want := range map[Branch]string{Ice: "ice", Hot: "hot", Unstable: "unstable"} {
		if b.String() != want {
			t.Errorf("expected %q, got %q", want, b.String())
		}
	}
}
