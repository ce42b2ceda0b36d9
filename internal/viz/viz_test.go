package viz

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/icehouse/internal/analysis"
	"github.com/san-kum/icehouse/internal/climate"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	got := []rune(strings.TrimSuffix(c.String(), "\n"))
	if len(got) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(got))
	}
	if got[0] != 0x2801 {
		t.Errorf("cell 0: expected U+2801, got %U", got[0])
	}
	if got[1] != 0x2880 {
		t.Errorf("cell 1: expected U+2880, got %U", got[1])
	}
}

func TestCanvasLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Line(0, 0, 19, 19)

	rows := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	first := []rune(rows[0])[0]
	last := []rune(rows[4])[9]
	if first&0x01 == 0 {
		t.Errorf("start point not set: %U", first)
	}
	if last&0x80 == 0 {
		t.Errorf("end point not set: %U", last)
	}
}

func TestPlotXY(t *testing.T) {
	curve := climate.DefaultModel().PotentialCurve(0.4)
	out := PlotXY(curve.Temperatures, curve.Values, 40, 10)

	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if n := utf8.RuneCountInString(r); n != 40 {
			t.Errorf("row %d: expected 40 cells, got %d", i, n)
		}
	}
	if PlotXY(nil, nil, 10, 10) != "" {
		t.Error("expected empty plot for no data")
	}
	if TraceXY(nil, nil, 10, 10) != nil {
		t.Error("expected nil canvas for no data")
	}
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if s != "▁▂▃▄▅▆▇█" {
		t.Errorf("unexpected sparkline %q", s)
	}
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("expected flat line, got %q", got)
	}
	if n := utf8.RuneCountInString(Sparkline(make([]float64, 1000), 50)); n != 50 {
		t.Errorf("expected 50 runes, got %d", n)
	}
}

func TestBranchStyle(t *testing.T) {
	if BranchStyle(analysis.Ice).GetForeground() != IceStyle.GetForeground() {
		t.Error("ice branch should use the ice style")
	}
	if BranchStyle(analysis.Hot).GetForeground() != HotStyle.GetForeground() {
		t.Error("hot branch should use the hot style")
	}
	if TempStyle(300).GetForeground() != HotStyle.GetForeground() {
		t.Error("300 K should render as hot")
	}
}

func TestPlots(t *testing.T) {
	m := climate.DefaultModel()

	tr, err := m.Simulate(288, 0.4, 200, 1e5)
	if err != nil {
		t.Fatal(err)
	}
	if out := Temperature(tr, "T"); !strings.Contains(out, "T") {
		t.Errorf("expected caption in plot:\n%s", out)
	}

	loop, err := analysis.Hysteresis(m, analysis.HysteresisConfig{
		GStart: 0.35, GEnd: 0.45, Steps: 11, T0: 240, Window: 50, Step: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if Hysteresis(loop, "loop") == "" {
		t.Error("expected a hysteresis plot")
	}

	data, err := analysis.Bifurcation(m, 0.3, 0.6, 16)
	if err != nil {
		t.Fatal(err)
	}
	if StableBranches(data, "branches") == "" {
		t.Error("expected a branch plot")
	}

	if Temperature(nil, "") != "" || Series(nil, "", 1) != "" || Hysteresis(nil, "") != "" {
		t.Error("expected empty output for missing data")
	}
}
