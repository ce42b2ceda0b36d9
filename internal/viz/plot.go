package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/icehouse/internal/analysis"
	"github.com/san-kum/icehouse/internal/dynamo"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 12
)

// Temperature plots a trajectory's temperature against step index.
func Temperature(tr *dynamo.Trajectory, caption string) string {
	if tr == nil || tr.Len() == 0 {
		return ""
	}
	return asciigraph.Plot(tr.Temperatures,
		asciigraph.Height(DefaultHeight),
		asciigraph.Width(DefaultWidth),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
}

// Series plots any sampled curve (rate, albedo, potential) against its
// sample index.
func Series(values []float64, caption string, precision uint) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(DefaultHeight),
		asciigraph.Width(DefaultWidth),
		asciigraph.Precision(precision),
		asciigraph.Caption(caption),
	)
}

// Hysteresis overlays the forward (blue) and backward (red) legs, both
// ordered by increasing g so the loop reads left to right.
func Hysteresis(loop *analysis.HysteresisLoop, caption string) string {
	if loop == nil || len(loop.Forward) == 0 || len(loop.Backward) == 0 {
		return ""
	}
	fwd := make([]float64, len(loop.Forward))
	for i, p := range loop.Forward {
		fwd[i] = p.T
	}
	back := make([]float64, len(loop.Backward))
	for i, p := range loop.Backward {
		back[len(back)-1-i] = p.T
	}
	return asciigraph.PlotMany([][]float64{fwd, back},
		asciigraph.Height(DefaultHeight),
		asciigraph.Width(DefaultWidth),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(caption),
	)
}

// StableBranches plots the coldest and warmest stable temperature per g.
// Values of g without a stable state repeat the previous sample so the
// series stays continuous. It returns "" when no g has a stable state.
func StableBranches(data []analysis.BifurcationPoint, caption string) string {
	if len(data) == 0 {
		return ""
	}
	cold := make([]float64, len(data))
	warm := make([]float64, len(data))
	first := -1
	for i, p := range data {
		stable := p.Stable()
		switch {
		case len(stable) > 0:
			cold[i], warm[i] = stable[0], stable[len(stable)-1]
			if first < 0 {
				first = i
			}
		case i > 0:
			cold[i], warm[i] = cold[i-1], warm[i-1]
		}
	}
	if first < 0 {
		return ""
	}
	for i := 0; i < first; i++ {
		cold[i], warm[i] = cold[first], warm[first]
	}
	return asciigraph.PlotMany([][]float64{cold, warm},
		asciigraph.Height(DefaultHeight),
		asciigraph.Width(DefaultWidth),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(caption),
	)
}
