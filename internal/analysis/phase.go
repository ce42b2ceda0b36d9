package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
)

// PhasePortrait is a set of (temperature, dT/dt) points.
type PhasePortrait struct {
	Points []struct{ X, Y float64 }
}

// TrajectoryPortrait pairs each step's rate with the temperature it was
// evaluated at. Rates[i] belongs to Temperatures[i-1], so a trajectory of
// n samples gives n-1 points, or one point for a single sample.
func TrajectoryPortrait(tr *dynamo.Trajectory) *PhasePortrait {
	if tr == nil || tr.Len() == 0 {
		return nil
	}
	if tr.Len() == 1 {
		return &PhasePortrait{Points: []struct{ X, Y float64 }{{tr.Temperatures[0], tr.Rates[0]}}}
	}
	p := &PhasePortrait{Points: make([]struct{ X, Y float64 }, tr.Len()-1)}
	for i := 1; i < tr.Len(); i++ {
		p.Points[i-1].X = tr.Temperatures[i-1]
		p.Points[i-1].Y = tr.Rates[i]
	}
	return p
}

// XY splits the portrait into coordinate slices.
func (p *PhasePortrait) XY() (xs, ys []float64) {
	if p == nil {
		return nil, nil
	}
	xs = make([]float64, len(p.Points))
	ys = make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	return xs, ys
}

// RatePortrait samples dT/dt over the model temperature grid. Its zero
// crossings are the equilibria.
func RatePortrait(m *climate.Model, g float64) (*PhasePortrait, error) {
	if err := m.ValidateGreenhouse(g); err != nil {
		return nil, err
	}
	temps, rates := m.RateCurve(g)
	p := &PhasePortrait{Points: make([]struct{ X, Y float64 }, len(temps))}
	for i := range temps {
		p.Points[i].X = temps[i]
		p.Points[i].Y = rates[i]
	}
	return p, nil
}

// PhasePortraitToASCII renders a portrait with a horizontal line at
// dT/dt = 0 when it is in view.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = math.Max(math.Abs(minY), 1e-12)
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
