package analysis

import (
	"fmt"
	"strings"
	"sync"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
)

// BifurcationPoint holds the classified equilibria for one greenhouse value.
type BifurcationPoint struct {
	G          float64
	Equilibria []Equilibrium
}

// Stable returns the temperatures of the stable equilibria at this g.
func (p BifurcationPoint) Stable() []float64 {
	out := make([]float64, 0, len(p.Equilibria))
	for _, e := range p.Equilibria {
		if e.Stable {
			out = append(out, e.Temperature)
		}
	}
	return out
}

// Bifurcation sweeps g over n evenly spaced values in [gMin, gMax] and
// classifies the equilibria at each. Values are computed in parallel.
func Bifurcation(m *climate.Model, gMin, gMax float64, n int) ([]BifurcationPoint, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: bifurcation needs at least 2 samples, got %d", dynamo.ErrInvalidArgument, n)
	}
	if gMin > gMax {
		return nil, fmt.Errorf("%w: gMin %v exceeds gMax %v", dynamo.ErrInvalidArgument, gMin, gMax)
	}
	for _, g := range []float64{gMin, gMax} {
		if err := m.ValidateGreenhouse(g); err != nil {
			return nil, err
		}
	}

	results := make([]BifurcationPoint, n)
	var (
		mu       sync.Mutex
		firstErr error
	)

	dynamo.ParallelFor(n, 4, func(start, end int) {
		for i := start; i < end; i++ {
			g := gMin + (gMax-gMin)*float64(i)/float64(n-1)
			eqs, err := Classify(m, g)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = BifurcationPoint{G: g, Equilibria: eqs}
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// BifurcationToASCII draws g on the horizontal axis and equilibrium
// temperature on the vertical one. Stable points are drawn as '•',
// unstable ones as '·'.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, e := range p.Equilibria {
			v := e.Temperature
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, e := range p.Equilibria {
			row := height - 1 - int((e.Temperature-minVal)/(maxVal-minVal)*float64(height-1))
			if row < 0 || row >= height {
				continue
			}
			if e.Stable {
				canvas[row][col] = '•'
			} else if canvas[row][col] == ' ' {
				canvas[row][col] = '·'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
