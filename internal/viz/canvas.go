package viz

import (
	"math"
	"strings"
)

const brailleBase = 0x2800

// Braille cell dot bits, indexed [row][col] within the 2x4 cell.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells giving 2x4 sub-pixels per character.
type Canvas struct {
	Width, Height int // in characters
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(string(rune(brailleBase)), w))
	}
	return c
}

// Set lights the sub-pixel (x, y); y grows downwards. Out-of-range points
// are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.cells[y/4][x/2] |= dotBits[y%4][x%2]
}

// Line draws a Bresenham line between two sub-pixels.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// PlotXY renders TraceXY as text.
func PlotXY(xs, ys []float64, width, height int) string {
	c := TraceXY(xs, ys, width, height)
	if c == nil {
		return ""
	}
	return c.String()
}

// TraceXY draws ys against xs as a connected curve scaled to fill a
// width x height cell canvas. Non-finite points break the curve. It
// returns nil when there is nothing to draw.
func TraceXY(xs, ys []float64, width, height int) *Canvas {
	n := min(len(xs), len(ys))
	if n == 0 || width <= 0 || height <= 0 {
		return nil
	}

	minX, maxX := bounds(xs[:n])
	minY, maxY := bounds(ys[:n])
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	c := NewCanvas(width, height)
	px := func(x float64) int { return int(math.Round((x - minX) / (maxX - minX) * float64(width*2-1))) }
	py := func(y float64) int { return int(math.Round((maxY - y) / (maxY - minY) * float64(height*4-1))) }

	prevOK := false
	var x0, y0 int
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			prevOK = false
			continue
		}
		x1, y1 := px(xs[i]), py(ys[i])
		if prevOK {
			c.Line(x0, y0, x1, y1)
		} else {
			c.Set(x1, y1)
		}
		x0, y0, prevOK = x1, y1, true
	}
	return c
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		if !finite(x) {
			continue
		}
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Each calls fn for every lit sub-pixel, row by row.
func (c *Canvas) Each(fn func(x, y int)) {
	for row, cells := range c.cells {
		for col, r := range cells {
			bits := r - brailleBase
			if bits == 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if bits&dotBits[dy][dx] != 0 {
						fn(col*2+dx, row*4+dy)
					}
				}
			}
		}
	}
}
