package metrics

import "math"

// Convergence reports |x_n - x_(n-1)| for the last two observed samples.
// A run that has settled on a fixed point drives it toward zero.
type Convergence struct {
	name    string
	prev    float64
	last    float64
	samples int
}

func NewConvergence() *Convergence {
	return &Convergence{
		name: "convergence",
	}
}

func (c *Convergence) Name() string {
	return c.name
}

func (c *Convergence) Observe(x, rate, t float64) {
	c.prev = c.last
	c.last = x
	c.samples++
}

func (c *Convergence) Value() float64 {
	if c.samples < 2 {
		return math.Inf(1)
	}
	return math.Abs(c.last - c.prev)
}

func (c *Convergence) Reset() {
	c.prev = 0
	c.last = 0
	c.samples = 0
}
