package metrics

// Stability is the fraction of samples that stayed inside [min, max].
type Stability struct {
	name       string
	min, max   float64
	violations int
	samples    int
}

func NewStability(min, max float64) *Stability {
	return &Stability{
		name: "stability",
		min:  min,
		max:  max,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x, rate, t float64) {
	s.samples++
	if x < s.min || x > s.max {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
