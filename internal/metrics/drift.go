// Package metrics accumulates scalar diagnostics over a reported
// trajectory.
package metrics

import "math"

// Observer consumes one scalar observation per report time.
type Observer interface {
	Name() string
	Observe(t, v float64)
	Value() float64
	Reset()
}

// MaxDrift tracks the largest excursion of a conserved quantity from
// its first observed value, relative to that value when it is nonzero.
type MaxDrift struct {
	name    string
	initial float64
	max     float64
	samples int
}

func NewMaxDrift(name string) *MaxDrift {
	return &MaxDrift{name: name}
}

func (m *MaxDrift) Name() string { return m.name }

func (m *MaxDrift) Observe(t, v float64) {
	if m.samples == 0 {
		m.initial = v
	}
	m.samples++

	denom := math.Abs(m.initial)
	if denom == 0 {
		denom = 1
	}
	drift := math.Abs(v-m.initial) / denom
	m.max = math.Max(m.max, drift)
}

func (m *MaxDrift) Value() float64 { return m.max }

func (m *MaxDrift) Reset() {
	m.initial = 0
	m.max = 0
	m.samples = 0
}

// Peak tracks the largest absolute observation, used for constraint
// residuals.
type Peak struct {
	name string
	max  float64
}

func NewPeak(name string) *Peak {
	return &Peak{name: name}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(t, v float64) {
	p.max = math.Max(p.max, math.Abs(v))
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() { p.max = 0 }
