// Package tariff prices energy with a progressive marginal-rate ladder.
package tariff

import (
	"errors"
	"fmt"
	"math"
)

// Tier charges Rate per kWh for units above the previous tier's bound up to UpTo.
type Tier struct {
	UpTo float64
	Rate float64
}

// Band is a Tier annotated with its lower bound and the cumulative charge at
// that bound.
type Band struct {
	From float64
	To   float64
	Rate float64
	Base float64
}

// Schedule is an immutable, validated tier table.
type Schedule struct {
	bands []Band
}

// NewSchedule validates tiers and precomputes the running base amount of each
// band, so Bill(x) = base + (x - from) * rate and the ladder is continuous at
// every bound. The last tier is open ended regardless of its UpTo.
func NewSchedule(tiers []Tier) (*Schedule, error) {
	if len(tiers) == 0 {
		return nil, errors.New("tariff: no tiers")
	}
	bands := make([]Band, len(tiers))
	var from, base float64
	for i, t := range tiers {
		if t.Rate < 0 || math.IsNaN(t.Rate) {
			return nil, fmt.Errorf("tariff: tier %d has invalid rate %v", i, t.Rate)
		}
		to := t.UpTo
		if i == len(tiers)-1 {
			to = math.Inf(1)
		} else if !(to > from) {
			return nil, fmt.Errorf("tariff: tier %d bound %v must exceed %v", i, to, from)
		}
		bands[i] = Band{From: from, To: to, Rate: t.Rate, Base: base}
		if !math.IsInf(to, 1) {
			base += (to - from) * t.Rate
		}
		from = to
	}
	return &Schedule{bands: bands}, nil
}

// Bill returns the charge for units kWh; zero for non-positive input. NaN is
// returned unchanged.
func (s *Schedule) Bill(units float64) float64 {
	if math.IsNaN(units) {
		return units
	}
	if units <= 0 {
		return 0
	}
	for _, b := range s.bands {
		if units <= b.To {
			return b.Base + (units-b.From)*b.Rate
		}
	}
	return 0
}

// Bands returns a copy of the resolved table.
func (s *Schedule) Bands() []Band {
	out := make([]Band, len(s.bands))
	copy(out, s.bands)
	return out
}

var defaultTiers = []Tier{
	{UpTo: 100, Rate: 0},
	{UpTo: 200, Rate: 2.25},
	{UpTo: 400, Rate: 4.50},
	{UpTo: 500, Rate: 6.00},
	{UpTo: 600, Rate: 8.00},
	{UpTo: 800, Rate: 9.00},
	{UpTo: 1000, Rate: 10.00},
	{UpTo: math.Inf(1), Rate: 11.00},
}

// Default returns the residential ladder the dashboard bills with.
func Default() *Schedule {
	s, err := NewSchedule(defaultTiers)
	if err != nil {
		panic(err)
	}
	return s
}
