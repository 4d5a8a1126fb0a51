// Package energy turns irregularly spaced power samples into consumed energy.
package energy

import (
	"fmt"
	"math"
	"time"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
)

const wattHoursPerKWh = 1000.0

// WattHours integrates samples with the trapezoidal rule. Samples must be in
// non-decreasing timestamp order; a step backwards in time is rejected with
// domain.ErrMalformedSequence rather than accumulated as negative energy, and
// so is a sample whose power is NaN or infinite.
func WattHours(samples []domain.Sample) (float64, error) {
	if err := CheckFinite(samples); err != nil {
		return 0, err
	}
	var total float64
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if curr.Timestamp.Before(prev.Timestamp) {
			return 0, fmt.Errorf("%w: sample %d at %s precedes sample %d at %s",
				domain.ErrMalformedSequence, i, curr.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
				i-1, prev.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"))
		}
		hours := curr.Timestamp.Sub(prev.Timestamp).Hours()
		total += (prev.Power + curr.Power) / 2 * hours
	}
	return total, nil
}

// KWh is WattHours normalised to kilowatt-hours, the unit billing works in.
func KWh(samples []domain.Sample) (float64, error) {
	wh, err := WattHours(samples)
	if err != nil {
		return 0, err
	}
	return wh / wattHoursPerKWh, nil
}

// CheckFinite reports the first sample whose power or current is NaN or
// infinite as domain.ErrMalformedSequence.
func CheckFinite(samples []domain.Sample) error {
	for i, s := range samples {
		if !finite(s.Power) || !finite(s.Current) {
			return fmt.Errorf("%w: sample %d at %s has non-finite value (power %v, current %v)",
				domain.ErrMalformedSequence, i, s.Timestamp.Format(time.RFC3339), s.Power, s.Current)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
