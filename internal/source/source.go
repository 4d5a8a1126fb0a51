// Package source reads live telemetry values from the push-updated store the
// meter writes to.
package source

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
)

// Reading is one snapshot of the live store. A channel with no value yet is
// missing from the map.
type Reading map[domain.Channel]float64

// Reader takes a snapshot of every channel in one round trip. Transport
// failures wrap domain.ErrSourceUnavailable.
type Reader interface {
	Read(ctx context.Context) (Reading, error)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
}

// parseValue accepts the numeric forms meters publish: bare numbers and
// numeric strings, optionally quoted. NaN and infinities are rejected.
func parseValue(raw string) (float64, bool, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" || raw == "null" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse value %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("parse value %q: not a finite number", raw)
	}
	return v, true, nil
}

// collect parses raw values keyed by channel into a Reading.
func collect(raw map[domain.Channel]string) (Reading, error) {
	out := Reading{}
	for ch, r := range raw {
		v, ok, err := parseValue(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ch, err)
		}
		if ok {
			out[ch] = v
		}
	}
	return out, nil
}
