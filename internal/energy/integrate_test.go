package energy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
)

var t0 = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func sample(power float64, at time.Time) domain.Sample {
	return domain.Sample{Power: power, Timestamp: at}
}

func TestWattHoursConstantPowerIsExact(t *testing.T) {
	for _, tc := range []struct {
		power float64
		span  time.Duration
	}{
		{power: 100, span: time.Hour},
		{power: 1500, span: 30 * time.Minute},
		{power: 42.5, span: 90 * time.Second},
	} {
		got, err := WattHours([]domain.Sample{sample(tc.power, t0), sample(tc.power, t0.Add(tc.span))})
		require.NoError(t, err)
		assert.Equal(t, tc.power*tc.span.Hours(), got)
	}
}

func TestWattHoursTooFewSamples(t *testing.T) {
	got, err := WattHours(nil)
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = WattHours([]domain.Sample{sample(900, t0)})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestWattHoursIdenticalTimestampsContributeNothing(t *testing.T) {
	got, err := WattHours([]domain.Sample{
		sample(100, t0),
		sample(300, t0),
		sample(300, t0.Add(time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, got)
}

func TestWattHoursRejectsBackwardsTime(t *testing.T) {
	_, err := WattHours([]domain.Sample{
		sample(100, t0),
		sample(100, t0.Add(time.Hour)),
		sample(100, t0.Add(30*time.Minute)),
	})
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
}

func TestKWhSameDayScenario(t *testing.T) {
	got, err := KWh([]domain.Sample{
		sample(100, t0),
		sample(200, t0.Add(time.Hour)),
		sample(0, t0.Add(2*time.Hour)),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-12)
}

func TestKWhIrregularSpacing(t *testing.T) {
	got, err := KWh([]domain.Sample{
		sample(2000, t0),
		sample(1000, t0.Add(15*time.Minute)),
		sample(3000, t0.Add(45*time.Minute)),
	})
	require.NoError(t, err)
	// 1500W*0.25h + 2000W*0.5h = 1375Wh
	assert.InDelta(t, 1.375, got, 1e-12)
}

func TestWattHoursRejectsNonFinitePower(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := WattHours([]domain.Sample{
			sample(1000, t0),
			sample(bad, t0.Add(time.Hour)),
		})
		assert.ErrorIs(t, err, domain.ErrMalformedSequence, "%v", bad)
	}

	// a single stored row is enough to poison a window
	_, err := KWh([]domain.Sample{sample(math.NaN(), t0)})
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
}

func TestCheckFiniteCurrent(t *testing.T) {
	err := CheckFinite([]domain.Sample{{Power: 10, Current: math.Inf(1), Timestamp: t0}})
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
	assert.NoError(t, CheckFinite([]domain.Sample{sample(10, t0)}))
}
