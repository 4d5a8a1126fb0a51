package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/metrics"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/repository"
)

// memStore filters an in-memory, caller-ordered slice the way the SQL store does.
type memStore struct {
	samples []domain.Sample
	err     error
	windows []repository.Window
}

func (m *memStore) QueryRange(_ context.Context, w repository.Window) ([]domain.Sample, error) {
	m.windows = append(m.windows, w)
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Sample{}
	for _, s := range m.samples {
		if !w.From.IsZero() && s.Timestamp.Before(w.From) {
			continue
		}
		if !w.To.IsZero() && !s.Timestamp.Before(w.To) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) Recent(_ context.Context, n int) ([]domain.Sample, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.samples) <= n {
		return m.samples, nil
	}
	return m.samples[len(m.samples)-n:], nil
}

var ist = time.FixedZone("IST", 5*3600+1800)

// Wednesday.
var fixedNow = time.Date(2024, 5, 15, 18, 0, 0, 0, ist)

func newTestAnalytics(store *memStore) (*Analytics, *metrics.Metrics) {
	m := metrics.New(nil)
	a := NewAnalytics(store, nil, ist, time.Second, m)
	a.now = func() time.Time { return fixedNow }
	return a, m
}

// constantLoad emits power watts every hour from start for n hours.
func constantLoad(start time.Time, watts float64, hours int) []domain.Sample {
	out := make([]domain.Sample, 0, hours+1)
	for i := 0; i <= hours; i++ {
		out = append(out, domain.Sample{Power: watts, Timestamp: start.Add(time.Duration(i) * time.Hour)})
	}
	return out
}

func TestDayEnergyScenario(t *testing.T) {
	t0 := time.Date(2024, 5, 15, 9, 0, 0, 0, ist)
	store := &memStore{samples: []domain.Sample{
		{Power: 100, Timestamp: t0},
		{Power: 200, Timestamp: t0.Add(time.Hour)},
		{Power: 0, Timestamp: t0.Add(2 * time.Hour)},
	}}
	a, _ := newTestAnalytics(store)

	day, kwh, err := a.DayEnergy(context.Background(), "2024-05-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, ist), day)
	assert.InDelta(t, 0.25, kwh, 1e-12)
	assert.Zero(t, a.Tariff().Bill(kwh))
}

func TestDayEnergyRejectsBadDate(t *testing.T) {
	a, _ := newTestAnalytics(&memStore{})
	for _, d := range []string{"", "15-05-2024", "2024-13-01", "yesterday"} {
		_, _, err := a.DayEnergy(context.Background(), d)
		assert.ErrorIs(t, err, domain.ErrInvalidQuery, d)
	}
}

func TestCostSummary(t *testing.T) {
	// 10 kW for 15h today = 150 kWh -> 112.50; plus 10 kW for 10h on the 2nd = 100 kWh.
	samples := constantLoad(time.Date(2024, 5, 2, 0, 0, 0, 0, ist), 10000, 10)
	samples = append(samples, constantLoad(time.Date(2024, 5, 15, 0, 0, 0, 0, ist), 10000, 15)...)
	a, _ := newTestAnalytics(&memStore{samples: samples})

	got, err := a.CostSummary(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 112.5, got.Today, 1e-9)
	// The month integrates across the idle gap between the two runs as well.
	assert.Greater(t, got.Month, got.Today)
}

func TestPeriodCost(t *testing.T) {
	samples := constantLoad(fixedNow.Add(-10*time.Hour), 25000, 10) // 250 kWh
	store := &memStore{samples: samples}
	a, _ := newTestAnalytics(store)

	got, err := a.PeriodCost(context.Background(), "weekly")
	require.NoError(t, err)
	assert.InDelta(t, 450, got, 1e-9)

	got, err = a.PeriodCost(context.Background(), "monthly")
	require.NoError(t, err)
	assert.InDelta(t, 450, got, 1e-9)
	last := store.windows[len(store.windows)-1]
	assert.Equal(t, fixedNow.Add(-30*24*time.Hour), last.From)

	_, err = a.PeriodCost(context.Background(), "yearly")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestWeeklyBillAlwaysSevenDays(t *testing.T) {
	store := &memStore{samples: constantLoad(time.Date(2024, 5, 13, 0, 0, 0, 0, ist), 15000, 10)} // Monday, 150 kWh
	a, _ := newTestAnalytics(store)

	bills, err := a.WeeklyBill(context.Background())
	require.NoError(t, err)
	require.Len(t, bills, 7)

	labels := make([]string, 0, 7)
	for _, b := range bills {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}, labels)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, ist), bills[0].Date)
	assert.InDelta(t, 150, bills[4].EnergyKWh, 1e-9)
	assert.InDelta(t, 112.5, bills[4].Cost, 1e-9)
	for i, b := range bills {
		if i != 4 {
			assert.Zero(t, b.Cost, b.Label)
		}
	}

	empty, err := newAnalyticsOver(&memStore{}).WeeklyBill(context.Background())
	require.NoError(t, err)
	assert.Len(t, empty, 7)
}

func newAnalyticsOver(store *memStore) *Analytics {
	a, _ := newTestAnalytics(store)
	return a
}

func TestMalformedSequenceSurfaces(t *testing.T) {
	t0 := time.Date(2024, 5, 15, 9, 0, 0, 0, ist)
	store := &memStore{samples: []domain.Sample{
		{Power: 100, Timestamp: t0.Add(time.Hour)},
		{Power: 100, Timestamp: t0},
	}}
	a, m := newTestAnalytics(store)

	_, err := a.TotalEnergy(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryFailures.WithLabelValues("total_energy")))
}

func TestNonFiniteRowFailsInsteadOfBillingZero(t *testing.T) {
	t0 := time.Date(2024, 5, 15, 9, 0, 0, 0, ist)
	store := &memStore{samples: []domain.Sample{
		{Power: 1000, Timestamp: t0},
		{Power: math.NaN(), Timestamp: t0.Add(time.Hour)},
	}}
	a, m := newTestAnalytics(store)

	_, err := a.CostSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
	_, err = a.TotalEnergy(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
	_, err = a.PowerHistory(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryFailures.WithLabelValues("power_history")))
}

func TestStoreFailureIsNotZero(t *testing.T) {
	store := &memStore{err: fmt.Errorf("%w: pool exhausted", domain.ErrPersistence)}
	a, _ := newTestAnalytics(store)

	_, err := a.CostSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	_, err = a.WeeklyBill(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	_, err = a.PowerHistory(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	_, err = a.PeriodCost(context.Background(), "weekly")
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestPowerHistoryKeepsLatestThirty(t *testing.T) {
	var samples []domain.Sample
	start := fixedNow.Add(-time.Hour)
	for i := 0; i < 45; i++ {
		samples = append(samples, domain.Sample{Power: float64(i), Timestamp: start.Add(time.Duration(i) * 30 * time.Second)})
	}
	a, _ := newTestAnalytics(&memStore{samples: samples})

	got, err := a.PowerHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, got, HistoryLength)
	assert.Equal(t, 15.0, got[0].Power)
	assert.Equal(t, 44.0, got[len(got)-1].Power)
}

func TestTotalEnergyAllTime(t *testing.T) {
	store := &memStore{samples: constantLoad(time.Date(2024, 1, 1, 0, 0, 0, 0, ist), 500, 4)}
	a, _ := newTestAnalytics(store)

	kwh, err := a.TotalEnergy(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, kwh, 1e-12)
	assert.Equal(t, repository.AllTime(), store.windows[0])
}
