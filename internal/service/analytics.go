package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/energy"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/metrics"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/repository"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/tariff"
)

const (
	DefaultQueryTimeout = 10 * time.Second
	// HistoryLength is the number of raw samples the power history chart shows.
	HistoryLength = 30
	chartDays     = 7
)

// periodDays maps the rolling cost periods callers may request.
var periodDays = map[string]int{
	"weekly":  7,
	"monthly": 30,
}

// SampleReader is the read side of the metrics store. QueryRange must return
// samples in ascending timestamp order.
type SampleReader interface {
	QueryRange(ctx context.Context, w repository.Window) ([]domain.Sample, error)
	Recent(ctx context.Context, n int) ([]domain.Sample, error)
}

// Analytics derives energy and cost views from stored samples. Nothing it
// computes is cached; every call re-reads the store.
type Analytics struct {
	store   SampleReader
	tariff  *tariff.Schedule
	loc     *time.Location
	timeout time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAnalytics(store SampleReader, sched *tariff.Schedule, loc *time.Location, timeout time.Duration, m *metrics.Metrics) *Analytics {
	if sched == nil {
		sched = tariff.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Analytics{store: store, tariff: sched, loc: loc, timeout: timeout, metrics: m, now: time.Now}
}

type CostSummary struct {
	Today float64
	Month float64
}

// DailyBill is one bar of the weekly chart.
type DailyBill struct {
	Date      time.Time
	Label     string
	EnergyKWh float64
	Cost      float64
}

func (a *Analytics) Tariff() *tariff.Schedule { return a.tariff }

// Location is the zone calendar days and chart labels are computed in.
func (a *Analytics) Location() *time.Location { return a.loc }

func (a *Analytics) CostSummary(ctx context.Context) (CostSummary, error) {
	now := a.now().In(a.loc)
	today, err := a.windowCost(ctx, repository.Day(now, a.loc))
	if err != nil {
		return CostSummary{}, a.fail("cost_summary", err)
	}
	month, err := a.windowCost(ctx, repository.Month(now.Year(), now.Month(), a.loc))
	if err != nil {
		return CostSummary{}, a.fail("cost_summary", err)
	}
	return CostSummary{Today: today, Month: month}, nil
}

// PeriodCost bills the trailing window named by period ("weekly" or "monthly").
func (a *Analytics) PeriodCost(ctx context.Context, period string) (float64, error) {
	days, ok := periodDays[period]
	if !ok {
		return 0, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidQuery, period)
	}
	cost, err := a.windowCost(ctx, repository.Trailing(days, a.now()))
	if err != nil {
		return 0, a.fail("period_cost", err)
	}
	return cost, nil
}

// WeeklyBill bills each of the last seven calendar days, oldest first. Days
// without samples are present with zero energy and cost.
func (a *Analytics) WeeklyBill(ctx context.Context) ([]DailyBill, error) {
	today := a.now().In(a.loc)
	out := make([]DailyBill, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		w := repository.Day(today.AddDate(0, 0, -i), a.loc)
		kwh, err := a.windowEnergy(ctx, w)
		if err != nil {
			return nil, a.fail("weekly_bill", err)
		}
		out = append(out, DailyBill{
			Date:      w.From,
			Label:     w.From.Format("Mon"),
			EnergyKWh: kwh,
			Cost:      a.tariff.Bill(kwh),
		})
	}
	return out, nil
}

// PowerHistory returns the latest HistoryLength raw samples, oldest first.
func (a *Analytics) PowerHistory(ctx context.Context) ([]domain.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	samples, err := a.store.Recent(ctx, HistoryLength)
	if err != nil {
		return nil, a.fail("power_history", err)
	}
	if err := energy.CheckFinite(samples); err != nil {
		return nil, a.fail("power_history", err)
	}
	return samples, nil
}

// TotalEnergy integrates the whole history, in kWh.
func (a *Analytics) TotalEnergy(ctx context.Context) (float64, error) {
	kwh, err := a.windowEnergy(ctx, repository.AllTime())
	if err != nil {
		return 0, a.fail("total_energy", err)
	}
	return kwh, nil
}

// DayEnergy integrates one calendar day given as YYYY-MM-DD, in kWh.
func (a *Analytics) DayEnergy(ctx context.Context, date string) (time.Time, float64, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, a.loc)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: date %q is not YYYY-MM-DD", domain.ErrInvalidQuery, date)
	}
	kwh, err := a.windowEnergy(ctx, repository.Day(day, a.loc))
	if err != nil {
		return time.Time{}, 0, a.fail("day_energy", err)
	}
	return day, kwh, nil
}

func (a *Analytics) windowEnergy(ctx context.Context, w repository.Window) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	samples, err := a.store.QueryRange(ctx, w)
	if err != nil {
		return 0, err
	}
	return energy.KWh(samples)
}

func (a *Analytics) windowCost(ctx context.Context, w repository.Window) (float64, error) {
	kwh, err := a.windowEnergy(ctx, w)
	if err != nil {
		return 0, err
	}
	return a.tariff.Bill(kwh), nil
}

func (a *Analytics) fail(query string, err error) error {
	a.metrics.QueryFailures.WithLabelValues(query).Inc()
	return err
}
