package service

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/metrics"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/repository"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/source"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/tariff"
)

// Options carries the collaborators and tunables of Services.
type Options struct {
	Source        source.Reader // nil leaves Scheduler unset
	Location      *time.Location
	Tariff        *tariff.Schedule
	IngestPeriod  time.Duration
	IngestTimeout time.Duration
	QueryTimeout  time.Duration
	JWTSecret     []byte
	TokenTTL      time.Duration
	Insight       InsightGenerator // nil disables the insight endpoint
	Metrics       *metrics.Metrics
	Logger        zerolog.Logger
}

type Services struct {
	Analytics *Analytics
	Auth      *Auth
	Insight   InsightGenerator
	Scheduler *Scheduler
}

// New wires every service over one shared pool.
func New(db *sqlx.DB, opts Options) (*Services, error) {
	store := repository.NewMetrics(db)
	auth, err := NewAuth(repository.NewUsers(db), opts.JWTSecret, opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	svcs := &Services{
		Analytics: NewAnalytics(store, opts.Tariff, opts.Location, opts.QueryTimeout, opts.Metrics),
		Auth:      auth,
		Insight:   opts.Insight,
	}
	if opts.Source != nil {
		svcs.Scheduler = NewScheduler(opts.Source, store, opts.IngestPeriod, opts.IngestTimeout, opts.Metrics, opts.Logger)
	}
	return svcs, nil
}
