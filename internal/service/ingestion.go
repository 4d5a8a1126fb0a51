package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/metrics"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/source"
)

const (
	DefaultIngestPeriod  = 30 * time.Second
	DefaultIngestTimeout = 10 * time.Second
)

// SampleWriter appends samples to durable storage.
type SampleWriter interface {
	Insert(ctx context.Context, s domain.Sample) (int64, error)
}

// State is the scheduler's position within a tick.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StatePersisting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StatePersisting:
		return "persisting"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Scheduler pulls POWER and CURRENT_DATA from the live source on a fixed period
// and appends one row per tick. Delivery is at-most-once: a tick that fails is
// logged and dropped, the next tick starts from scratch.
type Scheduler struct {
	source  source.Reader
	store   SampleWriter
	period  time.Duration
	timeout time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time

	state atomic.Int32
}

func NewScheduler(src source.Reader, store SampleWriter, period, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Scheduler {
	if period <= 0 {
		period = DefaultIngestPeriod
	}
	if timeout <= 0 {
		timeout = DefaultIngestTimeout
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Scheduler{
		source:  src,
		store:   store,
		period:  period,
		timeout: timeout,
		metrics: m,
		log:     logger.With().Str("component", "scheduler").Logger(),
		now:     time.Now,
	}
}

func (s *Scheduler) State() State { return State(s.state.Load()) }

// Run ticks once immediately and then every period until ctx is cancelled.
// Tick failures never end the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Dur("period", s.period).Msg("ingestion scheduler started")
	s.runTick(ctx)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("ingestion scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.state.Store(int32(StateIdle))
			s.metrics.Ticks.WithLabelValues(metrics.ResultFailed).Inc()
			s.log.Error().Interface("panic", r).Msg("ingestion tick panicked")
		}
	}()
	if _, err := s.Tick(ctx); err != nil {
		s.log.Error().Err(err).Msg("ingestion tick failed")
	}
}

// Tick performs one fetch-and-persist cycle and returns the new row id, or 0
// when both channels were absent and nothing was written. An absent channel is
// zero-filled when the other one is present.
func (s *Scheduler) Tick(ctx context.Context) (int64, error) {
	start := time.Now()
	defer func() {
		s.state.Store(int32(StateIdle))
		s.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.state.Store(int32(StateFetching))
	reading, err := s.source.Read(ctx)
	if err != nil {
		s.metrics.Ticks.WithLabelValues(metrics.ResultFailed).Inc()
		return 0, err
	}
	// a missing channel reads as zero
	power, hasPower := reading[domain.ChannelPower]
	current, hasCurrent := reading[domain.ChannelCurrent]
	if !hasPower && !hasCurrent {
		s.metrics.Ticks.WithLabelValues(metrics.ResultSkipped).Inc()
		s.log.Debug().Msg("no telemetry values yet, skipping write")
		return 0, nil
	}

	s.state.Store(int32(StatePersisting))
	sample := domain.Sample{Power: power, Current: current, Timestamp: s.now().UTC()}
	id, err := s.store.Insert(ctx, sample)
	if err != nil {
		s.metrics.Ticks.WithLabelValues(metrics.ResultFailed).Inc()
		return 0, err
	}

	s.metrics.Ticks.WithLabelValues(metrics.ResultWritten).Inc()
	s.metrics.LastSampleWatts.Set(power)
	s.log.Debug().Int64("id", id).Float64("power", power).Float64("current", current).Msg("sample persisted")
	return id, nil
}
