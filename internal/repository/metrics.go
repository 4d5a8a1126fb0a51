package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
)

// Metrics is the append-only store of energy samples. It exposes no update or
// delete.
type Metrics struct {
	db *sqlx.DB
}

func NewMetrics(db *sqlx.DB) *Metrics { return &Metrics{db: db} }

func (r *Metrics) Insert(ctx context.Context, s domain.Sample) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO energy_metrics (power_value, current_value, timestamp) VALUES ($1, $2, $3) RETURNING id`,
		s.Power, s.Current, s.Timestamp.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert energy metric: %v", domain.ErrPersistence, err)
	}
	return id, nil
}

// QueryRange returns the samples inside w in ascending timestamp order.
func (r *Metrics) QueryRange(ctx context.Context, w Window) ([]domain.Sample, error) {
	var (
		where []string
		args  []any
	)
	if !w.From.IsZero() {
		args = append(args, w.From.UTC())
		where = append(where, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if !w.To.IsZero() {
		args = append(args, w.To.UTC())
		where = append(where, fmt.Sprintf("timestamp < $%d", len(args)))
	}
	q := `SELECT id, power_value, current_value, timestamp FROM energy_metrics`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY timestamp ASC, id ASC"

	var rows []domain.EnergyMetric
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("%w: query energy metrics: %v", domain.ErrPersistence, err)
	}
	return samples(rows), nil
}

// Recent returns the newest n samples, oldest first.
func (r *Metrics) Recent(ctx context.Context, n int) ([]domain.Sample, error) {
	var rows []domain.EnergyMetric
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, power_value, current_value, timestamp FROM (
			SELECT id, power_value, current_value, timestamp FROM energy_metrics
			ORDER BY timestamp DESC, id DESC LIMIT $1
		) latest ORDER BY timestamp ASC, id ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("%w: recent energy metrics: %v", domain.ErrPersistence, err)
	}
	return samples(rows), nil
}

// samples strips row ids; callers only see ordered observations.
func samples(rows []domain.EnergyMetric) []domain.Sample {
	out := make([]domain.Sample, len(rows))
	for i, row := range rows {
		out[i] = row.Sample
	}
	return out
}
