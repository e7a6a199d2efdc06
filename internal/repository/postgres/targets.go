package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/pkg/sqlident"
)

// TargetRepo reads and writes metric targets in a configurable table.
type TargetRepo struct {
	db    *sql.DB
	table string
}

// NewTargetRepo creates a Postgres-backed target repository. The table name
// is interpolated into queries and must be a plain identifier.
func NewTargetRepo(db *sql.DB, table string) (*TargetRepo, error) {
	name, err := sqlident.Validate(table)
	if err != nil {
		return nil, fmt.Errorf("targets table: %w", err)
	}
	return &TargetRepo{db: db, table: name}, nil
}

// FetchTargets returns the active target per metric whose period overlaps
// [start, end]. When several rows match a metric the latest one wins.
func (r *TargetRepo) FetchTargets(ctx context.Context, clientID string, start, end domain.Date, metrics []string) (map[string]domain.TargetDefinition, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT metric_name, target_type, target_value, lower_bound, upper_bound, currency
		FROM %s
		WHERE client_id = $1
		  AND metric_name = ANY($2)
		  AND period_start <= $3
		  AND period_end >= $4
		  AND status = 'ACTIVE'
		ORDER BY period_start, created_at
	`, r.table), clientID, pq.Array(metrics), end.Time, start.Time)
	if err != nil {
		return nil, fmt.Errorf("fetch targets: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.TargetDefinition)
	for rows.Next() {
		var (
			metric, targetType  string
			value, lower, upper sql.NullFloat64
			currency            sql.NullString
		)
		if err := rows.Scan(&metric, &targetType, &value, &lower, &upper, &currency); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out[metric] = domain.TargetDefinition{
			Type:     domain.TargetType(targetType),
			Value:    floatPtr(value),
			Lower:    floatPtr(lower),
			Upper:    floatPtr(upper),
			Currency: stringPtr(currency),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	return out, nil
}

// UpsertTarget inserts a target row unless an identical one exists.
// It reports whether a row was written.
func (r *TargetRepo) UpsertTarget(ctx context.Context, t *domain.Target) (bool, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TargetActive
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s
		  (id, client_id, metric_name, target_type, target_value, lower_bound, upper_bound,
		   currency, period_start, period_end, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT DO NOTHING
	`, r.table),
		t.ID, t.ClientID, t.MetricName, string(t.Type), t.Value, t.Lower, t.Upper,
		t.Currency, t.PeriodStart.Time, t.PeriodEnd.Time, string(t.Status),
	)
	if err != nil {
		return false, fmt.Errorf("upsert target: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
