package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// EventRepository write-throughs ScalingEvents, keyed event:{event_id} per
// spec.md §6, retained 30 days.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Insert(ctx context.Context, event *models.ScalingEvent) error {
	var snapshot []byte
	if event.MetricsSnapshot != nil {
		var err error
		snapshot, err = marshalJSON(event.MetricsSnapshot)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO scaling_events
			(id, service_id, timestamp, action, previous_instances, new_instances,
			 success, duration_ms, error, rule_summary, metrics_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.ServiceID,
		event.Timestamp,
		event.Action,
		event.PreviousInstances,
		event.NewInstances,
		event.Success,
		event.DurationMs,
		nullableString(event.Error),
		nullableString(event.RuleSummary),
		snapshot,
	)
	return err
}

// GetRecent returns up to limit events for a service, newest first.
func (r *EventRepository) GetRecent(ctx context.Context, serviceID string, limit int) ([]*models.ScalingEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, service_id, timestamp, action, previous_instances, new_instances,
			   success, duration_ms, COALESCE(error, ''), COALESCE(rule_summary, '')
		FROM scaling_events
		WHERE service_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, serviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScalingEvent
	for rows.Next() {
		e := &models.ScalingEvent{}
		if err := rows.Scan(&e.ID, &e.ServiceID, &e.Timestamp, &e.Action,
			&e.PreviousInstances, &e.NewInstances, &e.Success, &e.DurationMs,
			&e.Error, &e.RuleSummary); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListInRange returns every event with timestamp in [start, end), across
// all services, for report generation. This is the one read path outside
// the per-service GetRecent lookup, used by internal/reporting rather than
// by the decision loop itself.
func (r *EventRepository) ListInRange(ctx context.Context, start, end time.Time) ([]*models.ScalingEvent, error) {
	query := `
		SELECT id, service_id, timestamp, action, previous_instances, new_instances,
			   success, duration_ms, COALESCE(error, ''), COALESCE(rule_summary, '')
		FROM scaling_events
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp ASC`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScalingEvent
	for rows.Next() {
		e := &models.ScalingEvent{}
		if err := rows.Scan(&e.ID, &e.ServiceID, &e.Timestamp, &e.Action,
			&e.PreviousInstances, &e.NewInstances, &e.Success, &e.DurationMs,
			&e.Error, &e.RuleSummary); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes events older than the retention window (30 days
// per spec.md §6).
func (r *EventRepository) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result, err := r.db.ExecContext(ctx, `DELETE FROM scaling_events WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
