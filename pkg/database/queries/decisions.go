package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// DecisionRepository write-throughs ScalingDecisions for audit/reporting.
// The core never reads this table at decision time (spec.md §6) — the only
// read path is ListInRange, used by internal/reporting.
type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func (r *DecisionRepository) Insert(ctx context.Context, decision *models.ScalingDecision) error {
	reasoning, err := json.Marshal(decision.Reasoning)
	if err != nil {
		return err
	}
	ruleIDs, err := json.Marshal(decision.TriggeredRuleIDs)
	if err != nil {
		return err
	}
	metricsUsed, err := json.Marshal(decision.MetricsUsed)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scaling_decisions
			(id, service_id, timestamp, current_instances, recommended_instances,
			 action, urgency, confidence, reasoning, triggered_rule_ids, metrics_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`

	_, err = r.db.ExecContext(ctx, query,
		models.NewUUID(),
		decision.ServiceID,
		decision.Timestamp,
		decision.CurrentInstances,
		decision.RecommendedInstances,
		decision.Action,
		decision.Urgency,
		decision.Confidence,
		reasoning,
		ruleIDs,
		metricsUsed,
	)
	return err
}

// ListInRange returns every decision with timestamp in [start, end), across
// all services, for report generation.
func (r *DecisionRepository) ListInRange(ctx context.Context, start, end time.Time) ([]*models.ScalingDecision, error) {
	query := `
		SELECT service_id, timestamp, current_instances, recommended_instances,
			   action, urgency, confidence, reasoning, triggered_rule_ids, metrics_used
		FROM scaling_decisions
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp ASC`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScalingDecision
	for rows.Next() {
		var d models.ScalingDecision
		var reasoning, ruleIDs, metricsUsed []byte
		if err := rows.Scan(&d.ServiceID, &d.Timestamp, &d.CurrentInstances,
			&d.RecommendedInstances, &d.Action, &d.Urgency, &d.Confidence,
			&reasoning, &ruleIDs, &metricsUsed); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(reasoning, &d.Reasoning)
		_ = json.Unmarshal(ruleIDs, &d.TriggeredRuleIDs)
		_ = json.Unmarshal(metricsUsed, &d.MetricsUsed)
		out = append(out, &d)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes decisions older than the retention window
// (7 days per spec.md §6).
func (r *DecisionRepository) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result, err := r.db.ExecContext(ctx, `DELETE FROM scaling_decisions WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
