package models

import "time"

// ScalingEvent is the record of executing (or failing to execute) a
// non-MAINTAIN decision.
type ScalingEvent struct {
	ID                string         `json:"id"`
	Timestamp         time.Time      `json:"timestamp"`
	ServiceID         string         `json:"service_id"`
	Action            ActionKind     `json:"action"`
	PreviousInstances int            `json:"previous_instances"`
	NewInstances      int            `json:"new_instances"`
	Success           bool           `json:"success"`
	DurationMs        int64          `json:"duration_ms"`
	Error             string         `json:"error,omitempty"`
	MetricsSnapshot   *ServiceMetrics `json:"metrics_snapshot,omitempty"`
	RuleSummary       string         `json:"rule_summary,omitempty"`
}

// NewScalingEvent builds an event from a decision and the backend result,
// filling in an id and timestamp.
func NewScalingEvent(decision *ScalingDecision, previous, newCount int, success bool, durationMs int64, execErr error, snapshot *ServiceMetrics) *ScalingEvent {
	event := &ScalingEvent{
		ID:                NewUUID(),
		Timestamp:         time.Now(),
		ServiceID:         decision.ServiceID,
		Action:            decision.Action,
		PreviousInstances: previous,
		NewInstances:      newCount,
		Success:           success,
		DurationMs:        durationMs,
		MetricsSnapshot:   snapshot,
	}
	if len(decision.TriggeredRuleIDs) > 0 {
		event.RuleSummary = decision.TriggeredRuleIDs[0]
		for _, id := range decision.TriggeredRuleIDs[1:] {
			event.RuleSummary += "," + id
		}
	}
	if execErr != nil {
		event.Error = execErr.Error()
	}
	return event
}
