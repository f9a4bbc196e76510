package models

import "time"

// Urgency classifies how pressing a ScalingDecision is, derived from the
// triggering rule's confidence.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// UrgencyFromConfidence maps a [0,1] confidence value to an urgency band.
func UrgencyFromConfidence(confidence float64) Urgency {
	switch {
	case confidence >= 0.9:
		return UrgencyCritical
	case confidence >= 0.7:
		return UrgencyHigh
	case confidence >= 0.5:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// ScalingDecision is the output of the decision engine for one service at
// one instant.
type ScalingDecision struct {
	Timestamp            time.Time          `json:"timestamp"`
	ServiceID             string            `json:"service_id"`
	CurrentInstances      int               `json:"current_instances"`
	RecommendedInstances  int               `json:"recommended_instances"`
	Action                ActionKind        `json:"action"`
	Urgency               Urgency           `json:"urgency"`
	Confidence            float64           `json:"confidence"`
	Reasoning             []string          `json:"reasoning"`
	TriggeredRuleIDs      []string          `json:"triggered_rule_ids,omitempty"`
	MetricsUsed           map[string]float64 `json:"metrics_used,omitempty"`
}

// Delta returns RecommendedInstances - CurrentInstances.
func (d *ScalingDecision) Delta() int {
	return d.RecommendedInstances - d.CurrentInstances
}

// ShouldExecute reports whether a non-MAINTAIN action should be sent to the
// execution coordinator.
func (d *ScalingDecision) ShouldExecute() bool {
	return d.Action != ActionMaintain
}

// AddReason appends a human-readable reasoning entry, used by every stage
// that can influence a draft decision (domain policy, guard, engine).
func (d *ScalingDecision) AddReason(reason string) {
	d.Reasoning = append(d.Reasoning, reason)
}

// RecomputeAction derives Action from the relation between Recommended and
// Current, per invariant P2. Callers invoke this after any stage mutates
// RecommendedInstances.
func (d *ScalingDecision) RecomputeAction() {
	switch {
	case d.RecommendedInstances > d.CurrentInstances:
		d.Action = ActionUp
	case d.RecommendedInstances < d.CurrentInstances:
		d.Action = ActionDown
	default:
		d.Action = ActionMaintain
	}
}
