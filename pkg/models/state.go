package models

import "time"

// ConditionState is the transient per (service_id, metric_path) tracking
// record maintained by the condition state tracker.
type ConditionState struct {
	Satisfied bool
	Since     time.Time
}

// CooldownState is the transient per-service cooldown bookkeeping record.
type CooldownState struct {
	LastScaleUp   time.Time
	LastScaleDown time.Time
}

// GlobalLimits bounds every recommendation regardless of rule or domain
// policy outcome.
type GlobalLimits struct {
	MinInstances        int           `json:"min_instances" mapstructure:"min_instances"`
	MaxInstances        int           `json:"max_instances" mapstructure:"max_instances"`
	ScaleUpCooldownS    time.Duration `json:"scale_up_cooldown_s" mapstructure:"scale_up_cooldown_s"`
	ScaleDownCooldownS  time.Duration `json:"scale_down_cooldown_s" mapstructure:"scale_down_cooldown_s"`
}

// Valid checks the GlobalLimits invariants: min <= max, min >= 0.
func (l GlobalLimits) Valid() bool {
	return l.MinInstances >= 0 && l.MinInstances <= l.MaxInstances
}

// Clamp bounds target within [MinInstances, MaxInstances].
func (l GlobalLimits) Clamp(target int) int {
	if target < l.MinInstances {
		return l.MinInstances
	}
	if target > l.MaxInstances {
		return l.MaxInstances
	}
	return target
}
