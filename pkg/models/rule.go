package models

// Comparison is the operator a ScalingCondition uses against its threshold.
type Comparison string

const (
	ComparisonGT Comparison = "GT"
	ComparisonLT Comparison = "LT"
	ComparisonEQ Comparison = "EQ"
	ComparisonNE Comparison = "NE"
)

// Compare evaluates observed against threshold using the receiver operator.
func (c Comparison) Compare(observed, threshold float64) bool {
	switch c {
	case ComparisonGT:
		return observed > threshold
	case ComparisonLT:
		return observed < threshold
	case ComparisonEQ:
		return observed == threshold
	case ComparisonNE:
		return observed != threshold
	default:
		return false
	}
}

// ScalingCondition is one threshold check within a rule. Conditions within
// a rule are combined by logical AND only; the model's Comparison field is
// not an operator-combination switch (see DESIGN.md, Open Question 3).
type ScalingCondition struct {
	MetricPath      string     `json:"metric_path"`
	Comparison      Comparison `json:"comparison"`
	Threshold       float64    `json:"threshold"`
	DurationSeconds float64    `json:"duration_seconds"`
}

// ActionKind is the direction a ScalingAction drives a service.
type ActionKind string

const (
	ActionUp       ActionKind = "UP"
	ActionDown     ActionKind = "DOWN"
	ActionMaintain ActionKind = "MAINTAIN"
)

// SizingKind selects which field of Sizing is populated.
type SizingKind string

const (
	SizingAbsolute SizingKind = "absolute"
	SizingDelta    SizingKind = "delta"
	SizingPercent  SizingKind = "percent"
)

// Sizing describes how many instances a rule's action targets. Exactly one
// of the three fields applies, selected by Kind.
type Sizing struct {
	Kind             SizingKind `json:"kind"`
	AbsoluteTarget   int        `json:"absolute_target,omitempty"`
	Delta            int        `json:"delta,omitempty"`
	PercentDelta     float64    `json:"percent_delta,omitempty"`
}

// ScalingAction is the effect a triggered rule has on a service's instance
// count.
type ScalingAction struct {
	Kind             ActionKind `json:"kind"`
	Sizing           Sizing     `json:"sizing"`
	TargetServices   []string   `json:"target_services,omitempty"`
	GracefulShutdown bool       `json:"graceful_shutdown,omitempty"`
}

// ScalingRule is a declarative trigger: when every condition holds, the
// action applies to every service in TargetServices.
type ScalingRule struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Enabled        bool               `json:"enabled"`
	Priority       int                `json:"priority"`
	Conditions     []ScalingCondition `json:"conditions"`
	Action         ScalingAction      `json:"action"`
	TargetServices map[string]struct{} `json:"-"`
}

// AppliesTo reports whether the rule targets the given service id.
func (r *ScalingRule) AppliesTo(serviceID string) bool {
	if !r.Enabled {
		return false
	}
	_, ok := r.TargetServices[serviceID]
	return ok
}

// NewScalingRule builds a rule with a target-service set derived from a
// plain id slice, the form rules normally arrive in from configuration.
func NewScalingRule(id, name string, priority int, conditions []ScalingCondition, action ScalingAction, targetServices []string) *ScalingRule {
	set := make(map[string]struct{}, len(targetServices))
	for _, id := range targetServices {
		set[id] = struct{}{}
	}
	return &ScalingRule{
		ID:             id,
		Name:           name,
		Enabled:        true,
		Priority:       priority,
		Conditions:     conditions,
		Action:         action,
		TargetServices: set,
	}
}
