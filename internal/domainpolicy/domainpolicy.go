// Package domainpolicy applies trading-specific adjustments to a draft
// scaling decision: redundancy floor, scale-down rate cap, approval
// gating, and time-of-day pattern multipliers.
package domainpolicy

import (
	"fmt"
	"math"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// TradingPolicy applies spec.md §4.5 in strict, non-overlapping order.
type TradingPolicy struct{}

// New builds a TradingPolicy. The policy itself is stateless; all inputs
// arrive per call.
func New() *TradingPolicy {
	return &TradingPolicy{}
}

// Apply mutates draft in place, appending a reasoning entry for every rule
// that changes the recommendation, and recomputes Action afterward.
func (p *TradingPolicy) Apply(draft *models.ScalingDecision, profile *models.TradingProfile, now time.Time) {
	if profile == nil {
		return
	}

	p.applyRedundancyFloor(draft, profile)
	p.applyScaleDownRateCap(draft, profile)
	p.applyApprovalGate(draft, profile)
	p.applyPatternMultiplier(draft, profile, now)

	draft.RecomputeAction()
}

// ApplyRedundancyFloorOnly applies just the redundancy-floor step,
// recomputing Action afterward. Used by the emergency scale-down path,
// which per spec.md §4.9 must honor the redundancy floor and global limits
// but bypasses the rest of domain policy (rate cap, approval gate, pattern
// multiplier).
func (p *TradingPolicy) ApplyRedundancyFloorOnly(draft *models.ScalingDecision, profile *models.TradingProfile) {
	if profile == nil {
		return
	}
	p.applyRedundancyFloor(draft, profile)
	draft.RecomputeAction()
}

func (p *TradingPolicy) applyRedundancyFloor(draft *models.ScalingDecision, profile *models.TradingProfile) {
	floor := profile.Compliance.MinInstancesForRedundancy
	if draft.RecommendedInstances < floor {
		draft.RecommendedInstances = floor
		draft.AddReason(fmt.Sprintf("redundancy floor enforced: raised to %d instances", floor))
	}
}

func (p *TradingPolicy) applyScaleDownRateCap(draft *models.ScalingDecision, profile *models.TradingProfile) {
	if draft.Action != models.ActionDown {
		return
	}
	current := draft.CurrentInstances
	maxStep := int(math.Floor(float64(current) * profile.Compliance.MaxScaleDownRatePct / 100))
	if current-draft.RecommendedInstances > maxStep {
		draft.RecommendedInstances = current - maxStep
		draft.AddReason(fmt.Sprintf("scale-down rate capped to %d instances this cycle", maxStep))
	}
}

func (p *TradingPolicy) applyApprovalGate(draft *models.ScalingDecision, profile *models.TradingProfile) {
	if draft.RecommendedInstances >= profile.Compliance.LargeScaleApprovalThreshold {
		draft.AddReason("requires manual approval: recommendation meets large-scale threshold")
	}
}

func (p *TradingPolicy) applyPatternMultiplier(draft *models.ScalingDecision, profile *models.TradingProfile, now time.Time) {
	pattern, ok := profile.MatchingPattern(now)
	if !ok {
		return
	}
	multiplier := profile.Patterns.Multiplier(pattern)
	draft.RecommendedInstances = int(math.Ceil(float64(draft.RecommendedInstances) * multiplier))
	draft.AddReason(fmt.Sprintf("trading pattern %q applied multiplier %.2f", pattern, multiplier))
}
