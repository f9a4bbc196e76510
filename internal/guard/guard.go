// Package guard enforces the two cross-cutting constraints every decision
// must satisfy regardless of which rule produced it: cooldown suppression
// and global instance-count limits.
package guard

import (
	"sync"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// CooldownGate is the shared handle passed to both the decision engine
// (pre-decision check) and the execution coordinator (post-success stamp),
// breaking the cyclic dependency called out in spec.md §9 Design Notes.
//
// Cooldown is OR'd across directions, not gated per-direction — see
// DESIGN.md Open Question 1. This is preserved intentionally, not an
// oversight.
type CooldownGate struct {
	mu       sync.RWMutex
	states   map[string]models.CooldownState
	upCooldown   time.Duration
	downCooldown time.Duration
}

// NewCooldownGate builds a gate with the given per-direction cooldown
// windows.
func NewCooldownGate(upCooldown, downCooldown time.Duration) *CooldownGate {
	return &CooldownGate{
		states:       make(map[string]models.CooldownState),
		upCooldown:   upCooldown,
		downCooldown: downCooldown,
	}
}

// InCooldown reports whether serviceID is currently suppressed, and the
// reason to attach to a MAINTAIN decision if so.
func (g *CooldownGate) InCooldown(serviceID string, now time.Time) (bool, string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	state, ok := g.states[serviceID]
	if !ok {
		return false, ""
	}
	if !state.LastScaleUp.IsZero() && now.Sub(state.LastScaleUp) < g.upCooldown {
		return true, "service in cooldown period"
	}
	if !state.LastScaleDown.IsZero() && now.Sub(state.LastScaleDown) < g.downCooldown {
		return true, "service in cooldown period"
	}
	return false, ""
}

// Stamp records a successful scaling in the given direction. Only called
// after a successful non-MAINTAIN execution — never on failure.
func (g *CooldownGate) Stamp(serviceID string, action models.ActionKind, when time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.states[serviceID]
	switch action {
	case models.ActionUp:
		state.LastScaleUp = when
	case models.ActionDown:
		state.LastScaleDown = when
	}
	g.states[serviceID] = state
}

// Reset clears cooldown bookkeeping for a service, used when a worker
// restarts with fresh transient state.
func (g *CooldownGate) Reset(serviceID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.states, serviceID)
}

// LimitGuard clamps a recommendation into [min_instances, max_instances].
type LimitGuard struct {
	limits models.GlobalLimits
}

// NewLimitGuard builds a LimitGuard over the given limits.
func NewLimitGuard(limits models.GlobalLimits) *LimitGuard {
	return &LimitGuard{limits: limits}
}

// Clamp bounds the decision's recommendation and recomputes Action from the
// post-clamp relation between recommended and current, per spec.md §4.6.
func (l *LimitGuard) Clamp(draft *models.ScalingDecision) {
	draft.RecommendedInstances = l.limits.Clamp(draft.RecommendedInstances)
	draft.RecomputeAction()
}

// Limits returns the configured global limits.
func (l *LimitGuard) Limits() models.GlobalLimits {
	return l.limits
}
