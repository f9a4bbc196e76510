// Package decision implements the C7 decision engine: it orchestrates rule
// evaluation, domain policy, and the limit/cooldown guard into a single
// ScalingDecision per tick, and keeps a bounded history ring per service.
package decision

import (
	"sort"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/domainpolicy"
	"github.com/OldStager01/cloud-autoscaler/internal/guard"
	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/internal/obsmetrics"
	"github.com/OldStager01/cloud-autoscaler/internal/ruleeval"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

const decisionRingCapacity = 100

// RuleSet resolves the rules that apply to a service. Rule storage and
// reload policy belong to configuration, outside the engine.
type RuleSet interface {
	RulesFor(serviceID string) []*models.ScalingRule
	Disable(ruleID string, reason string)
}

// Engine is the C7 orchestrator.
type Engine struct {
	rules     RuleSet
	evaluator *ruleeval.Evaluator
	policy    *domainpolicy.TradingPolicy
	cooldown  *guard.CooldownGate
	limits    *guard.LimitGuard
	profile   *models.TradingProfile
	disabled  bool

	rings   *ringRegistry
	sm      *stateMachineRegistry
	metrics *obsmetrics.Registry
}

// Config bundles the collaborators an Engine needs. Profile may be nil for
// deployments without a trading domain policy configured. Metrics may be
// nil to disable Prometheus instrumentation. Disabled mirrors the
// scaling.enabled master switch from configuration: the zero value keeps
// scaling enabled, so existing callers that don't set it are unaffected.
type Config struct {
	Rules     RuleSet
	Evaluator *ruleeval.Evaluator
	Policy    *domainpolicy.TradingPolicy
	Cooldown  *guard.CooldownGate
	Limits    *guard.LimitGuard
	Profile   *models.TradingProfile
	Metrics   *obsmetrics.Registry
	Disabled  bool
}

// NewEngine builds an Engine from its collaborators.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		rules:     cfg.Rules,
		evaluator: cfg.Evaluator,
		policy:    cfg.Policy,
		cooldown:  cfg.Cooldown,
		limits:    cfg.Limits,
		profile:   cfg.Profile,
		metrics:   cfg.Metrics,
		disabled:  cfg.Disabled,
		rings:     newRingRegistry(),
		sm:        newStateMachineRegistry(),
	}
}

// SetDisabled flips the master kill switch at runtime, for callers that
// reload configuration without rebuilding the engine.
func (e *Engine) SetDisabled(disabled bool) {
	e.disabled = disabled
}

// Decide implements spec.md §4.7. It always returns a decision (MAINTAIN on
// every short-circuit path) and appends it to the service's bounded ring.
func (e *Engine) Decide(serviceID string, metrics *models.ServiceMetrics, now time.Time) *models.ScalingDecision {
	machine := e.sm.For(serviceID)
	machine.ToDeciding()

	decision := &models.ScalingDecision{
		Timestamp:        now,
		ServiceID:        serviceID,
		CurrentInstances: metrics.Instances.Current,
		RecommendedInstances: metrics.Instances.Current,
		Action:           models.ActionMaintain,
		Urgency:          models.UrgencyLow,
		MetricsUsed:      map[string]float64{},
	}

	if e.disabled {
		decision.AddReason("scaling disabled via scaling.enabled=false; forcing MAINTAIN")
		e.finalizeDecision(serviceID, decision)
		machine.ToIdle()
		return decision
	}

	if inCooldown, reason := e.cooldown.InCooldown(serviceID, now); inCooldown {
		decision.AddReason(reason)
		e.finalizeDecision(serviceID, decision)
		machine.ToIdle()
		return decision
	}

	rules := e.applicableRules(serviceID)
	if len(rules) == 0 {
		decision.AddReason("no scaling rules triggered")
		e.finalizeDecision(serviceID, decision)
		machine.ToIdle()
		return decision
	}

	winner, verdict := e.pickWinningRule(rules, metrics, now)
	if winner == nil {
		decision.AddReason("no scaling rules triggered")
		e.finalizeDecision(serviceID, decision)
		machine.ToIdle()
		return decision
	}

	for _, cr := range verdict.PerConditionResults {
		decision.MetricsUsed[cr.Condition.MetricPath] = cr.Observed
	}
	decision.TriggeredRuleIDs = []string{winner.ID}
	decision.Confidence = verdict.Confidence
	decision.Urgency = models.UrgencyFromConfidence(verdict.Confidence)
	decision.RecommendedInstances = applySizing(winner.Action.Sizing, metrics.Instances.Current)
	decision.RecomputeAction()
	decision.AddReason("rule " + winner.Name + " triggered")

	e.policy.Apply(decision, e.profile, now)
	e.limits.Clamp(decision)

	e.finalizeDecision(serviceID, decision)

	if decision.ShouldExecute() {
		machine.ToExecuting()
	} else {
		machine.ToIdle()
	}

	return decision
}

// finalizeDecision pushes a decision onto the service's history ring and
// records it in the decisions-made counter, if metrics are configured.
func (e *Engine) finalizeDecision(serviceID string, decision *models.ScalingDecision) {
	e.rings.For(serviceID).Push(decision)
	if e.metrics != nil {
		e.metrics.DecisionsTotal.WithLabelValues(serviceID, string(decision.Action)).Inc()
	}
}

// NotifyExecuted transitions the per-service state machine once the
// execution coordinator reports completion, stamping cooldown on success.
func (e *Engine) NotifyExecuted(serviceID string, action models.ActionKind, success bool, when time.Time) {
	machine := e.sm.For(serviceID)
	if success && action != models.ActionMaintain {
		e.cooldown.Stamp(serviceID, action, when)
		machine.ToCoolingDown()
	}
	machine.ToIdle()
}

// History returns up to limit of the most recent decisions for a service,
// newest first.
func (e *Engine) History(serviceID string, limit int) []*models.ScalingDecision {
	return e.rings.For(serviceID).Recent(limit)
}

// ResetWorkerState clears a service's cooldown bookkeeping and decision
// state machine, called when a control-loop worker restarts after a panic.
// The history ring is preserved. Condition-tracker durations are not
// cleared: a threshold run already under way keeps its start time.
func (e *Engine) ResetWorkerState(serviceID string) {
	e.cooldown.Reset(serviceID)
	e.sm.Reset(serviceID)
}

func (e *Engine) applicableRules(serviceID string) []*models.ScalingRule {
	all := e.rules.RulesFor(serviceID)
	out := make([]*models.ScalingRule, 0, len(all))
	for _, r := range all {
		if r.AppliesTo(serviceID) {
			out = append(out, r)
		}
	}
	return out
}

// pickWinningRule evaluates every applicable rule, keeps the triggered
// ones, and returns the highest-priority match, breaking ties by first
// appearance (stable sort preserves input order for equal priority).
func (e *Engine) pickWinningRule(rules []*models.ScalingRule, metrics *models.ServiceMetrics, now time.Time) (*models.ScalingRule, ruleeval.Verdict) {
	type candidate struct {
		rule   *models.ScalingRule
		verdict ruleeval.Verdict
		index  int
	}

	var candidates []candidate
	for i, r := range rules {
		verdict := e.evaluator.Evaluate(r, metrics, now)
		if verdict.Triggered {
			candidates = append(candidates, candidate{rule: r, verdict: verdict, index: i})
		}
	}

	if len(candidates) == 0 {
		return nil, ruleeval.Verdict{}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rule.Priority > candidates[j].rule.Priority
	})

	winner := candidates[0]
	logger.Debugf("decision: rule %s won for service with priority %d", winner.rule.ID, winner.rule.Priority)
	return winner.rule, winner.verdict
}

// applySizing computes the draft recommended instance count from a rule's
// sizing, per spec.md §3's ScalingAction definition.
func applySizing(sizing models.Sizing, current int) int {
	switch sizing.Kind {
	case models.SizingAbsolute:
		return sizing.AbsoluteTarget
	case models.SizingDelta:
		return current + sizing.Delta
	case models.SizingPercent:
		return current + ceilAbsPercent(current, sizing.PercentDelta)
	default:
		return current
	}
}

func ceilAbsPercent(current int, pct float64) int {
	delta := float64(current) * pct / 100
	if delta < 0 {
		return -ceilFloat(-delta)
	}
	return ceilFloat(delta)
}

func ceilFloat(v float64) int {
	i := int(v)
	if float64(i) < v {
		i++
	}
	return i
}
