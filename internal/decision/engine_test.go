package decision_test

import (
	"testing"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/condition"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/domainpolicy"
	"github.com/OldStager01/cloud-autoscaler/internal/guard"
	"github.com/OldStager01/cloud-autoscaler/internal/ruleeval"
	"github.com/OldStager01/cloud-autoscaler/internal/rules"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

func cpuUpRule() *models.ScalingRule {
	return models.NewScalingRule(
		"rule-cpu-up", "scale up on cpu", 10,
		[]models.ScalingCondition{{MetricPath: "cpu.usage", Comparison: models.ComparisonGT, Threshold: 75, DurationSeconds: 0}},
		models.ScalingAction{Kind: models.ActionUp, Sizing: models.Sizing{Kind: models.SizingDelta, Delta: 2}},
		[]string{"order-matching"},
	)
}

func newEngine(store *rules.Store, cooldown *guard.CooldownGate, limits *guard.LimitGuard) *decision.Engine {
	return decision.NewEngine(decision.Config{
		Rules:     store,
		Evaluator: ruleeval.New(condition.New()),
		Policy:    domainpolicy.New(),
		Cooldown:  cooldown,
		Limits:    limits,
	})
}

func metricsAt(cpu float64, current int) *models.ServiceMetrics {
	return &models.ServiceMetrics{
		ServiceID: "order-matching",
		Resources: models.ResourceMetrics{CPUUsage: cpu},
		Instances: models.InstanceMetrics{Current: current, Healthy: current},
	}
}

func TestEngine_Decide_NoApplicableRulesMaintains(t *testing.T) {
	e := newEngine(rules.NewStore(nil), guard.NewCooldownGate(0, 0), guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 100}))

	d := e.Decide("order-matching", metricsAt(90, 3), time.Now())

	if d.Action != models.ActionMaintain {
		t.Errorf("expected MAINTAIN with no rules, got %s", d.Action)
	}
	if d.RecommendedInstances != 3 {
		t.Errorf("expected recommended instances to stay at current, got %d", d.RecommendedInstances)
	}
}

func TestEngine_Decide_TriggeredRuleScalesUp(t *testing.T) {
	store := rules.NewStore([]*models.ScalingRule{cpuUpRule()})
	e := newEngine(store, guard.NewCooldownGate(0, 0), guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 100}))

	now := time.Now()
	// The first breach only starts the condition's duration clock.
	e.Decide("order-matching", metricsAt(90, 3), now)
	d := e.Decide("order-matching", metricsAt(90, 3), now.Add(time.Second))

	if d.Action != models.ActionUp {
		t.Fatalf("expected UP, got %s", d.Action)
	}
	if d.RecommendedInstances != 5 {
		t.Errorf("expected recommended instances 5 (3+2 delta), got %d", d.RecommendedInstances)
	}
	if len(d.TriggeredRuleIDs) != 1 || d.TriggeredRuleIDs[0] != "rule-cpu-up" {
		t.Errorf("expected triggered rule id recorded, got %v", d.TriggeredRuleIDs)
	}
}

func TestEngine_Decide_DisabledForcesMaintainEvenWithTriggeredRule(t *testing.T) {
	store := rules.NewStore([]*models.ScalingRule{cpuUpRule()})
	e := decision.NewEngine(decision.Config{
		Rules:     store,
		Evaluator: ruleeval.New(condition.New()),
		Policy:    domainpolicy.New(),
		Cooldown:  guard.NewCooldownGate(0, 0),
		Limits:    guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 100}),
		Disabled:  true,
	})

	d := e.Decide("order-matching", metricsAt(90, 3), time.Now())

	if d.Action != models.ActionMaintain {
		t.Fatalf("expected MAINTAIN while disabled, got %s", d.Action)
	}
	if d.RecommendedInstances != 3 {
		t.Errorf("expected recommended instances to stay at current while disabled, got %d", d.RecommendedInstances)
	}
	if len(d.TriggeredRuleIDs) != 0 {
		t.Errorf("expected no triggered rules recorded while disabled, got %v", d.TriggeredRuleIDs)
	}
}

func TestEngine_SetDisabled_TogglesBackToNormalEvaluation(t *testing.T) {
	store := rules.NewStore([]*models.ScalingRule{cpuUpRule()})
	e := decision.NewEngine(decision.Config{
		Rules:     store,
		Evaluator: ruleeval.New(condition.New()),
		Policy:    domainpolicy.New(),
		Cooldown:  guard.NewCooldownGate(0, 0),
		Limits:    guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 100}),
		Disabled:  true,
	})

	e.SetDisabled(false)
	now := time.Now()
	// The first breach only starts the condition's duration clock.
	e.Decide("order-matching", metricsAt(90, 3), now)
	d := e.Decide("order-matching", metricsAt(90, 3), now.Add(time.Second))

	if d.Action != models.ActionUp {
		t.Fatalf("expected UP after re-enabling, got %s", d.Action)
	}
}

func TestEngine_Decide_LimitGuardClampsAboveMax(t *testing.T) {
	store := rules.NewStore([]*models.ScalingRule{cpuUpRule()})
	e := newEngine(store, guard.NewCooldownGate(0, 0), guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 4}))

	now := time.Now()
	// The first breach only starts the condition's duration clock.
	e.Decide("order-matching", metricsAt(90, 3), now)
	d := e.Decide("order-matching", metricsAt(90, 3), now.Add(time.Second))

	if d.RecommendedInstances != 4 {
		t.Errorf("expected recommended instances clamped to max 4, got %d", d.RecommendedInstances)
	}
}

func TestEngine_Decide_CooldownSuppressesRetrigger(t *testing.T) {
	store := rules.NewStore([]*models.ScalingRule{cpuUpRule()})
	cooldown := guard.NewCooldownGate(time.Minute, time.Minute)
	e := newEngine(store, cooldown, guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 100}))

	now := time.Now()
	// The first breach only starts the condition's duration clock.
	e.Decide("order-matching", metricsAt(90, 3), now.Add(-time.Second))
	first := e.Decide("order-matching", metricsAt(90, 3), now)
	e.NotifyExecuted("order-matching", first.Action, true, now)

	second := e.Decide("order-matching", metricsAt(90, 5), now.Add(10*time.Second))

	if second.Action != models.ActionMaintain {
		t.Errorf("expected cooldown to suppress a second scale-up, got %s", second.Action)
	}
}

func TestEngine_History_ReturnsNewestFirst(t *testing.T) {
	store := rules.NewStore([]*models.ScalingRule{cpuUpRule()})
	e := newEngine(store, guard.NewCooldownGate(0, 0), guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 100}))

	now := time.Now()
	e.Decide("order-matching", metricsAt(90, 3), now)
	e.Decide("order-matching", metricsAt(90, 5), now.Add(time.Minute))

	history := e.History("order-matching", 10)
	if len(history) != 2 {
		t.Fatalf("expected 2 decisions in history, got %d", len(history))
	}
	if !history[0].Timestamp.After(history[1].Timestamp) {
		t.Error("expected history newest first")
	}
}

func TestEngine_ResetWorkerState_ClearsCooldownButKeepsHistory(t *testing.T) {
	store := rules.NewStore([]*models.ScalingRule{cpuUpRule()})
	cooldown := guard.NewCooldownGate(time.Minute, time.Minute)
	e := newEngine(store, cooldown, guard.NewLimitGuard(models.GlobalLimits{MinInstances: 1, MaxInstances: 100}))

	now := time.Now()
	// The first breach only starts the condition's duration clock, so the
	// decision that gets stamped into cooldown is the second one.
	e.Decide("order-matching", metricsAt(90, 3), now.Add(-time.Second))
	first := e.Decide("order-matching", metricsAt(90, 3), now)
	e.NotifyExecuted("order-matching", first.Action, true, now)

	e.ResetWorkerState("order-matching")

	second := e.Decide("order-matching", metricsAt(90, 5), now.Add(10*time.Second))
	if second.Action != models.ActionUp {
		t.Errorf("expected cooldown cleared after reset, got %s", second.Action)
	}
	if len(e.History("order-matching", 10)) != 3 {
		t.Error("expected history to survive a worker state reset")
	}
}
