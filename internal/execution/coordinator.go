// Package execution implements the C9 execution coordinator: it
// serializes per-service scalings against a backend driver, runs pre/post
// hooks, and emits lifecycle events.
package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/backend"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/domainpolicy"
	"github.com/OldStager01/cloud-autoscaler/internal/events"
	"github.com/OldStager01/cloud-autoscaler/internal/guard"
	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/internal/obsmetrics"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// ErrScalingInProgress is returned when Execute is called for a service
// that already has an in-flight execution.
var ErrScalingInProgress = errors.New("scaling already in progress for service")

const eventRingCapacity = 50

// Coordinator is the C9 orchestrator.
type Coordinator struct {
	driver    backend.Driver
	engine    *decision.Engine
	policy    *domainpolicy.TradingPolicy
	limits    *guard.LimitGuard
	profile   *models.TradingProfile
	publisher *events.Publisher
	metrics   *obsmetrics.Registry

	preHooks  []HookSink
	postHooks []HookSink

	activeMu sync.Mutex
	active   map[string]struct{}

	ringsMu sync.Mutex
	rings   map[string]*models.Ring[*models.ScalingEvent]
}

// Config bundles a Coordinator's collaborators.
type Config struct {
	Driver    backend.Driver
	Engine    *decision.Engine
	Policy    *domainpolicy.TradingPolicy
	Limits    *guard.LimitGuard
	Profile   *models.TradingProfile
	Publisher *events.Publisher
	Metrics   *obsmetrics.Registry
	PreHooks  []HookSink
	PostHooks []HookSink
}

// NewCoordinator builds a Coordinator.
func NewCoordinator(cfg Config) *Coordinator {
	return &Coordinator{
		driver:    cfg.Driver,
		engine:    cfg.Engine,
		policy:    cfg.Policy,
		limits:    cfg.Limits,
		profile:   cfg.Profile,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		preHooks:  cfg.PreHooks,
		postHooks: cfg.PostHooks,
		active:    make(map[string]struct{}),
		rings:     make(map[string]*models.Ring[*models.ScalingEvent]),
	}
}

func (c *Coordinator) ringFor(serviceID string) *models.Ring[*models.ScalingEvent] {
	c.ringsMu.Lock()
	defer c.ringsMu.Unlock()
	r, ok := c.rings[serviceID]
	if !ok {
		r = models.NewRing[*models.ScalingEvent](eventRingCapacity)
		c.rings[serviceID] = r
	}
	return r
}

// tryAcquire implements the insert-if-absent active-scalings set.
func (c *Coordinator) tryAcquire(serviceID string) bool {
	c.activeMu.Lock()
	defer c.activeMu.Unlock()
	if _, inProgress := c.active[serviceID]; inProgress {
		return false
	}
	c.active[serviceID] = struct{}{}
	return true
}

func (c *Coordinator) release(serviceID string) {
	c.activeMu.Lock()
	defer c.activeMu.Unlock()
	delete(c.active, serviceID)
}

// Execute implements spec.md §4.9. It refuses re-entry for a service
// already executing, runs pre/post hooks around the backend call, and
// always returns a ScalingEvent reflecting the outcome (error is reserved
// for the refusal case).
func (c *Coordinator) Execute(ctx context.Context, d *models.ScalingDecision, metricsSnapshot *models.ServiceMetrics) (*models.ScalingEvent, error) {
	if !c.tryAcquire(d.ServiceID) {
		return nil, ErrScalingInProgress
	}
	defer c.release(d.ServiceID)

	start := time.Now()
	c.publisher.ScalingStarted(d.ServiceID, d)
	c.runHooks(ctx, c.preHooks, HookPhasePre, d.ServiceID)

	result, err := c.driver.Scale(ctx, d.ServiceID, d.RecommendedInstances)

	c.runHooks(ctx, c.postHooks, HookPhasePost, d.ServiceID)

	durationMs := time.Since(start).Milliseconds()
	success := err == nil

	previous := d.CurrentInstances
	newCount := d.RecommendedInstances
	if result != nil {
		previous = result.Previous
		newCount = result.New
		durationMs = result.DurationMs
	}

	event := models.NewScalingEvent(d, previous, newCount, success, durationMs, err, metricsSnapshot)
	c.ringFor(d.ServiceID).Push(event)

	if c.metrics != nil {
		outcome := "success"
		if !success {
			outcome = "failure"
		}
		c.metrics.ScalingEventsTotal.WithLabelValues(d.ServiceID, string(d.Action), outcome).Inc()
		c.metrics.ScalingDurationMs.WithLabelValues(d.ServiceID, string(d.Action)).Observe(float64(durationMs))
	}

	c.engine.NotifyExecuted(d.ServiceID, d.Action, success, time.Now())

	if success {
		c.publisher.ScalingCompleted(d.ServiceID, event)
	} else {
		c.publisher.ScalingFailed(d.ServiceID, event, err)
	}

	return event, nil
}

func (c *Coordinator) runHooks(ctx context.Context, hooks []HookSink, phase HookPhase, serviceID string) {
	for _, h := range hooks {
		if err := h.Call(ctx, phase, serviceID, time.Now()); err != nil {
			logger.Warnf("execution: %s hook failed for %s: %v", phase, serviceID, err)
			c.publisher.HookFailed(serviceID, string(phase), err)
		}
	}
}

// History returns up to limit of the most recent scaling events for a
// service, newest first.
func (c *Coordinator) History(serviceID string, limit int) []*models.ScalingEvent {
	return c.ringFor(serviceID).Recent(limit)
}

// EmergencyScaleDown implements spec.md §4.9: synthesizes a CRITICAL,
// fully-confident decision and executes it, bypassing cooldown but still
// honoring global limits and the redundancy floor.
func (c *Coordinator) EmergencyScaleDown(ctx context.Context, serviceID string, target int, current *models.ServiceMetrics) (*models.ScalingEvent, error) {
	draft := &models.ScalingDecision{
		Timestamp:            time.Now(),
		ServiceID:            serviceID,
		CurrentInstances:     current.Instances.Current,
		RecommendedInstances: target,
		Urgency:              models.UrgencyCritical,
		Confidence:           1.0,
		TriggeredRuleIDs:     []string{"emergency"},
	}
	draft.RecomputeAction()
	draft.AddReason("emergency scale-down requested")

	c.policy.ApplyRedundancyFloorOnly(draft, c.profile)
	c.limits.Clamp(draft)

	return c.Execute(ctx, draft, current)
}

// ManualScale synthesizes an operator-requested decision targeting the
// given instance count and executes it, honoring global limits and the
// redundancy floor but bypassing cooldown and rule evaluation.
func (c *Coordinator) ManualScale(ctx context.Context, serviceID string, target int, current *models.ServiceMetrics) (*models.ScalingEvent, error) {
	draft := &models.ScalingDecision{
		Timestamp:            time.Now(),
		ServiceID:            serviceID,
		CurrentInstances:     current.Instances.Current,
		RecommendedInstances: target,
		Urgency:              models.UrgencyMedium,
		Confidence:           1.0,
		TriggeredRuleIDs:     []string{"manual"},
	}
	draft.RecomputeAction()
	draft.AddReason("operator-requested manual scale")

	c.policy.ApplyRedundancyFloorOnly(draft, c.profile)
	c.limits.Clamp(draft)

	return c.Execute(ctx, draft, current)
}

// RollbackLast implements spec.md §4.9: locates the most recent
// successful event and synthesizes a decision restoring its
// previous_instances. Returns (nil, nil) if no successful prior event
// exists.
func (c *Coordinator) RollbackLast(ctx context.Context, serviceID string, current *models.ServiceMetrics) (*models.ScalingEvent, error) {
	for _, evt := range c.ringFor(serviceID).Recent(0) {
		if !evt.Success {
			continue
		}

		draft := &models.ScalingDecision{
			Timestamp:            time.Now(),
			ServiceID:            serviceID,
			CurrentInstances:     evt.NewInstances,
			RecommendedInstances: evt.PreviousInstances,
			Urgency:              models.UrgencyHigh,
			Confidence:           1.0,
			TriggeredRuleIDs:     []string{"rollback"},
		}
		draft.RecomputeAction()
		draft.AddReason("rollback to pre-scale instance count")

		c.limits.Clamp(draft)
		return c.Execute(ctx, draft, current)
	}
	return nil, nil
}
