package execution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/OldStager01/cloud-autoscaler/internal/backend"
	"github.com/OldStager01/cloud-autoscaler/internal/condition"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/domainpolicy"
	"github.com/OldStager01/cloud-autoscaler/internal/events"
	"github.com/OldStager01/cloud-autoscaler/internal/execution"
	"github.com/OldStager01/cloud-autoscaler/internal/guard"
	"github.com/OldStager01/cloud-autoscaler/internal/ruleeval"
	"github.com/OldStager01/cloud-autoscaler/internal/rules"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

type stubDriver struct {
	current   int
	scaleErr  error
	lastTarget int
}

func (d *stubDriver) CurrentInstances(ctx context.Context, serviceID string) (int, error) {
	return d.current, nil
}

func (d *stubDriver) Scale(ctx context.Context, serviceID string, target int) (*backend.ScalingResult, error) {
	d.lastTarget = target
	if d.scaleErr != nil {
		return nil, d.scaleErr
	}
	previous := d.current
	d.current = target
	return &backend.ScalingResult{Previous: previous, New: target, DurationMs: 1}, nil
}

func (d *stubDriver) Describe(ctx context.Context, serviceID string) (*backend.Capabilities, error) {
	return &backend.Capabilities{ServiceID: serviceID, SupportsScale: true, MaxInstances: 1000}, nil
}

func (d *stubDriver) Close() error { return nil }

func newCoordinator(driver backend.Driver, limits models.GlobalLimits) *execution.Coordinator {
	engine := decision.NewEngine(decision.Config{
		Rules:     rules.NewStore(nil),
		Evaluator: ruleeval.New(condition.New()),
		Policy:    domainpolicy.New(),
		Cooldown:  guard.NewCooldownGate(0, 0),
		Limits:    guard.NewLimitGuard(limits),
	})
	bus := events.NewEventBus(10)
	return execution.NewCoordinator(execution.Config{
		Driver:    driver,
		Engine:    engine,
		Policy:    domainpolicy.New(),
		Limits:    guard.NewLimitGuard(limits),
		Publisher: events.NewPublisher(bus),
	})
}

func metrics(current int) *models.ServiceMetrics {
	return &models.ServiceMetrics{ServiceID: "svc-1", Instances: models.InstanceMetrics{Current: current, Healthy: current}}
}

func TestCoordinator_Execute_SuccessRecordsEvent(t *testing.T) {
	driver := &stubDriver{current: 3}
	c := newCoordinator(driver, models.GlobalLimits{MinInstances: 1, MaxInstances: 100})

	d := &models.ScalingDecision{ServiceID: "svc-1", Action: models.ActionUp, CurrentInstances: 3, RecommendedInstances: 6}
	event, err := c.Execute(context.Background(), d, metrics(3))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !event.Success {
		t.Error("expected successful event")
	}
	if event.NewInstances != 6 {
		t.Errorf("expected new instance count 6, got %d", event.NewInstances)
	}
}

func TestCoordinator_Execute_BackendFailureRecordsFailedEvent(t *testing.T) {
	driver := &stubDriver{current: 3, scaleErr: errors.New("backend down")}
	c := newCoordinator(driver, models.GlobalLimits{MinInstances: 1, MaxInstances: 100})

	d := &models.ScalingDecision{ServiceID: "svc-1", Action: models.ActionUp, CurrentInstances: 3, RecommendedInstances: 6}
	event, err := c.Execute(context.Background(), d, metrics(3))

	if err != nil {
		t.Fatalf("unexpected coordinator error: %v", err)
	}
	if event.Success {
		t.Error("expected a failed event when the backend call errors")
	}
	if event.Error == "" {
		t.Error("expected the event to record the backend error")
	}
}

func TestCoordinator_History_ReturnsPastEvents(t *testing.T) {
	driver := &stubDriver{current: 3}
	c := newCoordinator(driver, models.GlobalLimits{MinInstances: 1, MaxInstances: 100})

	d := &models.ScalingDecision{ServiceID: "svc-1", Action: models.ActionUp, CurrentInstances: 3, RecommendedInstances: 6}
	c.Execute(context.Background(), d, metrics(3))

	history := c.History("svc-1", 10)
	if len(history) != 1 {
		t.Fatalf("expected 1 event in history, got %d", len(history))
	}
}

func TestCoordinator_EmergencyScaleDown_HonorsGlobalMinimum(t *testing.T) {
	driver := &stubDriver{current: 10}
	c := newCoordinator(driver, models.GlobalLimits{MinInstances: 1, MaxInstances: 100})

	event, err := c.EmergencyScaleDown(context.Background(), "svc-1", 0, metrics(10))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.NewInstances < 1 {
		t.Errorf("expected global min instances to apply even on emergency scale-down, got %d", event.NewInstances)
	}
}

func TestCoordinator_ManualScale_ClampsToGlobalLimits(t *testing.T) {
	driver := &stubDriver{current: 3}
	c := newCoordinator(driver, models.GlobalLimits{MinInstances: 1, MaxInstances: 5})

	event, err := c.ManualScale(context.Background(), "svc-1", 20, metrics(3))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.NewInstances != 5 {
		t.Errorf("expected manual scale clamped to max 5, got %d", event.NewInstances)
	}
}

func TestCoordinator_RollbackLast_NoHistoryIsNoop(t *testing.T) {
	driver := &stubDriver{current: 3}
	c := newCoordinator(driver, models.GlobalLimits{MinInstances: 1, MaxInstances: 100})

	event, err := c.RollbackLast(context.Background(), "svc-never-scaled", metrics(3))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Errorf("expected nil event with no prior successful scaling, got %v", event)
	}
}

func TestCoordinator_RollbackLast_RestoresPreviousInstances(t *testing.T) {
	driver := &stubDriver{current: 3}
	c := newCoordinator(driver, models.GlobalLimits{MinInstances: 1, MaxInstances: 100})

	d := &models.ScalingDecision{ServiceID: "svc-1", Action: models.ActionUp, CurrentInstances: 3, RecommendedInstances: 6}
	c.Execute(context.Background(), d, metrics(3))

	event, err := c.RollbackLast(context.Background(), "svc-1", metrics(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.NewInstances != 3 {
		t.Errorf("expected rollback to restore previous instance count 3, got %d", event.NewInstances)
	}
}
