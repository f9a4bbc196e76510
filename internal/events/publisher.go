package events

import (
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// Publisher builds typed events and sends them to a bus, optionally
// tagging every event with a trace id.
type Publisher struct {
	bus     *EventBus
	traceID string
}

// NewPublisher builds a Publisher over the given bus.
func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

// WithTraceID returns a Publisher that tags every event it sends.
func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{bus: p.bus, traceID: traceID}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

// ScalingStarted raises the started lifecycle event before a backend call.
func (p *Publisher) ScalingStarted(serviceID string, decision *models.ScalingDecision) {
	event := models.NewEvent(models.EventTypeScalingStarted, serviceID, "scaling started: "+string(decision.Action)).
		WithData(decision)
	p.publish(event)
}

// ScalingCompleted raises the completed lifecycle event after a successful
// execution.
func (p *Publisher) ScalingCompleted(serviceID string, scalingEvent *models.ScalingEvent) {
	event := models.NewEvent(models.EventTypeScalingCompleted, serviceID, "scaling completed: "+string(scalingEvent.Action)).
		WithData(scalingEvent)
	p.publish(event)
}

// ScalingFailed raises the failed lifecycle event after a failed
// execution.
func (p *Publisher) ScalingFailed(serviceID string, scalingEvent *models.ScalingEvent, err error) {
	event := models.NewEvent(models.EventTypeScalingFailed, serviceID, "scaling failed: "+err.Error()).
		WithSeverity(models.SeverityCritical).
		WithData(scalingEvent)
	p.publish(event)
}

// HookFailed raises a non-fatal notification that a pre/post hook call
// failed. Hook failures never abort a scaling.
func (p *Publisher) HookFailed(serviceID, phase string, err error) {
	event := models.NewEvent(models.EventTypeHookFailed, serviceID, "hook failed during "+phase).
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{"phase": phase, "error": err.Error()})
	p.publish(event)
}

// DecisionError raises a notification that a rule could not be evaluated
// and was disabled for the remainder of the process lifetime.
func (p *Publisher) DecisionError(serviceID, ruleID string, err error) {
	event := models.NewEvent(models.EventTypeDecisionError, serviceID, "rule "+ruleID+" disabled: "+err.Error()).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{"rule_id": ruleID, "error": err.Error()})
	p.publish(event)
}

// MetricsError raises a notification that a metric poll failed.
func (p *Publisher) MetricsError(serviceID string, err error) {
	event := models.NewEvent(models.EventTypeMetricsError, serviceID, "metrics stale: "+err.Error()).
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{"error": err.Error()})
	p.publish(event)
}

// Alert raises an operator-facing alert, used for circuit breaker state
// changes and similar cross-cutting conditions.
func (p *Publisher) Alert(serviceID string, severity models.EventSeverity, message string, data interface{}) {
	event := models.NewEvent(models.EventTypeAlert, serviceID, message).
		WithSeverity(severity).
		WithData(data)
	p.publish(event)
}
