package events

import (
	"context"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/pkg/database/queries"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// EventLogger consumes an event bus subscription and both logs and
// persists lifecycle events, grounded on the teacher's own EventLogger.
type EventLogger struct {
	events     *queries.EventRepository
	eventChan  <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewEventLogger builds an EventLogger over a repository and a bus
// subscription.
func NewEventLogger(events *queries.EventRepository, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{events: events, eventChan: eventChan, ctx: ctx, cancel: cancel}
}

// Start runs the consumer loop in its own goroutine.
func (l *EventLogger) Start() {
	go l.run()
}

// Stop cancels the consumer loop.
func (l *EventLogger) Stop() {
	l.cancel()
}

func (l *EventLogger) run() {
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.process(event)
		}
	}
}

func (l *EventLogger) process(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"service_id": event.ServiceID,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	switch event.Type {
	case models.EventTypeScalingCompleted, models.EventTypeScalingFailed:
		l.persist(event)
	}
}

func (l *EventLogger) persist(event *models.Event) {
	scalingEvent, ok := event.Data.(*models.ScalingEvent)
	if !ok {
		return
	}
	if err := l.events.Insert(l.ctx, scalingEvent); err != nil {
		logger.Errorf("events: failed to persist scaling event: %v", err)
	}
}
