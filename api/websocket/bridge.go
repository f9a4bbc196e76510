package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// EventBridge forwards the control loop's lifecycle events to WebSocket clients
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewEventBridge creates a new bridge between the control loop's event bus and WebSocket
func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins listening for events and forwarding to WebSocket clients
func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

// Stop stops the event bridge
func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	wsMessage := b.convertToWSMessage(event)
	if wsMessage == nil {
		return
	}

	data, err := json.Marshal(wsMessage)
	if err != nil {
		logger.Errorf("failed to marshal websocket message: %v", err)
		return
	}

	b.hub.BroadcastToService(event.ServiceID, data)
}

// WebSocketEvent is the message format sent to WebSocket clients
type WebSocketEvent struct {
	Type      string      `json:"type"`
	ServiceID string      `json:"service_id"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func (b *EventBridge) convertToWSMessage(event *models.Event) *WebSocketEvent {
	wsType := mapEventType(event.Type)
	if wsType == "" {
		return nil
	}

	return &WebSocketEvent{
		Type:      wsType,
		ServiceID: event.ServiceID,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		Data:      event.Data,
	}
}

func mapEventType(eventType models.EventType) string {
	switch eventType {
	case models.EventTypeScalingStarted:
		return "scaling_started"
	case models.EventTypeScalingCompleted:
		return "scaling_event"
	case models.EventTypeScalingFailed:
		return "scaling_failed"
	case models.EventTypeHookFailed:
		return "hook_failed"
	case models.EventTypeDecisionError:
		return "decision_error"
	case models.EventTypeMetricsError:
		return "metrics_error"
	case models.EventTypeAlert:
		return "alert"
	default:
		return ""
	}
}
