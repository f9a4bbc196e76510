package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

type MessageType string

const (
	MessageTypeMetrics      MessageType = "metrics"
	MessageTypeDecision     MessageType = "decision"
	MessageTypeScalingEvent MessageType = "scaling_event"
	MessageTypeAlert        MessageType = "alert"
)

type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	ServiceID string      `json:"service_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewMessage(msgType MessageType, serviceID string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		ServiceID: serviceID,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

type MetricsData struct {
	CPUUsage         float64 `json:"cpu_usage"`
	MemoryUsage      float64 `json:"memory_usage"`
	CurrentInstances int     `json:"current_instances"`
}

type DecisionData struct {
	Action               string  `json:"action"`
	CurrentInstances     int     `json:"current_instances"`
	RecommendedInstances int     `json:"recommended_instances"`
	Urgency              string  `json:"urgency"`
	Confidence           float64 `json:"confidence"`
}

type ScalingEventData struct {
	Action            string `json:"action"`
	PreviousInstances int    `json:"previous_instances"`
	NewInstances      int    `json:"new_instances"`
	Success           bool   `json:"success"`
}

type AlertData struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func BroadcastMetrics(hub *Hub, metrics *models.ServiceMetrics) {
	data := MetricsData{
		CPUUsage:         metrics.Resources.CPUUsage,
		MemoryUsage:      metrics.Resources.MemoryUsage,
		CurrentInstances: metrics.Instances.Current,
	}
	msg := NewMessage(MessageTypeMetrics, metrics.ServiceID, data)
	hub.BroadcastToService(metrics.ServiceID, msg.JSON())
}

func BroadcastDecision(hub *Hub, decision *models.ScalingDecision) {
	data := DecisionData{
		Action:               string(decision.Action),
		CurrentInstances:     decision.CurrentInstances,
		RecommendedInstances: decision.RecommendedInstances,
		Urgency:              string(decision.Urgency),
		Confidence:           decision.Confidence,
	}
	msg := NewMessage(MessageTypeDecision, decision.ServiceID, data)
	hub.BroadcastToService(decision.ServiceID, msg.JSON())
}

func BroadcastScalingEvent(hub *Hub, event *models.ScalingEvent) {
	data := ScalingEventData{
		Action:            string(event.Action),
		PreviousInstances: event.PreviousInstances,
		NewInstances:      event.NewInstances,
		Success:           event.Success,
	}
	msg := NewMessage(MessageTypeScalingEvent, event.ServiceID, data)
	hub.BroadcastToService(event.ServiceID, msg.JSON())
}

func BroadcastAlert(hub *Hub, serviceID, severity, message string) {
	data := AlertData{
		Severity: severity,
		Message:  message,
	}
	msg := NewMessage(MessageTypeAlert, serviceID, data)
	hub.BroadcastToService(serviceID, msg.JSON())
}
