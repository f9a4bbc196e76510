// Package events fans out decision/execution lifecycle notifications to
// in-process subscribers (alerting, the admin API's WebSocket feed,
// cooldown/persistence consumers).
package events

import (
	"sync"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// EventBus is a typed, per-event-class pub/sub bus. Subscriber channels are
// buffered and drop their oldest buffered event on overflow rather than
// block the publisher
// — except never-drop subscribers registered via SubscribeNeverDrop, used
// for the cooldown-stamping consumer per spec.md §9 Design Notes.
type EventBus struct {
	subscribers  map[models.EventType][]chan *models.Event
	criticalSubs map[models.EventType][]chan *models.Event
	allChans     []chan *models.Event
	mu           sync.RWMutex
	bufferSize   int
	closed       bool
}

// NewEventBus builds a bus with the given per-subscriber buffer size.
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &EventBus{
		subscribers:  make(map[models.EventType][]chan *models.Event),
		criticalSubs: make(map[models.EventType][]chan *models.Event),
		allChans:     make([]chan *models.Event, 0),
		bufferSize:   bufferSize,
	}
}

// Subscribe returns a drop-on-overflow channel for one event type.
func (b *EventBus) Subscribe(eventType models.EventType) <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeNeverDrop returns a channel the bus always delivers to,
// blocking the publish goroutine until the subscriber has room rather than
// dropping. Reserved
// for subscribers whose state must never miss an event, such as the
// cooldown stamper.
func (b *EventBus) SubscribeNeverDrop(eventType models.EventType) <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	b.criticalSubs[eventType] = append(b.criticalSubs[eventType], ch)
	return ch
}

// SubscribeAll returns a channel that receives every event type.
func (b *EventBus) SubscribeAll() <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	for _, eventType := range allEventTypes() {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}
	b.allChans = append(b.allChans, ch)
	return ch
}

// Publish fans an event out to every matching subscriber.
func (b *EventBus) Publish(event *models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			// Full: discard the oldest buffered event to make room.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
				logger.Warnf("events: channel full, dropping event: %s", event.Type)
			}
		}
	}

	for _, ch := range b.criticalSubs[event.Type] {
		ch <- event
	}
}

// Close shuts down the bus, closing every subscriber channel.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	closedChans := make(map[chan *models.Event]bool)
	for _, ch := range b.allChans {
		close(ch)
		closedChans[ch] = true
	}
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			if !closedChans[ch] {
				close(ch)
				closedChans[ch] = true
			}
		}
	}
	for _, subs := range b.criticalSubs {
		for _, ch := range subs {
			if !closedChans[ch] {
				close(ch)
				closedChans[ch] = true
			}
		}
	}

	b.subscribers = make(map[models.EventType][]chan *models.Event)
	b.criticalSubs = make(map[models.EventType][]chan *models.Event)
	b.allChans = nil
}

func allEventTypes() []models.EventType {
	return []models.EventType{
		models.EventTypeScalingStarted,
		models.EventTypeScalingCompleted,
		models.EventTypeScalingFailed,
		models.EventTypeHookFailed,
		models.EventTypeDecisionError,
		models.EventTypeMetricsError,
		models.EventTypeAlert,
	}
}
