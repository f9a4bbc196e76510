// Package metricstore holds the latest telemetry snapshot for every
// monitored service and fans out a change signal per service.
package metricstore

import (
	"sync"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

const defaultSignalBuffer = 4

// Store is a readers-writer map keyed by service id. Writes for a given
// service are serialized by a per-bucket lock; reads never block writes to
// a different service.
type Store struct {
	mu       sync.RWMutex
	buckets  map[string]*bucket
}

type bucket struct {
	mu      sync.RWMutex
	latest  *models.ServiceMetrics
	signals []chan struct{}
}

// New builds an empty Store.
func New() *Store {
	return &Store{buckets: make(map[string]*bucket)}
}

func (s *Store) bucketFor(serviceID string) *bucket {
	s.mu.RLock()
	b, ok := s.buckets[serviceID]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buckets[serviceID]; ok {
		return b
	}
	b = &bucket{}
	s.buckets[serviceID] = b
	return b
}

// Put replaces the snapshot for a service atomically and notifies every
// subscriber of that service. Metrics are overwritten, never accumulated.
func (s *Store) Put(serviceID string, metrics *models.ServiceMetrics) {
	b := s.bucketFor(serviceID)
	b.mu.Lock()
	b.latest = metrics
	signals := b.signals
	b.mu.Unlock()

	for _, ch := range signals {
		select {
		case ch <- struct{}{}:
		default:
			logger.Debugf("metricstore: change signal full for %s, dropping", serviceID)
		}
	}
}

// Get returns the current snapshot for a service, or nil if none has been
// recorded.
func (s *Store) Get(serviceID string) *models.ServiceMetrics {
	b := s.bucketFor(serviceID)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}

// Iter returns a consistent snapshot of every service's latest metrics. No
// service's entry can be torn mid-read because each bucket is copied under
// its own lock.
func (s *Store) Iter() map[string]*models.ServiceMetrics {
	s.mu.RLock()
	ids := make([]string, 0, len(s.buckets))
	buckets := make([]*bucket, 0, len(s.buckets))
	for id, b := range s.buckets {
		ids = append(ids, id)
		buckets = append(buckets, b)
	}
	s.mu.RUnlock()

	out := make(map[string]*models.ServiceMetrics, len(ids))
	for i, id := range ids {
		buckets[i].mu.RLock()
		if buckets[i].latest != nil {
			out[id] = buckets[i].latest
		}
		buckets[i].mu.RUnlock()
	}
	return out
}

// Subscribe returns a channel that receives a signal each time Put is
// called for serviceID. The channel is buffered and drops the signal on
// overflow rather than blocking the writer, matching the bus's
// never-block-the-publisher overflow policy.
func (s *Store) Subscribe(serviceID string) <-chan struct{} {
	b := s.bucketFor(serviceID)
	ch := make(chan struct{}, defaultSignalBuffer)
	b.mu.Lock()
	b.signals = append(b.signals, ch)
	b.mu.Unlock()
	return ch
}
