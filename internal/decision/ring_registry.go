package decision

import (
	"sync"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// ringRegistry lazily creates one bounded decision ring per service.
type ringRegistry struct {
	mu    sync.Mutex
	rings map[string]*models.Ring[*models.ScalingDecision]
}

func newRingRegistry() *ringRegistry {
	return &ringRegistry{rings: make(map[string]*models.Ring[*models.ScalingDecision])}
}

func (r *ringRegistry) For(serviceID string) *models.Ring[*models.ScalingDecision] {
	r.mu.Lock()
	defer r.mu.Unlock()

	ring, ok := r.rings[serviceID]
	if !ok {
		ring = models.NewRing[*models.ScalingDecision](decisionRingCapacity)
		r.rings[serviceID] = ring
	}
	return ring
}
