// Package condition tracks, per (service, metric) pair, whether a
// threshold has been continuously satisfied and for how long.
package condition

import (
	"sync"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// Result is the outcome of one Evaluate call.
type Result struct {
	Satisfied bool
	ElapsedS  float64
}

// key identifies one tracked (service, metric path) pair.
type key struct {
	serviceID  string
	metricPath string
}

// Tracker holds one models.ConditionState per (service, metric) pair,
// grounded on the source's start-time map with reset-on-violation
// semantics, generalized from a fixed CPU high/low pair to arbitrary
// dotted metric paths.
type Tracker struct {
	mu     sync.Mutex
	states map[key]models.ConditionState
}

// New builds an empty Tracker.
func New() *Tracker {
	return &Tracker{states: make(map[key]models.ConditionState)}
}

// Evaluate implements the C3 contract from spec.md §4.3: a single blip
// below threshold resets the "since" marker, so duration is only earned by
// a continuously-satisfied run.
func (t *Tracker) Evaluate(serviceID string, cond models.ScalingCondition, observed float64, now time.Time) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key{serviceID: serviceID, metricPath: cond.MetricPath}
	thresholdMet := cond.Comparison.Compare(observed, cond.Threshold)

	prior, exists := t.states[k]

	if !thresholdMet {
		t.states[k] = models.ConditionState{Satisfied: false, Since: now}
		return Result{Satisfied: false, ElapsedS: 0}
	}

	if !exists || !prior.Satisfied {
		t.states[k] = models.ConditionState{Satisfied: true, Since: now}
		return Result{Satisfied: false, ElapsedS: 0}
	}

	elapsed := now.Sub(prior.Since).Seconds()
	return Result{Satisfied: elapsed >= cond.DurationSeconds, ElapsedS: elapsed}
}

// Reset clears every tracked condition for a service.
func (t *Tracker) Reset(serviceID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.states {
		if k.serviceID == serviceID {
			delete(t.states, k)
		}
	}
}
