// Package rules holds the active rule set the C7 decision engine
// evaluates against, letting an operator disable a misbehaving rule at
// runtime without restarting the control loop.
package rules

import (
	"sync"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// Store is an in-memory decision.RuleSet loaded once at startup from
// configuration.
type Store struct {
	mu    sync.RWMutex
	rules []*models.ScalingRule
}

// NewStore builds a Store from the rules resolved by config.ScalingConfig.ToRules.
func NewStore(rules []*models.ScalingRule) *Store {
	return &Store{rules: rules}
}

// RulesFor returns every rule targeting serviceID, regardless of enabled
// state — the engine itself filters on AppliesTo, which also checks
// Enabled.
func (s *Store) RulesFor(serviceID string) []*models.ScalingRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ScalingRule, 0, len(s.rules))
	for _, r := range s.rules {
		if _, ok := r.TargetServices[serviceID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Disable turns off a rule by ID so it stops triggering without a config
// reload.
func (s *Store) Disable(ruleID string, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rules {
		if r.ID == ruleID {
			r.Enabled = false
			logger.Warnf("rules: disabled rule %s: %s", ruleID, reason)
			return
		}
	}
}

// ServiceIDs returns the de-duplicated union of every rule's target
// services, used at startup to decide which control-loop workers to start.
func (s *Store) ServiceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range s.rules {
		for id := range r.TargetServices {
			seen[id] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}
