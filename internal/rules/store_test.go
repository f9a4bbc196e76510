package rules_test

import (
	"testing"

	"github.com/OldStager01/cloud-autoscaler/internal/rules"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

func sampleRules() []*models.ScalingRule {
	action := models.ScalingAction{Kind: models.ActionUp, Sizing: models.Sizing{Kind: models.SizingDelta, Delta: 1}}
	return []*models.ScalingRule{
		models.NewScalingRule("rule-a", "rule-a", 1, nil, action, []string{"order-matching"}),
		models.NewScalingRule("rule-b", "rule-b", 1, nil, action, []string{"order-matching", "risk-engine"}),
		models.NewScalingRule("rule-c", "rule-c", 1, nil, action, []string{"risk-engine"}),
	}
}

func TestStore_RulesFor_ReturnsOnlyTargetingRules(t *testing.T) {
	s := rules.NewStore(sampleRules())

	got := s.RulesFor("order-matching")

	if len(got) != 2 {
		t.Fatalf("expected 2 rules targeting order-matching, got %d", len(got))
	}
}

func TestStore_RulesFor_UnknownServiceReturnsEmpty(t *testing.T) {
	s := rules.NewStore(sampleRules())

	got := s.RulesFor("nonexistent")

	if len(got) != 0 {
		t.Errorf("expected no rules for an untargeted service, got %d", len(got))
	}
}

func TestStore_ServiceIDs_DeduplicatesAcrossRules(t *testing.T) {
	s := rules.NewStore(sampleRules())

	ids := s.ServiceIDs()

	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct service IDs, got %d: %v", len(ids), ids)
	}
}

func TestStore_Disable_TurnsOffMatchingRule(t *testing.T) {
	rs := sampleRules()
	s := rules.NewStore(rs)

	s.Disable("rule-a", "misfiring in staging")

	for _, r := range rs {
		if r.ID == "rule-a" && r.Enabled {
			t.Error("expected rule-a to be disabled")
		}
		if r.ID != "rule-a" && !r.Enabled {
			t.Errorf("expected only rule-a to be disabled, but %s was also disabled", r.ID)
		}
	}
}

func TestStore_Disable_UnknownIDIsNoop(t *testing.T) {
	rs := sampleRules()
	s := rules.NewStore(rs)

	s.Disable("rule-does-not-exist", "no-op")

	for _, r := range rs {
		if !r.Enabled {
			t.Errorf("expected no rule to be disabled, but %s was", r.ID)
		}
	}
}
