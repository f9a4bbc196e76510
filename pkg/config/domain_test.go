package config_test

import (
	"testing"

	"github.com/OldStager01/cloud-autoscaler/pkg/config"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

func TestScalingConfig_ToRules_ConvertsValidRule(t *testing.T) {
	cfg := config.ScalingConfig{
		Rules: []config.ScalingRuleConfig{
			{
				ID:             "rule-cpu-up",
				Name:           "scale up on cpu",
				Enabled:        true,
				Priority:       10,
				TargetServices: []string{"order-matching"},
				Conditions: []config.ScalingConditionConfig{
					{MetricPath: "cpu.usage", Comparison: "gt", Threshold: 75},
				},
				Action: config.ScalingActionConfig{Kind: "delta", Delta: 2},
			},
		},
	}

	rules, err := cfg.ToRules()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].ID != "rule-cpu-up" || !rules[0].Enabled {
		t.Errorf("expected converted rule to preserve id/enabled, got %+v", rules[0])
	}
}

func TestScalingConfig_ToRules_RejectsInvalidComparison(t *testing.T) {
	cfg := config.ScalingConfig{
		Rules: []config.ScalingRuleConfig{
			{
				ID:         "bad-rule",
				Conditions: []config.ScalingConditionConfig{{MetricPath: "cpu.usage", Comparison: "between"}},
				Action:     config.ScalingActionConfig{Kind: "delta"},
			},
		},
	}

	if _, err := cfg.ToRules(); err == nil {
		t.Error("expected an error for an unrecognized comparison operator")
	}
}

func TestScalingConfig_ToRules_RejectsInvalidActionKind(t *testing.T) {
	cfg := config.ScalingConfig{
		Rules: []config.ScalingRuleConfig{
			{ID: "bad-rule", Action: config.ScalingActionConfig{Kind: "teleport"}},
		},
	}

	if _, err := cfg.ToRules(); err == nil {
		t.Error("expected an error for an unrecognized action kind")
	}
}

func TestGlobalLimitsConfig_ToGlobalLimits(t *testing.T) {
	gl := config.GlobalLimitsConfig{MinInstances: 2, MaxInstances: 20}.ToGlobalLimits()

	if gl.MinInstances != 2 || gl.MaxInstances != 20 {
		t.Errorf("expected converted limits preserved, got %+v", gl)
	}
}

func TestDomainConfig_ToTradingProfile_ParsesMarketHoursAndMultipliers(t *testing.T) {
	dc := config.DomainConfig{
		MarketHoursStart: "09:30",
		MarketHoursEnd:   "16:00",
		Patterns:         config.TradingPatternsConfig{OpeningBellMultiplier: 2.0},
		Compliance:       config.ComplianceConfigValues{MinInstancesForRedundancy: 3},
	}

	profile := dc.ToTradingProfile()

	if profile.MarketHours.Start != (models.ClockTime{Hour: 9, Minute: 30}) {
		t.Errorf("expected parsed market open 09:30, got %+v", profile.MarketHours.Start)
	}
	if profile.Patterns.OpeningBellMultiplier != 2.0 {
		t.Errorf("expected opening bell multiplier 2.0, got %f", profile.Patterns.OpeningBellMultiplier)
	}
	if profile.Compliance.MinInstancesForRedundancy != 3 {
		t.Errorf("expected redundancy floor 3, got %d", profile.Compliance.MinInstancesForRedundancy)
	}
}

func TestPredictorConfig_ToPredictorConfig(t *testing.T) {
	pc := config.PredictorConfig{BaseLoad: 10, UnitsPerInstance: 5}.ToPredictorConfig()

	if pc.BaseLoad != 10 || pc.UnitsPerInstance != 5 {
		t.Errorf("expected converted predictor config preserved, got %+v", pc)
	}
}
