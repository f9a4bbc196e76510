package config

import (
	"fmt"

	"github.com/OldStager01/cloud-autoscaler/internal/predictor"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// ToRules converts the config-file rule list into models.ScalingRule
// values, validating each rule's enum fields along the way.
func (c ScalingConfig) ToRules() ([]*models.ScalingRule, error) {
	rules := make([]*models.ScalingRule, 0, len(c.Rules))
	for _, rc := range c.Rules {
		conditions := make([]models.ScalingCondition, 0, len(rc.Conditions))
		for _, cc := range rc.Conditions {
			comparison := models.Comparison(cc.Comparison)
			switch comparison {
			case models.ComparisonGT, models.ComparisonLT, models.ComparisonEQ, models.ComparisonNE:
			default:
				return nil, fmt.Errorf("scaling.rules[%s]: invalid comparison %q", rc.ID, cc.Comparison)
			}
			conditions = append(conditions, models.ScalingCondition{
				MetricPath:      cc.MetricPath,
				Comparison:      comparison,
				Threshold:       cc.Threshold,
				DurationSeconds: cc.DurationSeconds,
			})
		}

		sizingKind := models.SizingKind(rc.Action.Kind)
		switch sizingKind {
		case models.SizingAbsolute, models.SizingDelta, models.SizingPercent:
		default:
			return nil, fmt.Errorf("scaling.rules[%s]: invalid action kind %q", rc.ID, rc.Action.Kind)
		}

		rule := models.NewScalingRule(rc.ID, rc.Name, rc.Priority, conditions, models.ScalingAction{
			Sizing: models.Sizing{
				Kind:           sizingKind,
				AbsoluteTarget: rc.Action.AbsoluteTarget,
				Delta:          rc.Action.Delta,
				PercentDelta:   rc.Action.PercentDelta,
			},
			GracefulShutdown: rc.Action.GracefulShutdown,
		}, rc.TargetServices)
		rule.Enabled = rc.Enabled

		rules = append(rules, rule)
	}
	return rules, nil
}

// ToGlobalLimits converts the config-file limits into models.GlobalLimits.
func (c GlobalLimitsConfig) ToGlobalLimits() models.GlobalLimits {
	return models.GlobalLimits{
		MinInstances:       c.MinInstances,
		MaxInstances:       c.MaxInstances,
		ScaleUpCooldownS:   c.ScaleUpCooldown,
		ScaleDownCooldownS: c.ScaleDownCooldown,
	}
}

// ToTradingProfile converts the config-file domain section into a
// models.TradingProfile.
func (c DomainConfig) ToTradingProfile() *models.TradingProfile {
	return &models.TradingProfile{
		MarketHours: models.MarketHoursWindow{
			Start: models.ParseClockTime(c.MarketHoursStart),
			End:   models.ParseClockTime(c.MarketHoursEnd),
		},
		Patterns: models.TradingPatterns{
			OpeningBellMultiplier: c.Patterns.OpeningBellMultiplier,
			ClosingBellMultiplier: c.Patterns.ClosingBellMultiplier,
			LunchMultiplier:       c.Patterns.LunchMultiplier,
			MonthEndMultiplier:    c.Patterns.MonthEndMultiplier,
			QuarterEndMultiplier:  c.Patterns.QuarterEndMultiplier,
		},
		Compliance: models.ComplianceConfig{
			MinInstancesForRedundancy:  c.Compliance.MinInstancesForRedundancy,
			MaxScaleDownRatePct:        c.Compliance.MaxScaleDownRatePct,
			LargeScaleApprovalThreshold: c.Compliance.LargeScaleApprovalThreshold,
		},
	}
}

// ToPredictorConfig converts the config-file predictor section into a
// predictor.Config.
func (c PredictorConfig) ToPredictorConfig() predictor.Config {
	return predictor.Config{
		BaseLoad:         c.BaseLoad,
		UnitsPerInstance: c.UnitsPerInstance,
	}
}
