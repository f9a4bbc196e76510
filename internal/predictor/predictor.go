// Package predictor combines a service's recent decision history with a
// weekly seasonal curve into a forward-looking instance-count forecast.
package predictor

import (
	"math"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

const forecastPoints = 10

// Trend classifies the direction of recent recommendations.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

// Config tunes the base-load and units-per-instance constants the source
// hard-codes, per DESIGN.md Open Question 4.
type Config struct {
	BaseLoad         float64
	UnitsPerInstance float64
}

func defaultedConfig(cfg Config) Config {
	if cfg.BaseLoad == 0 {
		cfg.BaseLoad = 100
	}
	if cfg.UnitsPerInstance == 0 {
		cfg.UnitsPerInstance = 25
	}
	return cfg
}

// Predictor reads decision history from a *decision.Engine and produces a
// Prediction for one service.
type Predictor struct {
	engine *decision.Engine
	config Config
}

// New builds a Predictor over the given decision history source.
func New(engine *decision.Engine, cfg Config) *Predictor {
	return &Predictor{engine: engine, config: defaultedConfig(cfg)}
}

// Predict implements the C10 algorithm from spec.md §4.10: trend from the
// last 10 decisions' older/newer half-split averages, a seasonal
// multiplier from time-of-day/weekday, and 10 equally spaced forecast
// points over the horizon.
func (p *Predictor) Predict(serviceID string, horizonMinutes int, now time.Time) *models.Prediction {
	history := p.engine.History(serviceID, 10)
	trend, rate, confidence := trendFromHistory(history)
	seasonal := seasonalMultiplier(now)

	stepMinutes := float64(horizonMinutes) / forecastPoints
	points := make([]models.PredictionPoint, 0, forecastPoints)

	for i := 0; i < forecastPoints; i++ {
		ts := now.Add(time.Duration(float64(i)*stepMinutes) * time.Minute)
		predictedLoad := p.config.BaseLoad * seasonal * (1 + rate*float64(i)/10)
		recommended := int(math.Ceil(predictedLoad / p.config.UnitsPerInstance))
		if recommended < 1 {
			recommended = 1
		}

		pointConfidence := 1 - 0.05*float64(i)
		if pointConfidence < 0.5 {
			pointConfidence = 0.5
		}

		points = append(points, models.PredictionPoint{
			Timestamp:            ts,
			PredictedLoad:        predictedLoad,
			RecommendedInstances: recommended,
			Confidence:           pointConfidence,
		})
	}

	return &models.Prediction{
		ServiceID:       serviceID,
		GeneratedAt:     now,
		HorizonMinutes:  horizonMinutes,
		Trend:           string(trend),
		TrendConfidence: confidence,
		Points:          points,
	}
}

// trendFromHistory implements spec.md §4.10 step 1: split the last up-to-10
// decisions into older/newer halves and compare their recommended-instance
// averages.
func trendFromHistory(history []*models.ScalingDecision) (Trend, float64, float64) {
	if len(history) < 2 {
		return TrendStable, 0, 0.4
	}

	confidence := 0.4
	if len(history) >= 5 {
		confidence = 0.8
	}

	// history is newest-first (models.Ring.Recent); reverse to oldest-first
	// before splitting so "older"/"newer" match spec.md's chronological
	// framing.
	ordered := make([]*models.ScalingDecision, len(history))
	for i, d := range history {
		ordered[len(history)-1-i] = d
	}

	mid := len(ordered) / 2
	olderAvg := averageRecommended(ordered[:mid])
	newerAvg := averageRecommended(ordered[mid:])

	switch {
	case olderAvg > 0 && newerAvg > 1.1*olderAvg:
		return TrendIncreasing, (newerAvg - olderAvg) / olderAvg, confidence
	case olderAvg > 0 && newerAvg < 0.9*olderAvg:
		return TrendDecreasing, (olderAvg - newerAvg) / olderAvg, confidence
	default:
		return TrendStable, 0, confidence
	}
}

func averageRecommended(decisions []*models.ScalingDecision) float64 {
	if len(decisions) == 0 {
		return 0
	}
	var sum float64
	for _, d := range decisions {
		sum += float64(d.RecommendedInstances)
	}
	return sum / float64(len(decisions))
}

// seasonalMultiplier implements spec.md §4.10 step 2.
func seasonalMultiplier(t time.Time) float64 {
	weekday := t.Weekday()
	hour := t.Hour()

	isWeekend := weekday == time.Saturday || weekday == time.Sunday
	isBusinessHours := hour >= 9 && hour < 17

	switch {
	case !isWeekend && isBusinessHours:
		return 1.5
	case isWeekend:
		return 0.6
	default:
		return 0.8
	}
}
