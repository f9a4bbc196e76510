// Package ruleeval evaluates a ScalingRule's conditions against current
// metrics, combining per-condition confidence into a rule-level verdict.
package ruleeval

import (
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/condition"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// ConditionResult captures one condition's evaluation within a rule.
type ConditionResult struct {
	Condition  models.ScalingCondition
	Observed   float64
	Satisfied  bool
	Confidence float64
}

// Verdict is the outcome of evaluating one rule.
type Verdict struct {
	Triggered        bool
	Confidence       float64
	PerConditionResults []ConditionResult
}

// Evaluator evaluates rules using a shared condition.Tracker for duration
// gating.
type Evaluator struct {
	tracker *condition.Tracker
}

// New builds an Evaluator over the given tracker.
func New(tracker *condition.Tracker) *Evaluator {
	return &Evaluator{tracker: tracker}
}

// Evaluate implements the C4 contract from spec.md §4.4. All conditions
// must hold (AND semantics — see DESIGN.md Open Question 3) for the rule to
// trigger. Confidence is the arithmetic mean of per-condition magnitudes,
// with unsatisfied conditions contributing zero.
func (e *Evaluator) Evaluate(rule *models.ScalingRule, metrics *models.ServiceMetrics, now time.Time) Verdict {
	results := make([]ConditionResult, 0, len(rule.Conditions))
	allSatisfied := len(rule.Conditions) > 0
	var confidenceSum float64

	for _, cond := range rule.Conditions {
		observed := metrics.Value(cond.MetricPath)
		durationResult := e.tracker.Evaluate(metrics.ServiceID, cond, observed, now)

		magnitude := confidenceMagnitude(observed, cond.Threshold)
		confidence := 0.0
		if durationResult.Satisfied {
			confidence = magnitude
		} else {
			allSatisfied = false
		}

		confidenceSum += confidence
		results = append(results, ConditionResult{
			Condition:  cond,
			Observed:   observed,
			Satisfied:  durationResult.Satisfied,
			Confidence: confidence,
		})
	}

	var meanConfidence float64
	if len(results) > 0 {
		meanConfidence = confidenceSum / float64(len(results))
	}
	if meanConfidence > 1 {
		meanConfidence = 1
	}
	if meanConfidence < 0 {
		meanConfidence = 0
	}

	return Verdict{
		Triggered:           allSatisfied,
		Confidence:          meanConfidence,
		PerConditionResults: results,
	}
}

// confidenceMagnitude implements spec.md §4.4's per-condition confidence:
// min(|observed - threshold| / max(threshold, 1), 1).
func confidenceMagnitude(observed, threshold float64) float64 {
	denom := threshold
	if denom < 1 {
		denom = 1
	}
	diff := observed - threshold
	if diff < 0 {
		diff = -diff
	}
	m := diff / denom
	if m > 1 {
		return 1
	}
	return m
}
