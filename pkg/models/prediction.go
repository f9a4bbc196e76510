package models

import "time"

// PredictionPoint is one sample of a forecast curve produced by the
// predictor.
type PredictionPoint struct {
	Timestamp             time.Time `json:"timestamp"`
	PredictedLoad         float64   `json:"predicted_load"`
	RecommendedInstances  int       `json:"recommended_instances"`
	Confidence            float64   `json:"confidence"`
}

// Prediction is a full forecast for one service, generated at Timestamp and
// covering HorizonMinutes ahead in ten equally spaced points.
type Prediction struct {
	ServiceID       string            `json:"service_id"`
	GeneratedAt     time.Time         `json:"generated_at"`
	HorizonMinutes  int               `json:"horizon_minutes"`
	Trend           string            `json:"trend"`
	TrendConfidence float64           `json:"trend_confidence"`
	Points          []PredictionPoint `json:"points"`
}
