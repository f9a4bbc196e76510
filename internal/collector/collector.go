// Package collector implements the C1 metric source adapter: a pull
// operation returning one ServiceMetrics snapshot per call, with no
// internal retry — retry policy belongs to the control loop.
package collector

import (
	"context"
	"errors"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

var (
	ErrSourceUnreachable = errors.New("metric source unreachable")
	ErrSourceTimeout     = errors.New("metric source timeout")
	ErrSourceMalformed   = errors.New("metric source returned malformed data")
)

// Collector pulls one ServiceMetrics snapshot for a service.
type Collector interface {
	// Collect fetches the latest snapshot for a service.
	Collect(ctx context.Context, serviceID string) (*models.ServiceMetrics, error)

	// HealthCheck verifies the collector can reach its data source.
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the collector.
	Close() error
}
