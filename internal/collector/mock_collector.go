package collector

import (
	"context"
	"math/rand"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// MockCollector is a test double with configurable failure injection,
// grounded on the teacher's simulator-backed mock. Instance counts are
// fixed per service; resource values are drawn at random around a base.
type MockCollector struct {
	instances    map[string]int
	baseCPU      float64
	variance     float64
	shouldFail   bool
	failureError error
}

type MockCollectorConfig struct {
	BaseCPU  float64
	Variance float64
}

func NewMockCollector(cfg MockCollectorConfig) *MockCollector {
	baseCPU := cfg.BaseCPU
	if baseCPU == 0 {
		baseCPU = 50.0
	}
	variance := cfg.Variance
	if variance == 0 {
		variance = 10.0
	}
	return &MockCollector{
		instances: make(map[string]int),
		baseCPU:   baseCPU,
		variance:  variance,
	}
}

func (c *MockCollector) SetInstances(serviceID string, count int) {
	c.instances[serviceID] = count
}

func (c *MockCollector) SetBaseCPU(cpu float64) {
	c.baseCPU = cpu
}

func (c *MockCollector) SetShouldFail(shouldFail bool, err error) {
	c.shouldFail = shouldFail
	c.failureError = err
}

func (c *MockCollector) Collect(ctx context.Context, serviceID string) (*models.ServiceMetrics, error) {
	if c.shouldFail {
		if c.failureError != nil {
			return nil, c.failureError
		}
		return nil, ErrSourceUnreachable
	}

	count, exists := c.instances[serviceID]
	if !exists {
		count = 1
	}

	return &models.ServiceMetrics{
		ServiceID:  serviceID,
		CapturedAt: time.Now(),
		Resources: models.ResourceMetrics{
			CPUUsage:    c.randomValue(c.baseCPU, c.variance),
			MemoryUsage: c.randomValue(c.baseCPU, c.variance),
			NetworkIn:   c.randomValue(100, 50),
			NetworkOut:  c.randomValue(100, 50),
		},
		Performance: models.PerformanceMetrics{
			ResponseTimeMs: c.randomValue(100, 30),
			ThroughputRPS:  c.randomValue(500, 100),
			ErrorRate:      0,
			QueueLength:    0,
		},
		Instances: models.InstanceMetrics{Current: count, Healthy: count, Unhealthy: 0},
	}, nil
}

func (c *MockCollector) randomValue(base, variance float64) float64 {
	value := base + (rand.Float64()*2-1)*variance
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return value
}

func (c *MockCollector) HealthCheck(ctx context.Context) error {
	if c.shouldFail {
		return ErrSourceUnreachable
	}
	return nil
}

func (c *MockCollector) Close() error {
	return nil
}
