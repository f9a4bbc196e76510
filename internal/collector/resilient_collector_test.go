package collector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/collector"
	"github.com/OldStager01/cloud-autoscaler/internal/resilience"
)

func TestResilientCollector_Collect_RetriesThenSucceeds(t *testing.T) {
	inner := collector.NewMockCollector(collector.MockCollectorConfig{})
	inner.SetInstances("svc-1", 3)
	inner.SetShouldFail(true, errors.New("transient"))

	c := collector.NewResilientCollector(collector.ResilientCollectorConfig{
		Collector:     inner,
		MaxFailures:   10,
		Timeout:       time.Minute,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})

	go func() {
		time.Sleep(2 * time.Millisecond)
		inner.SetShouldFail(false, nil)
	}()

	metrics, err := c.Collect(context.Background(), "svc-1")
	if err != nil {
		t.Fatalf("expected retry to eventually succeed, got %v", err)
	}
	if metrics.Instances.Current != 3 {
		t.Errorf("expected 3 instances, got %d", metrics.Instances.Current)
	}
}

func TestResilientCollector_Collect_ExhaustsRetriesAndOpensCircuit(t *testing.T) {
	inner := collector.NewMockCollector(collector.MockCollectorConfig{})
	inner.SetShouldFail(true, errors.New("down"))

	c := collector.NewResilientCollector(collector.ResilientCollectorConfig{
		Collector:     inner,
		MaxFailures:   1,
		Timeout:       time.Minute,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})

	_, err := c.Collect(context.Background(), "svc-1")
	if err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if c.CircuitState() != resilience.StateOpen {
		t.Errorf("expected circuit to open after exceeding max failures, got %s", c.CircuitState())
	}
}

func TestResilientCollector_ResetCircuit_ClosesTheBreaker(t *testing.T) {
	inner := collector.NewMockCollector(collector.MockCollectorConfig{})
	inner.SetShouldFail(true, errors.New("down"))

	c := collector.NewResilientCollector(collector.ResilientCollectorConfig{
		Collector:     inner,
		MaxFailures:   1,
		Timeout:       time.Minute,
		RetryAttempts: 1,
	})

	c.Collect(context.Background(), "svc-1")
	c.ResetCircuit()

	if c.CircuitState() != resilience.StateClosed {
		t.Errorf("expected circuit closed after reset, got %s", c.CircuitState())
	}
}

func TestResilientCollector_HealthCheck_DelegatesToInnerCollector(t *testing.T) {
	inner := collector.NewMockCollector(collector.MockCollectorConfig{})
	c := collector.NewResilientCollector(collector.ResilientCollectorConfig{Collector: inner, RetryAttempts: 1})

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	inner.SetShouldFail(true, nil)
	if err := c.HealthCheck(context.Background()); err == nil {
		t.Error("expected health check to reflect the inner collector's failure flag")
	}
}
