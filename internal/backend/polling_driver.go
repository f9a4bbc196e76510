package backend

import (
	"context"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/internal/obsmetrics"
	"golang.org/x/time/rate"
)

// pollingDriver implements Driver by issuing an Endpoint call and polling
// ReadCount until the backend reports the target count, or the hard
// timeout elapses. Backend calls are paced by a token-bucket limiter so a
// noisy cluster of services cannot overrun a slow backend — the teacher's
// own rate limiter lives on the admin HTTP surface only; this generalizes
// the same idea to backend-bound traffic.
type pollingDriver struct {
	endpoint     Endpoint
	limiter      *rate.Limiter
	pollInterval time.Duration
	timeout      time.Duration
	kind         string
	metrics      *obsmetrics.Registry
}

func newPollingDriver(endpoint Endpoint, pollInterval, timeout time.Duration, callsPerSecond float64, kind string) *pollingDriver {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = defaultScaleTimeout
	}
	if callsPerSecond <= 0 {
		callsPerSecond = 5
	}
	return &pollingDriver{
		endpoint:     endpoint,
		limiter:      rate.NewLimiter(rate.Limit(callsPerSecond), 1),
		pollInterval: pollInterval,
		timeout:      timeout,
		kind:         kind,
	}
}

// withMetrics attaches a Prometheus registry for backend call latency.
// Optional: nil leaves instrumentation disabled.
func (d *pollingDriver) withMetrics(m *obsmetrics.Registry) *pollingDriver {
	d.metrics = m
	return d
}

func (d *pollingDriver) observe(operation string, start time.Time) {
	if d.metrics == nil {
		return
	}
	d.metrics.BackendCallLatency.WithLabelValues(d.kind, operation).Observe(float64(time.Since(start).Milliseconds()))
}

func (d *pollingDriver) CurrentInstances(ctx context.Context, serviceID string) (int, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return d.endpoint.ReadCount(ctx, serviceID)
}

func (d *pollingDriver) Scale(ctx context.Context, serviceID string, target int) (*ScalingResult, error) {
	start := time.Now()

	previous, err := d.endpoint.ReadCount(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	requestStart := time.Now()
	err = d.endpoint.RequestScale(ctx, serviceID, target)
	d.observe("request_scale", requestStart)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(d.timeout)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	lastObserved := previous
	for {
		select {
		case <-ctx.Done():
			return &ScalingResult{
				Previous:   previous,
				New:        lastObserved,
				DurationMs: time.Since(start).Milliseconds(),
				Warnings:   []string{"scale call canceled: " + ctx.Err().Error()},
			}, nil
		case <-ticker.C:
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			count, err := d.endpoint.ReadCount(ctx, serviceID)
			if err != nil {
				logger.Warnf("backend(%s): poll read failed for %s: %v", d.kind, serviceID, err)
				continue
			}
			lastObserved = count
			if count == target {
				return &ScalingResult{
					Previous:   previous,
					New:        count,
					DurationMs: time.Since(start).Milliseconds(),
				}, nil
			}
			if time.Now().After(deadline) {
				return &ScalingResult{
					Previous:   previous,
					New:        lastObserved,
					DurationMs: time.Since(start).Milliseconds(),
					Warnings:   []string{"timed out waiting for target instance count; reporting last observed count"},
				}, nil
			}
		}
	}
}

func (d *pollingDriver) Describe(ctx context.Context, serviceID string) (*Capabilities, error) {
	count, err := d.CurrentInstances(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return &Capabilities{ServiceID: serviceID, SupportsScale: true, MaxInstances: count + 1000}, nil
}

func (d *pollingDriver) Close() error {
	return nil
}
