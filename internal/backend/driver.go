// Package backend implements the pluggable C8 driver: the component that
// actually changes a service's instance count against a cluster
// orchestrator, a container engine, or a cloud API.
package backend

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrServiceNotFound    = errors.New("service not found")
	ErrBackendRejected    = errors.New("backend rejected request")
	ErrBackendTimeout     = errors.New("backend timed out waiting for readiness")
	ErrBackendInternal    = errors.New("backend internal error")
)

// ScalingResult is the outcome of one Scale call.
type ScalingResult struct {
	Previous   int
	New        int
	DurationMs int64
	Warnings   []string
}

// Capabilities describes what a backend supports for a given service,
// returned by Describe for capability validation before a scale call.
type Capabilities struct {
	ServiceID     string
	SupportsScale bool
	MaxInstances  int
}

// Driver is the single interface implemented by every backend kind
// (cluster orchestrator, container engine, cloud API), per spec.md §4.8.
type Driver interface {
	// CurrentInstances returns the live instance count, or
	// ErrServiceNotFound if the service is unknown to this backend.
	CurrentInstances(ctx context.Context, serviceID string) (int, error)

	// Scale blocks until the backend reports target instances ready, or
	// until its hard timeout elapses — on timeout it returns a partial
	// success with the last observed count and a warning rather than an
	// error. It never retries internally; retry policy belongs to the
	// caller.
	Scale(ctx context.Context, serviceID string, target int) (*ScalingResult, error)

	// Describe reports capability metadata for capability validation.
	Describe(ctx context.Context, serviceID string) (*Capabilities, error)

	// Close releases backend resources.
	Close() error
}

// defaultScaleTimeout is the hard deadline from spec.md §4.8.
const defaultScaleTimeout = 300 * time.Second
