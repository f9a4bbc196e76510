// Package controlloop is the C11 component: one goroutine per tracked
// service, ticking through collect → store → decide → execute, plus a
// separate scheduled task for reporting.
package controlloop

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/collector"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/events"
	"github.com/OldStager01/cloud-autoscaler/internal/execution"
	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/internal/metricstore"
	"github.com/OldStager01/cloud-autoscaler/pkg/database/queries"
)

// WorkerConfig bundles one service worker's collaborators.
type WorkerConfig struct {
	ServiceID      string
	CollectInterval time.Duration
	Collector      collector.Collector
	Store          *metricstore.Store
	Engine         *decision.Engine
	Coordinator    *execution.Coordinator
	Publisher      *events.Publisher
	Decisions      *queries.DecisionRepository
}

// Worker runs the collect-store-decide-execute cycle for a single service
// on a fixed ticker, recovering from panics in its own cycle rather than
// taking down the rest of the control loop.
type Worker struct {
	config WorkerConfig

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWorker builds a Worker. CollectInterval defaults to 10s, matching the
// source's default pipeline cadence.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.CollectInterval == 0 {
		cfg.CollectInterval = 10 * time.Second
	}
	return &Worker{config: cfg}
}

// Start launches the worker's goroutine. Calling Start twice is a no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.run(runCtx)
	logger.WithService(w.config.ServiceID).Info("control loop worker started")
}

// Stop cancels the worker and waits for its goroutine to exit.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	<-done
	logger.WithService(w.config.ServiceID).Info("control loop worker stopped")
}

// IsRunning reports whether the worker's goroutine is active.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.config.CollectInterval)
	defer ticker.Stop()

	w.safeCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.safeCycle(ctx)
		}
	}
}

// safeCycle recovers from a panic in a single cycle, resetting the
// engine's per-service state machine so a crashed EXECUTING cycle doesn't
// leave the service permanently stuck.
func (w *Worker) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithService(w.config.ServiceID).Errorf("control loop cycle panicked: %v", r)
			w.config.Engine.ResetWorkerState(w.config.ServiceID)
		}
	}()
	w.cycle(ctx)
}

func (w *Worker) cycle(ctx context.Context) {
	serviceID := w.config.ServiceID
	cycleCtx, cancel := context.WithTimeout(ctx, w.config.CollectInterval)
	defer cancel()

	metrics, err := w.config.Collector.Collect(cycleCtx, serviceID)
	if err != nil {
		logger.WithService(serviceID).Warnf("metric collection failed: %v", err)
		w.config.Publisher.MetricsError(serviceID, err)
		return
	}
	w.config.Store.Put(serviceID, metrics)

	now := time.Now()
	d := w.config.Engine.Decide(serviceID, metrics, now)

	if w.config.Decisions != nil {
		if err := w.config.Decisions.Insert(cycleCtx, d); err != nil {
			logger.WithService(serviceID).Warnf("failed to persist decision: %v", err)
		}
	}

	if !d.ShouldExecute() {
		return
	}

	if _, err := w.config.Coordinator.Execute(cycleCtx, d, metrics); err != nil {
		if err != execution.ErrScalingInProgress {
			logger.WithService(serviceID).Errorf("execution failed: %v", err)
		}
	}
}

// ResetWorkerState clears a service's transient engine tracking (cooldown,
// state machine) without restarting the worker goroutine.
func (w *Worker) ResetWorkerState() {
	w.config.Engine.ResetWorkerState(w.config.ServiceID)
}
