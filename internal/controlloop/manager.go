package controlloop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/collector"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/events"
	"github.com/OldStager01/cloud-autoscaler/internal/execution"
	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/internal/metricstore"
	"github.com/OldStager01/cloud-autoscaler/internal/predictor"
	"github.com/OldStager01/cloud-autoscaler/internal/reporting"
	"github.com/OldStager01/cloud-autoscaler/pkg/database/queries"
)

// ManagerConfig bundles the shared collaborators every worker and the
// scheduled task need.
type ManagerConfig struct {
	Store          *metricstore.Store
	Engine         *decision.Engine
	Coordinator    *execution.Coordinator
	Publisher      *events.Publisher
	Predictor      *predictor.Predictor
	Scheduler      *reporting.Scheduler
	Decisions      *queries.DecisionRepository
	CollectInterval time.Duration
}

// Manager owns one Worker per tracked service plus the scheduled
// reporting task. Grounded on the source's Orchestrator, which
// plays the same per-cluster-pipeline-registry role.
type Manager struct {
	config ManagerConfig

	mu      sync.RWMutex
	workers map[string]*Worker

	ctx        context.Context
	cancel     context.CancelFunc
	scheduleWG sync.WaitGroup
}

// NewManager builds a Manager. It does not start any workers until
// StartService is called.
func NewManager(cfg ManagerConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config:  cfg,
		workers: make(map[string]*Worker),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// StartService registers and starts a worker for one service. Returns an
// error if a worker for this service is already running.
func (m *Manager) StartService(serviceID string, coll collector.Collector) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.workers[serviceID]; exists {
		return fmt.Errorf("control loop worker already running for service %s", serviceID)
	}

	worker := NewWorker(WorkerConfig{
		ServiceID:       serviceID,
		CollectInterval: m.config.CollectInterval,
		Collector:       coll,
		Store:           m.config.Store,
		Engine:          m.config.Engine,
		Coordinator:     m.config.Coordinator,
		Publisher:       m.config.Publisher,
		Decisions:       m.config.Decisions,
	})
	worker.Start(m.ctx)
	m.workers[serviceID] = worker

	logger.WithService(serviceID).Info("service registered with control loop")
	return nil
}

// StopService stops and deregisters a service's worker.
func (m *Manager) StopService(serviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	worker, exists := m.workers[serviceID]
	if !exists {
		return fmt.Errorf("no control loop worker for service %s", serviceID)
	}

	worker.Stop()
	delete(m.workers, serviceID)
	return nil
}

// RunningServices lists services with an active worker.
func (m *Manager) RunningServices() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.workers))
	for id, w := range m.workers {
		if w.IsRunning() {
			ids = append(ids, id)
		}
	}
	return ids
}

// ResetService clears one service's transient engine state without
// restarting its worker.
func (m *Manager) ResetService(serviceID string) error {
	m.mu.RLock()
	worker, exists := m.workers[serviceID]
	m.mu.RUnlock()
	if !exists {
		return fmt.Errorf("no control loop worker for service %s", serviceID)
	}
	worker.ResetWorkerState()
	return nil
}

// Predictor exposes the shared predictor for API handlers that serve
// on-demand forecasts outside the ticker-driven cycle.
func (m *Manager) Predictor() *predictor.Predictor {
	return m.config.Predictor
}

// StartScheduledTasks launches the background goroutine driving report
// generation against the configured schedule, checked once a minute per
// spec.md §6. It does not run the predictor; forecasts are computed on
// demand through Predictor.
func (m *Manager) StartScheduledTasks(onReport reporting.ReportFunc) {
	if m.config.Scheduler == nil {
		return
	}
	m.scheduleWG.Add(1)
	go m.runSchedule(onReport)
}

func (m *Manager) runSchedule(onReport reporting.ReportFunc) {
	defer m.scheduleWG.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			if m.config.Scheduler.Due(now) {
				m.runReport(now, onReport)
			}
		}
	}
}

func (m *Manager) runReport(now time.Time, onReport reporting.ReportFunc) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("scheduled report generation panicked: %v", r)
		}
	}()
	if onReport == nil {
		return
	}
	if err := onReport(m.ctx, now); err != nil {
		logger.Errorf("scheduled report generation failed: %v", err)
	}
}

// Stop stops every running worker and the scheduled task, waiting for all
// of them to exit.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	workers := make([]*Worker, 0, len(m.workers))
	for _, w := range m.workers {
		workers = append(workers, w)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(worker *Worker) {
			defer wg.Done()
			worker.Stop()
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("timeout waiting for control loop workers to stop")
	}

	m.cancel()
	m.scheduleWG.Wait()
	return nil
}
