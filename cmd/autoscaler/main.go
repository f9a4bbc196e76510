package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldStager01/cloud-autoscaler/api"
	"github.com/OldStager01/cloud-autoscaler/internal/backend"
	"github.com/OldStager01/cloud-autoscaler/internal/collector"
	"github.com/OldStager01/cloud-autoscaler/internal/condition"
	"github.com/OldStager01/cloud-autoscaler/internal/controlloop"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/domainpolicy"
	"github.com/OldStager01/cloud-autoscaler/internal/events"
	"github.com/OldStager01/cloud-autoscaler/internal/execution"
	"github.com/OldStager01/cloud-autoscaler/internal/guard"
	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/internal/metricstore"
	"github.com/OldStager01/cloud-autoscaler/internal/obsmetrics"
	"github.com/OldStager01/cloud-autoscaler/internal/predictor"
	"github.com/OldStager01/cloud-autoscaler/internal/reporting"
	"github.com/OldStager01/cloud-autoscaler/internal/resilience"
	"github.com/OldStager01/cloud-autoscaler/internal/rules"
	"github.com/OldStager01/cloud-autoscaler/internal/ruleeval"
	"github.com/OldStager01/cloud-autoscaler/pkg/config"
	"github.com/OldStager01/cloud-autoscaler/pkg/database"
	"github.com/OldStager01/cloud-autoscaler/pkg/database/queries"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("database connection established")

	if *migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		logger.Info("running database migrations")
		migrator := database.NewMigrator(db)
		if err := migrator.Run(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("migrations completed successfully")
		return nil
	}

	if !cfg.Scaling.Enabled {
		logger.Warn("scaling.enabled is false; control loop workers will keep polling metrics but the decision engine will emit MAINTAIN only")
	}

	ruleModels, err := cfg.Scaling.ToRules()
	if err != nil {
		return fmt.Errorf("invalid scaling rules: %w", err)
	}
	ruleStore := rules.NewStore(ruleModels)

	metricsRegistry, promRegistry := obsmetrics.New()

	tracker := condition.New()
	evaluator := ruleeval.New(tracker)
	policy := domainpolicy.New()
	profile := cfg.Domain.ToTradingProfile()
	limits := cfg.Scaling.Limits.ToGlobalLimits()
	limitGuard := guard.NewLimitGuard(limits)
	cooldownGate := guard.NewCooldownGate(limits.ScaleUpCooldownS, limits.ScaleDownCooldownS)

	engine := decision.NewEngine(decision.Config{
		Rules:     ruleStore,
		Evaluator: evaluator,
		Policy:    policy,
		Cooldown:  cooldownGate,
		Limits:    limitGuard,
		Profile:   profile,
		Metrics:   metricsRegistry,
		Disabled:  !cfg.Scaling.Enabled,
	})

	store := metricstore.New()
	eventBus := events.NewEventBus(cfg.Events.BufferSize)
	publisher := events.NewPublisher(eventBus)

	eventRepo := queries.NewEventRepository(db.DB)
	decisionRepo := queries.NewDecisionRepository(db.DB)

	eventLogger := events.NewEventLogger(eventRepo, eventBus.SubscribeAll())
	eventLogger.Start()
	defer eventLogger.Stop()

	driver, err := newBackendDriver(cfg.Backend, metricsRegistry)
	if err != nil {
		return fmt.Errorf("failed to build backend driver: %w", err)
	}

	coordinator := execution.NewCoordinator(execution.Config{
		Driver:    driver,
		Engine:    engine,
		Policy:    policy,
		Limits:    limitGuard,
		Profile:   profile,
		Publisher: publisher,
		Metrics:   metricsRegistry,
	})

	var forecaster *predictor.Predictor
	if cfg.Predictor.Enabled {
		forecaster = predictor.New(engine, cfg.Predictor.ToPredictorConfig())
	}

	scheduler, err := reporting.NewScheduler(cfg.Reporting.Schedule)
	if err != nil {
		return fmt.Errorf("invalid reporting schedule: %w", err)
	}
	reportGen := reporting.NewGenerator(decisionRepo, eventRepo)

	manager := controlloop.NewManager(controlloop.ManagerConfig{
		Store:           store,
		Engine:          engine,
		Coordinator:     coordinator,
		Publisher:       publisher,
		Predictor:       forecaster,
		Scheduler:       scheduler,
		Decisions:       decisionRepo,
		CollectInterval: cfg.Collector.Interval,
	})

	serviceIDs := ruleStore.ServiceIDs()
	for _, serviceID := range serviceIDs {
		coll, err := newCollector(cfg.Collector, serviceID)
		if err != nil {
			return fmt.Errorf("failed to build collector for %s: %w", serviceID, err)
		}
		if err := manager.StartService(serviceID, coll); err != nil {
			return fmt.Errorf("failed to start control loop for %s: %w", serviceID, err)
		}
	}
	logger.Infof("control loop running for %d service(s)", len(serviceIDs))

	manager.StartScheduledTasks(func(ctx context.Context, firedAt time.Time) error {
		start := firedAt.Add(-24 * time.Hour)
		report, err := reportGen.Generate(ctx, start, firedAt)
		if err != nil {
			return err
		}
		logger.Infof("scheduled report generated: %d service(s) summarized", len(report.Services))
		return nil
	})

	if cfg.Prometheus.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", obsmetrics.Handler(promRegistry))
			addr := fmt.Sprintf(":%d", cfg.Prometheus.Port)
			logger.Infof("prometheus metrics listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Errorf("prometheus server error: %v", err)
			}
		}()
	}

	server := api.NewServer(cfg.API, cfg.WebSocket, db, api.Dependencies{
		Manager:     manager,
		Store:       store,
		Engine:      engine,
		Coordinator: coordinator,
		ReportGen:   reportGen,
		EventBus:    eventBus,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := manager.Stop(shutdownCtx); err != nil {
		logger.Errorf("control loop shutdown error: %v", err)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// newCollector builds the C1 metric source adapter selected by
// collector.type, wrapped in a circuit breaker and bounded retry per
// spec.md §4.1.
func newCollector(cfg config.CollectorConfig, serviceID string) (collector.Collector, error) {
	var base collector.Collector

	switch cfg.Type {
	case "", "http":
		base = collector.NewHTTPCollector(collector.HTTPCollectorConfig{
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.Timeout,
		})
	case "mock":
		base = collector.NewMockCollector(collector.MockCollectorConfig{})
	default:
		return nil, fmt.Errorf("unknown collector type %q", cfg.Type)
	}

	return collector.NewResilientCollector(collector.ResilientCollectorConfig{
		Collector:     base,
		MaxFailures:   cfg.CircuitBreaker.MaxFailures,
		Timeout:       cfg.CircuitBreaker.Timeout,
		RetryAttempts: cfg.RetryAttempts,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.WithService(serviceID).Warnf("collector circuit breaker %s: %s -> %s", name, from, to)
		},
	}), nil
}

// newBackendDriver builds the C8 backend driver selected by backend.type.
func newBackendDriver(cfg config.BackendConfig, metrics *obsmetrics.Registry) (backend.Driver, error) {
	switch cfg.Type {
	case "", "cluster":
		return backend.NewClusterDriver(cfg.Endpoint, metrics), nil
	case "engine":
		return backend.NewEngineDriver(cfg.Endpoint, metrics), nil
	case "cloud":
		return backend.NewCloudDriver(cfg.Endpoint, metrics), nil
	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Type)
	}
}
