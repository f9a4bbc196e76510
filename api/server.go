package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/OldStager01/cloud-autoscaler/api/handlers"
	"github.com/OldStager01/cloud-autoscaler/api/middleware"
	"github.com/OldStager01/cloud-autoscaler/api/websocket"
	"github.com/OldStager01/cloud-autoscaler/internal/auth"
	"github.com/OldStager01/cloud-autoscaler/internal/controlloop"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/events"
	"github.com/OldStager01/cloud-autoscaler/internal/execution"
	"github.com/OldStager01/cloud-autoscaler/internal/metricstore"
	"github.com/OldStager01/cloud-autoscaler/internal/reporting"
	"github.com/OldStager01/cloud-autoscaler/pkg/config"
	"github.com/OldStager01/cloud-autoscaler/pkg/database"
	"github.com/OldStager01/cloud-autoscaler/pkg/database/queries"
	"github.com/gin-gonic/gin"
)

// Dependencies bundles the collaborators the admin API reads from. It is
// assembled once at startup by cmd/autoscaler and handed to NewServer.
type Dependencies struct {
	Manager     *controlloop.Manager
	Store       *metricstore.Store
	Engine      *decision.Engine
	Coordinator *execution.Coordinator
	ReportGen   *reporting.Generator
	EventBus    *events.EventBus
}

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      config.APIConfig
	db          *database.DB
	authService *auth.Service
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
	deps        Dependencies
}

func NewServer(cfg config.APIConfig, wsCfg config.WebSocketConfig, db *database.DB, deps Dependencies) *Server {
	if cfg.JWTSecret == "" || cfg.JWTSecret == "change-me-in-production" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	authService := auth.NewService(cfg.JWTSecret, cfg.JWTDuration, cfg.JWTIssuer)
	wsHub := websocket.NewHub(&wsCfg)

	s := &Server{
		router:      router,
		config:      cfg,
		db:          db,
		authService: authService,
		wsHub:       wsHub,
		deps:        deps,
	}

	s.setupMiddleware()
	s.setupRoutes()

	go wsHub.Run()

	if deps.EventBus != nil {
		eventsChan := deps.EventBus.SubscribeAll()
		s.wsBridge = websocket.NewEventBridge(wsHub, eventsChan)
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())

	rateLimiter := middleware.NewRateLimiter(s.config.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))
}

func (s *Server) setupRoutes() {
	operatorRepo := queries.NewOperatorRepository(s.db.DB)

	healthHandler := handlers.NewHealthHandler(s.db)
	authHandler := handlers.NewAuthHandler(operatorRepo, s.authService, &s.config)
	scalingHandler := handlers.NewScalingHandler(s.deps.Manager, s.deps.Store, s.deps.Engine, s.deps.Coordinator, s.deps.ReportGen, &s.config)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	authLimiter := middleware.AuthRateLimiter()
	s.router.POST("/auth/login", authLimiter, authHandler.Login)
	s.router.POST("/auth/register", authLimiter, authHandler.Register)

	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	protected := s.router.Group("/")
	protected.Use(middleware.JWTAuth(s.authService))
	{
		protected.GET("/status", scalingHandler.Status)

		protected.GET("/metrics/:service", scalingHandler.GetMetrics)
		protected.GET("/decisions/:service", scalingHandler.GetDecisions)
		protected.GET("/events/:service", scalingHandler.GetEvents)
		protected.GET("/predictions/:service", scalingHandler.GetPredictions)

		protected.POST("/scale/:service", scalingHandler.ManualScale)
		protected.POST("/emergency/scale-down/:service", scalingHandler.EmergencyScaleDown)
		protected.POST("/rollback/:service", scalingHandler.Rollback)

		protected.POST("/reports/generate", scalingHandler.GenerateReport)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
