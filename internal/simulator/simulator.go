// Package simulator is a standalone metric source for exercising the
// control loop without a live backend: it serves the same probeResponse
// JSON shape internal/collector's HTTPCollector expects, keyed by service
// ID instead of a cluster/server-list.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
)

type Config struct {
	Port int
}

type Simulator struct {
	config     Config
	services   map[string]*ServiceSim
	mu         sync.RWMutex
	httpServer *http.Server
}

func New(cfg Config) *Simulator {
	if cfg.Port == 0 {
		cfg.Port = 9000
	}

	return &Simulator{
		config:   cfg,
		services: make(map[string]*ServiceSim),
	}
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *Simulator) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", cors(s.healthHandler))
	mux.HandleFunc("/metrics/", cors(s.metricsHandler))
	mux.HandleFunc("/services", cors(s.listServicesHandler))
	mux.HandleFunc("/services/", cors(s.serviceHandler))
	mux.HandleFunc("/spike", cors(s.spikeHandler))
	mux.HandleFunc("/pattern", cors(s.patternHandler))

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Infof("simulator listening on %s", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("simulator server error: %v", err)
		}
	}()

	return nil
}

func (s *Simulator) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Simulator) GetOrCreateService(serviceID string) *ServiceSim {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc, exists := s.services[serviceID]; exists {
		return svc
	}

	svc := NewServiceSim(serviceID, ServiceSimConfig{
		InitialInstances: 3,
		BaseCPU:          50.0,
		BaseMemory:       60.0,
		Variance:         10.0,
	})
	s.services[serviceID] = svc

	logger.Infof("created simulated service %s", serviceID)
	return svc
}

func (s *Simulator) GetService(serviceID string) (*ServiceSim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, exists := s.services[serviceID]
	return svc, exists
}

// HTTP handlers

func (s *Simulator) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "metrics-simulator",
	})
}

// metricsHandler serves GET /metrics/{serviceID}, the endpoint
// HTTPCollector polls every cycle.
func (s *Simulator) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	serviceID := r.URL.Path[len("/metrics/"):]
	if serviceID == "" {
		http.Error(w, "service ID required", http.StatusBadRequest)
		return
	}

	svc := s.GetOrCreateService(serviceID)
	metrics := svc.CollectMetrics()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}

func (s *Simulator) listServicesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	services := make([]Status, 0, len(s.services))
	for _, svc := range s.services {
		services = append(services, svc.Status())
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"services": services,
		"count":    len(services),
	})
}

func (s *Simulator) serviceHandler(w http.ResponseWriter, r *http.Request) {
	serviceID := r.URL.Path[len("/services/"):]
	if serviceID == "" {
		http.Error(w, "service ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getServiceHandler(w, r, serviceID)
	case http.MethodPost:
		s.createServiceHandler(w, r, serviceID)
	case http.MethodPut:
		s.updateServiceHandler(w, r, serviceID)
	case http.MethodDelete:
		s.deleteServiceHandler(w, r, serviceID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Simulator) getServiceHandler(w http.ResponseWriter, r *http.Request, serviceID string) {
	svc, exists := s.GetService(serviceID)
	if !exists {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc.Status())
}

type CreateServiceRequest struct {
	Instances  int     `json:"instances"`
	BaseCPU    float64 `json:"base_cpu"`
	BaseMemory float64 `json:"base_memory"`
	Variance   float64 `json:"variance"`
}

func (s *Simulator) createServiceHandler(w http.ResponseWriter, r *http.Request, serviceID string) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Instances <= 0 {
		req.Instances = 3
	}
	if req.BaseCPU <= 0 {
		req.BaseCPU = 50.0
	}
	if req.BaseMemory <= 0 {
		req.BaseMemory = 60.0
	}
	if req.Variance <= 0 {
		req.Variance = 10.0
	}

	s.mu.Lock()
	svc := NewServiceSim(serviceID, ServiceSimConfig{
		InitialInstances: req.Instances,
		BaseCPU:          req.BaseCPU,
		BaseMemory:       req.BaseMemory,
		Variance:         req.Variance,
	})
	s.services[serviceID] = svc
	s.mu.Unlock()

	logger.Infof("created service %s with %d instances", serviceID, req.Instances)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(svc.Status())
}

type UpdateServiceRequest struct {
	BaseCPU         *float64 `json:"base_cpu"`
	BaseMemory      *float64 `json:"base_memory"`
	Variance        *float64 `json:"variance"`
	AddInstances    *int     `json:"add_instances"`
	RemoveInstances *int     `json:"remove_instances"`
}

func (s *Simulator) updateServiceHandler(w http.ResponseWriter, r *http.Request, serviceID string) {
	svc, exists := s.GetService(serviceID)
	if !exists {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.BaseCPU != nil {
		svc.SetBaseCPU(*req.BaseCPU)
	}
	if req.BaseMemory != nil {
		svc.SetBaseMemory(*req.BaseMemory)
	}
	if req.Variance != nil {
		svc.SetVariance(*req.Variance)
	}
	if req.AddInstances != nil && *req.AddInstances > 0 {
		svc.AddInstances(*req.AddInstances)
	}
	if req.RemoveInstances != nil && *req.RemoveInstances > 0 {
		svc.RemoveInstances(*req.RemoveInstances)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc.Status())
}

func (s *Simulator) deleteServiceHandler(w http.ResponseWriter, r *http.Request, serviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.services[serviceID]; !exists {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}

	delete(s.services, serviceID)
	logger.Infof("deleted service %s", serviceID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "service deleted"})
}

type SpikeRequest struct {
	ServiceID string  `json:"service_id"`
	CPUTarget float64 `json:"cpu_target"`
	Duration  string  `json:"duration"`
	RampUp    string  `json:"ramp_up"`
}

func (s *Simulator) spikeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SpikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	svc, exists := s.GetService(req.ServiceID)
	if !exists {
		svc = s.GetOrCreateService(req.ServiceID)
	}

	duration, err := time.ParseDuration(req.Duration)
	if err != nil {
		duration = 5 * time.Minute
	}

	rampUp, err := time.ParseDuration(req.RampUp)
	if err != nil {
		rampUp = 30 * time.Second
	}

	svc.InjectSpike(req.CPUTarget, duration, rampUp)

	logger.Infof("injected spike on service %s: target=%.1f%%, duration=%s",
		req.ServiceID, req.CPUTarget, duration)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":    "spike injected",
		"service_id": req.ServiceID,
		"cpu_target": req.CPUTarget,
		"duration":   duration.String(),
		"ramp_up":    rampUp.String(),
	})
}

type PatternRequest struct {
	ServiceID string `json:"service_id"`
	Pattern   string `json:"pattern"` // "steady", "daily", "weekly", "random", "gradual_rise"
}

func (s *Simulator) patternHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	svc, exists := s.GetService(req.ServiceID)
	if !exists {
		svc = s.GetOrCreateService(req.ServiceID)
	}

	pattern := ParsePattern(req.Pattern)
	svc.SetPattern(pattern)

	logger.Infof("set pattern %s on service %s", req.Pattern, req.ServiceID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":    "pattern set",
		"service_id": req.ServiceID,
		"pattern":    req.Pattern,
	})
}
