package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/controlloop"
	"github.com/OldStager01/cloud-autoscaler/internal/decision"
	"github.com/OldStager01/cloud-autoscaler/internal/execution"
	"github.com/OldStager01/cloud-autoscaler/internal/metricstore"
	"github.com/OldStager01/cloud-autoscaler/internal/reporting"
	"github.com/OldStager01/cloud-autoscaler/pkg/config"
	"github.com/OldStager01/cloud-autoscaler/pkg/validation"
	"github.com/gin-gonic/gin"
)

// ScalingHandler exposes the admin surface over the control loop's live
// state: metrics, decision/event history, predictions, manual overrides,
// and report generation.
type ScalingHandler struct {
	manager     *controlloop.Manager
	store       *metricstore.Store
	engine      *decision.Engine
	coordinator *execution.Coordinator
	reportGen   *reporting.Generator
	config      *config.APIConfig
}

func NewScalingHandler(manager *controlloop.Manager, store *metricstore.Store, engine *decision.Engine, coordinator *execution.Coordinator, reportGen *reporting.Generator, cfg *config.APIConfig) *ScalingHandler {
	return &ScalingHandler{
		manager:     manager,
		store:       store,
		engine:      engine,
		coordinator: coordinator,
		reportGen:   reportGen,
		config:      cfg,
	}
}

func (h *ScalingHandler) defaultLimit() int {
	if h.config != nil && h.config.DefaultLimit > 0 {
		return h.config.DefaultLimit
	}
	return 50
}

func (h *ScalingHandler) maxLimit() int {
	if h.config != nil && h.config.MaxLimit > 0 {
		return h.config.MaxLimit
	}
	return 500
}

// serviceParam extracts and validates the :service path param. On failure
// it writes the 400 response itself and returns ok=false.
func (h *ScalingHandler) serviceParam(c *gin.Context) (string, bool) {
	serviceID := validation.SanitizeString(c.Param("service"))
	if err := validation.ValidateServiceID(serviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return serviceID, true
}

func (h *ScalingHandler) parseLimit(c *gin.Context) int {
	limit := h.defaultLimit()
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max := h.maxLimit(); limit > max {
		limit = max
	}
	return limit
}

// Status godoc
// @Summary Control loop status
// @Description List services currently being monitored
// @Tags Scaling
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /status [get]
func (h *ScalingHandler) Status(c *gin.Context) {
	services := h.manager.RunningServices()
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

// GetMetrics godoc
// @Summary Latest metrics snapshot
// @Tags Scaling
// @Produce json
// @Security BearerAuth
// @Param service path string true "Service ID"
// @Success 200 {object} models.ServiceMetrics
// @Failure 404 {object} map[string]string
// @Router /metrics/{service} [get]
func (h *ScalingHandler) GetMetrics(c *gin.Context) {
	serviceID, ok := h.serviceParam(c)
	if !ok {
		return
	}

	metrics := h.store.Get(serviceID)
	if metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no metrics recorded for service"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// GetDecisions godoc
// @Summary Recent scaling decisions
// @Tags Scaling
// @Produce json
// @Security BearerAuth
// @Param service path string true "Service ID"
// @Param limit query int false "Max decisions to return"
// @Success 200 {object} map[string]interface{}
// @Router /decisions/{service} [get]
func (h *ScalingHandler) GetDecisions(c *gin.Context) {
	serviceID, ok := h.serviceParam(c)
	if !ok {
		return
	}
	limit := h.parseLimit(c)

	decisions := h.engine.History(serviceID, limit)
	c.JSON(http.StatusOK, gin.H{
		"service_id": serviceID,
		"data":       decisions,
		"count":      len(decisions),
	})
}

// GetEvents godoc
// @Summary Recent scaling executions
// @Tags Scaling
// @Produce json
// @Security BearerAuth
// @Param service path string true "Service ID"
// @Param limit query int false "Max events to return"
// @Success 200 {object} map[string]interface{}
// @Router /events/{service} [get]
func (h *ScalingHandler) GetEvents(c *gin.Context) {
	serviceID, ok := h.serviceParam(c)
	if !ok {
		return
	}
	limit := h.parseLimit(c)

	events := h.coordinator.History(serviceID, limit)
	c.JSON(http.StatusOK, gin.H{
		"service_id": serviceID,
		"data":       events,
		"count":      len(events),
	})
}

// GetPredictions godoc
// @Summary Forecast future load and recommended instance count
// @Tags Scaling
// @Produce json
// @Security BearerAuth
// @Param service path string true "Service ID"
// @Param horizon_minutes query int false "Forecast horizon in minutes"
// @Success 200 {object} models.Prediction
// @Failure 503 {object} map[string]string
// @Router /predictions/{service} [get]
func (h *ScalingHandler) GetPredictions(c *gin.Context) {
	serviceID, ok := h.serviceParam(c)
	if !ok {
		return
	}

	predictor := h.manager.Predictor()
	if predictor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "predictor is disabled"})
		return
	}

	horizon := 60
	if raw := c.Query("horizon_minutes"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			horizon = parsed
		}
	}

	prediction := predictor.Predict(serviceID, horizon, time.Now())
	c.JSON(http.StatusOK, prediction)
}

type ScaleRequest struct {
	TargetInstances int `json:"target_instances" binding:"min=0"`
}

// ManualScale godoc
// @Summary Manually scale a service
// @Tags Scaling
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param service path string true "Service ID"
// @Param request body ScaleRequest true "Target instance count"
// @Success 200 {object} models.ScalingEvent
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /scale/{service} [post]
func (h *ScalingHandler) ManualScale(c *gin.Context) {
	serviceID, ok := h.serviceParam(c)
	if !ok {
		return
	}

	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateInstanceCount(req.TargetInstances); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := h.store.Get(serviceID)
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no metrics recorded for service"})
		return
	}

	event, err := h.coordinator.ManualScale(c.Request.Context(), serviceID, req.TargetInstances, current)
	if err != nil {
		if err == execution.ErrScalingInProgress {
			c.JSON(http.StatusConflict, gin.H{"error": "scaling already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute scale"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// EmergencyScaleDown godoc
// @Summary Emergency scale-down, bypassing cooldown
// @Tags Scaling
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param service path string true "Service ID"
// @Param request body ScaleRequest true "Target instance count"
// @Success 200 {object} models.ScalingEvent
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /emergency/scale-down/{service} [post]
func (h *ScalingHandler) EmergencyScaleDown(c *gin.Context) {
	serviceID, ok := h.serviceParam(c)
	if !ok {
		return
	}

	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateInstanceCount(req.TargetInstances); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := h.store.Get(serviceID)
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no metrics recorded for service"})
		return
	}

	event, err := h.coordinator.EmergencyScaleDown(c.Request.Context(), serviceID, req.TargetInstances, current)
	if err != nil {
		if err == execution.ErrScalingInProgress {
			c.JSON(http.StatusConflict, gin.H{"error": "scaling already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute emergency scale-down"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// Rollback godoc
// @Summary Roll back to the instance count before the last successful scaling
// @Tags Scaling
// @Produce json
// @Security BearerAuth
// @Param service path string true "Service ID"
// @Success 200 {object} models.ScalingEvent
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /rollback/{service} [post]
func (h *ScalingHandler) Rollback(c *gin.Context) {
	serviceID, ok := h.serviceParam(c)
	if !ok {
		return
	}

	current := h.store.Get(serviceID)
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no metrics recorded for service"})
		return
	}

	event, err := h.coordinator.RollbackLast(c.Request.Context(), serviceID, current)
	if err != nil {
		if err == execution.ErrScalingInProgress {
			c.JSON(http.StatusConflict, gin.H{"error": "scaling already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute rollback"})
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no prior successful scaling to roll back to"})
		return
	}

	c.JSON(http.StatusOK, event)
}

type GenerateReportRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// GenerateReport godoc
// @Summary Generate a per-service decision/execution summary over a window
// @Tags Reporting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateReportRequest true "Report window"
// @Success 200 {object} reporting.Report
// @Failure 400 {object} map[string]string
// @Router /reports/generate [post]
func (h *ScalingHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.End.After(req.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}

	report, err := h.reportGen.Generate(c.Request.Context(), req.Start, req.End)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, report)
}
