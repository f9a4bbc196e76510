package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OldStager01/cloud-autoscaler/api/handlers"
	"github.com/gin-gonic/gin"
)

func TestHealthHandler_Live_AlwaysReportsAlive(t *testing.T) {
	h := handlers.NewHealthHandler(nil)

	r := gin.New()
	r.GET("/health/live", h.Live)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
