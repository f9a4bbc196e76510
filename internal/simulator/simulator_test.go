package simulator

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSimulator_MetricsHandler_CreatesServiceOnFirstPoll(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/metrics/order-matching", nil)
	rec := httptest.NewRecorder()
	s.metricsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("expected valid json body: %v", err)
	}
	if body["service_id"] != "order-matching" {
		t.Errorf("expected service_id order-matching, got %v", body["service_id"])
	}
}

func TestSimulator_MetricsHandler_RejectsEmptyServiceID(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/metrics/", nil)
	rec := httptest.NewRecorder()
	s.metricsHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSimulator_CreateServiceHandler_DefaultsUnsetFields(t *testing.T) {
	s := New(Config{})

	body, _ := json.Marshal(CreateServiceRequest{})
	req := httptest.NewRequest(http.MethodPost, "/services/risk-engine", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.createServiceHandler(rec, req, "risk-engine")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	svc, exists := s.GetService("risk-engine")
	if !exists {
		t.Fatal("expected service to be registered")
	}
	if svc.InstanceCount() != 3 {
		t.Errorf("expected default instance count 3, got %d", svc.InstanceCount())
	}
}

func TestSimulator_UpdateServiceHandler_AddsInstances(t *testing.T) {
	s := New(Config{})
	s.GetOrCreateService("risk-engine")

	add := 4
	body, _ := json.Marshal(UpdateServiceRequest{AddInstances: &add})
	req := httptest.NewRequest(http.MethodPut, "/services/risk-engine", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.updateServiceHandler(rec, req, "risk-engine")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	svc, _ := s.GetService("risk-engine")
	if svc.InstanceCount() != 7 {
		t.Errorf("expected 7 instances after adding 4 to the default 3, got %d", svc.InstanceCount())
	}
}

func TestSimulator_UpdateServiceHandler_UnknownServiceNotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodPut, "/services/unknown", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	s.updateServiceHandler(rec, req, "unknown")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestSimulator_DeleteServiceHandler_RemovesService(t *testing.T) {
	s := New(Config{})
	s.GetOrCreateService("risk-engine")

	req := httptest.NewRequest(http.MethodDelete, "/services/risk-engine", nil)
	rec := httptest.NewRecorder()
	s.deleteServiceHandler(rec, req, "risk-engine")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, exists := s.GetService("risk-engine"); exists {
		t.Error("expected service to be removed")
	}
}

func TestSimulator_SpikeHandler_InjectsSpikeOnExistingService(t *testing.T) {
	s := New(Config{})
	s.GetOrCreateService("order-matching")

	body, _ := json.Marshal(SpikeRequest{ServiceID: "order-matching", CPUTarget: 95, Duration: "1m", RampUp: "10s"})
	req := httptest.NewRequest(http.MethodPost, "/spike", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.spikeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSimulator_PatternHandler_SetsPatternOnExistingService(t *testing.T) {
	s := New(Config{})
	svc := s.GetOrCreateService("order-matching")

	body, _ := json.Marshal(PatternRequest{ServiceID: "order-matching", Pattern: "daily"})
	req := httptest.NewRequest(http.MethodPost, "/pattern", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.patternHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.GetPattern() != "daily" {
		t.Errorf("expected pattern daily, got %s", svc.GetPattern())
	}
}

func TestSimulator_ListServicesHandler_ReportsRegisteredServices(t *testing.T) {
	s := New(Config{})
	s.GetOrCreateService("order-matching")
	s.GetOrCreateService("risk-engine")

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	s.listServicesHandler(rec, req)

	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("expected valid json body: %v", err)
	}
	if body.Count != 2 {
		t.Errorf("expected count 2, got %d", body.Count)
	}
}
