package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
)

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Setup("not-a-level", "production")

	logger.Debug("should be suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be suppressed at info level, got %q", buf.String())
	}

	logger.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected info message in output, got %q", buf.String())
	}
}

func TestSetup_ProductionModeEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Setup("info", "production")

	logger.Info("hello")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected JSON output in production mode, got %q: %v", buf.String(), err)
	}
	if decoded["msg"] != "hello" {
		t.Errorf("expected msg field 'hello', got %v", decoded["msg"])
	}
}

func TestWithTraceID_RoundTripsThroughContext(t *testing.T) {
	ctx := logger.WithTraceID(context.Background(), "trace-123")
	if got := logger.TraceIDFromContext(ctx); got != "trace-123" {
		t.Errorf("expected trace-123, got %q", got)
	}
}

func TestTraceIDFromContext_MissingReturnsEmpty(t *testing.T) {
	if got := logger.TraceIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty trace id, got %q", got)
	}
}

func TestInfoCtx_IncludesTraceIDField(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Setup("info", "production")

	ctx := logger.WithTraceID(context.Background(), "trace-abc")
	logger.InfoCtx(ctx, "message")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if decoded["trace_id"] != "trace-abc" {
		t.Errorf("expected trace_id field 'trace-abc', got %v", decoded["trace_id"])
	}
}

func TestWithService_AddsServiceIDField(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Setup("info", "production")

	logger.WithService("order-matching").Info("scaled")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if decoded["service_id"] != "order-matching" {
		t.Errorf("expected service_id field 'order-matching', got %v", decoded["service_id"])
	}
}
