package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HookPhase identifies when a hook fires relative to the backend call.
type HookPhase string

const (
	HookPhasePre  HookPhase = "pre"
	HookPhasePost HookPhase = "post"
)

// HookSink is a pluggable notification point invoked before and after a
// backend scale call. A hook failure is logged but never aborts scaling,
// per spec.md §4.9. The core does not depend on HTTP specifics — only on
// this interface.
type HookSink interface {
	Call(ctx context.Context, phase HookPhase, serviceID string, at time.Time) error
}

// HTTPHookSink is the default implementation: an HTTP POST with a short
// deadline and no retry, grounded on the source's
// SimulatorScaler.notifySimulator call shape.
type HTTPHookSink struct {
	url    string
	client *http.Client
}

// NewHTTPHookSink builds a hook sink posting to a fixed URL with a short
// deadline.
func NewHTTPHookSink(url string) *HTTPHookSink {
	return &HTTPHookSink{url: url, client: &http.Client{Timeout: 3 * time.Second}}
}

func (s *HTTPHookSink) Call(ctx context.Context, phase HookPhase, serviceID string, at time.Time) error {
	if s.url == "" {
		return nil
	}

	payload := map[string]interface{}{
		"phase":      phase,
		"service_id": serviceID,
		"timestamp":  at,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("hook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("hook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("hook: call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("hook: returned status %d", resp.StatusCode)
	}
	return nil
}
