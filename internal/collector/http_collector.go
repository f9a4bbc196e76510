package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/logger"
	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// HTTPCollector is a generic JSON-over-HTTP probe adapter: GET
// {endpoint}/{serviceID} returning the snapshot fields, tolerating unknown
// fields per spec.md §6's metric-source contract.
type HTTPCollector struct {
	client   *http.Client
	endpoint string
}

type HTTPCollectorConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func NewHTTPCollector(cfg HTTPCollectorConfig) *HTTPCollector {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &HTTPCollector{
		client:   &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
	}
}

// probeResponse mirrors the wire shape a metric source adapter returns.
// Unknown fields are tolerated by json.Unmarshal's default behavior.
type probeResponse struct {
	ServiceID   string             `json:"service_id"`
	CapturedAt  string             `json:"captured_at"`
	Resources   models.ResourceMetrics    `json:"resources"`
	Performance models.PerformanceMetrics `json:"performance"`
	Instances   models.InstanceMetrics    `json:"instances"`
	Custom      map[string]float64 `json:"custom"`
}

func (c *HTTPCollector) Collect(ctx context.Context, serviceID string) (*models.ServiceMetrics, error) {
	url := fmt.Sprintf("%s/%s", c.endpoint, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrSourceUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debugf("collector: polling %s", url)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSourceTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrSourceUnreachable, err)
	}

	var parsed probeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}

	captured := time.Now()
	if parsed.CapturedAt != "" {
		if t, err := time.Parse(time.RFC3339, parsed.CapturedAt); err == nil {
			captured = t
		}
	}

	metrics := &models.ServiceMetrics{
		ServiceID:   serviceID,
		CapturedAt:  captured,
		Resources:   parsed.Resources,
		Performance: parsed.Performance,
		Instances:   parsed.Instances,
		Custom:      parsed.Custom,
	}

	if !metrics.Valid() {
		return nil, fmt.Errorf("%w: healthy+unhealthy exceeds current", ErrSourceMalformed)
	}

	return metrics, nil
}

func (c *HTTPCollector) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", c.endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPCollector) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
