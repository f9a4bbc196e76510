package models

import "time"

// ResourceMetrics carries the raw resource-utilization fields for a service.
type ResourceMetrics struct {
	CPUUsage    float64 `json:"cpu_usage"`
	MemoryUsage float64 `json:"memory_usage"`
	NetworkIn   float64 `json:"network_in"`
	NetworkOut  float64 `json:"network_out"`
}

// PerformanceMetrics carries the request-path performance fields for a service.
type PerformanceMetrics struct {
	ResponseTimeMs float64 `json:"response_time_ms"`
	ThroughputRPS  float64 `json:"throughput_rps"`
	ErrorRate      float64 `json:"error_rate"`
	QueueLength    float64 `json:"queue_length"`
}

// InstanceMetrics carries the replica counts for a service.
type InstanceMetrics struct {
	Current   int `json:"current"`
	Healthy   int `json:"healthy"`
	Unhealthy int `json:"unhealthy"`
}

// ServiceMetrics is the latest telemetry snapshot for one service. A new
// snapshot replaces the prior one in the metric store; metrics are never
// accumulated.
type ServiceMetrics struct {
	ServiceID   string              `json:"service_id"`
	CapturedAt  time.Time           `json:"captured_at"`
	Resources   ResourceMetrics     `json:"resources"`
	Performance PerformanceMetrics  `json:"performance"`
	Instances   InstanceMetrics     `json:"instances"`
	Custom      map[string]float64  `json:"custom,omitempty"`
}

// Valid reports whether the snapshot satisfies the healthy+unhealthy<=current
// invariant, compared with a small epsilon. The counts are integers, so any
// sum above current (such as a double-count during a rolling restart) is
// invalid.
func (m *ServiceMetrics) Valid() bool {
	const epsilon = 0.0001
	return float64(m.Instances.Healthy+m.Instances.Unhealthy) <= float64(m.Instances.Current)+epsilon
}

// Value extracts a dotted metric path from the snapshot. Unknown paths
// resolve to 0 rather than raising, per the rule evaluator's contract.
func (m *ServiceMetrics) Value(metricPath string) float64 {
	switch metricPath {
	case "cpu.usage":
		return m.Resources.CPUUsage
	case "memory.usage":
		return m.Resources.MemoryUsage
	case "network.in":
		return m.Resources.NetworkIn
	case "network.out":
		return m.Resources.NetworkOut
	case "performance.responseTime":
		return m.Performance.ResponseTimeMs
	case "performance.throughput":
		return m.Performance.ThroughputRPS
	case "performance.errorRate":
		return m.Performance.ErrorRate
	case "performance.queueLength":
		return m.Performance.QueueLength
	case "instances.current":
		return float64(m.Instances.Current)
	case "instances.healthy":
		return float64(m.Instances.Healthy)
	case "instances.unhealthy":
		return float64(m.Instances.Unhealthy)
	default:
		if len(metricPath) > len("custom.") && metricPath[:len("custom.")] == "custom." {
			name := metricPath[len("custom."):]
			if v, ok := m.Custom[name]; ok {
				return v
			}
		}
		return 0
	}
}
