package backend

import (
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/obsmetrics"
)

// NewClusterDriver builds a Driver against a cluster-orchestrator-style
// backend (the source's own SimulatorScaler target), grounded on
// SimulatorScaler's provisioning turnaround — short poll interval, default
// timeout. metrics may be nil to disable instrumentation.
func NewClusterDriver(baseURL string, metrics *obsmetrics.Registry) Driver {
	return newPollingDriver(NewHTTPEndpoint(baseURL), 2*time.Second, defaultScaleTimeout, 10, "cluster").withMetrics(metrics)
}

// NewEngineDriver builds a Driver against a container-engine-style backend
// (e.g. a Kubernetes-like scheduler), which typically reports readiness
// faster than a bare VM cluster.
func NewEngineDriver(baseURL string, metrics *obsmetrics.Registry) Driver {
	return newPollingDriver(NewHTTPEndpoint(baseURL), time.Second, 2*time.Minute, 20, "engine").withMetrics(metrics)
}

// NewCloudDriver builds a Driver against a cloud-API-style backend, which
// needs a longer poll interval and a lower call rate since cloud
// autoscaling groups typically take minutes to converge.
func NewCloudDriver(baseURL string, metrics *obsmetrics.Registry) Driver {
	return newPollingDriver(NewHTTPEndpoint(baseURL), 5*time.Second, defaultScaleTimeout, 2, "cloud").withMetrics(metrics)
}
