package config

import (
	"errors"
	"fmt"

	"github.com/OldStager01/cloud-autoscaler/internal/reporting"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, errors.New("database.port must be between 1 and 65535"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if c.Database.MaxConnections <= 0 {
		errs = append(errs, errors.New("database.max_connections must be positive"))
	}

	// Collector validation
	if c.Collector.Interval <= 0 {
		errs = append(errs, errors.New("collector.interval must be positive"))
	}
	if c.Collector.Timeout <= 0 {
		errs = append(errs, errors.New("collector.timeout must be positive"))
	}
	if c.Collector.Timeout >= c.Collector.Interval {
		errs = append(errs, errors.New("collector.timeout must be less than collector.interval"))
	}

	// Scaling validation
	validProviders := map[string]bool{"orchestrator": true, "engine": true, "cloud": true, "cluster": true}
	if !validProviders[c.Scaling.Provider] {
		errs = append(errs, fmt.Errorf("scaling.provider must be one of: orchestrator, engine, cloud, cluster"))
	}
	if c.Scaling.Limits.MinInstances < 0 {
		errs = append(errs, errors.New("scaling.limits.min_instances must be >= 0"))
	}
	if c.Scaling.Limits.MaxInstances < c.Scaling.Limits.MinInstances {
		errs = append(errs, errors.New("scaling.limits.max_instances must be >= min_instances"))
	}
	for i, rule := range c.Scaling.Rules {
		if rule.ID == "" {
			errs = append(errs, fmt.Errorf("scaling.rules[%d].id is required", i))
		}
		if len(rule.Conditions) == 0 {
			errs = append(errs, fmt.Errorf("scaling.rules[%s]: at least one condition is required", rule.ID))
		}
		if len(rule.TargetServices) == 0 {
			errs = append(errs, fmt.Errorf("scaling.rules[%s]: at least one target service is required", rule.ID))
		}
	}

	// Domain validation
	if c.Domain.Compliance.MinInstancesForRedundancy < 0 {
		errs = append(errs, errors.New("domain.compliance.min_instances_for_redundancy must be >= 0"))
	}
	if c.Domain.Compliance.MaxScaleDownRatePct <= 0 || c.Domain.Compliance.MaxScaleDownRatePct > 100 {
		errs = append(errs, errors.New("domain.compliance.max_scale_down_rate_pct must be between 0 and 100"))
	}

	// Predictor validation
	if c.Predictor.Enabled {
		if c.Predictor.BaseLoad <= 0 {
			errs = append(errs, errors.New("predictor.base_load must be positive"))
		}
		if c.Predictor.UnitsPerInstance <= 0 {
			errs = append(errs, errors.New("predictor.units_per_instance must be positive"))
		}
	}

	// Backend validation
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}

	if c.App.Mode == "production" {
		if c.API.JWTSecret == "" || c.API.JWTSecret == "change-me-in-production" || c.API.JWTSecret == "dev-secret-key-not-for-production" {
			errs = append(errs, errors.New("api.jwt_secret must be a strong secret in production"))
		}
		if len(c.API.JWTSecret) < 32 {
			errs = append(errs, errors.New("api.jwt_secret must be at least 32 characters in production"))
		}
		if !c.API.CookieSecure {
			errs = append(errs, errors.New("api.cookie_secure must be true in production"))
		}
		if !c.API.CookieHTTPOnly {
			errs = append(errs, errors.New("api.cookie_http_only must be true in production"))
		}
		if c.Database.SSLMode == "disable" {
			errs = append(errs, errors.New("database.ssl_mode should not be disabled in production"))
		}
	}

	if c.API.RateLimit <= 0 {
		errs = append(errs, errors.New("api.rate_limit must be positive"))
	}

	// Reporting validation
	if c.Reporting.Schedule != "" {
		if _, err := reporting.NewScheduler(c.Reporting.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("reporting.schedule: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
