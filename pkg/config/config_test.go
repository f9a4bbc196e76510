package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/config"
)

func validConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:     "test-app",
			Mode:     "development",
			LogLevel: "info",
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			Name:           "testdb",
			User:           "user",
			Password:       "pass",
			MaxConnections: 10,
		},
		Collector: config.CollectorConfig{
			Interval: 10 * time.Second,
			Timeout:  5 * time.Second,
		},
		Scaling: config.ScalingConfig{
			Enabled:  true,
			Provider: "cluster",
			Rules: []config.ScalingRuleConfig{
				{
					ID:             "rule-1",
					TargetServices: []string{"order-matching"},
					Conditions: []config.ScalingConditionConfig{
						{MetricPath: "resources.cpu_usage", Comparison: "gt", Threshold: 80},
					},
					Action: config.ScalingActionConfig{Kind: "delta", Delta: 1},
				},
			},
			Limits: config.GlobalLimitsConfig{
				MinInstances: 2,
				MaxInstances: 10,
			},
		},
		Domain: config.DomainConfig{
			Compliance: config.ComplianceConfigValues{
				MinInstancesForRedundancy: 2,
				MaxScaleDownRatePct:       25,
			},
		},
		Backend: config.BackendConfig{
			Timeout: 5 * time.Second,
		},
		API: config.APIConfig{
			Port:      8080,
			RateLimit: 100,
		},
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidMinMaxInstances(t *testing.T) {
	cfg := validConfig()
	cfg.Scaling.Limits.MinInstances = 10
	cfg.Scaling.Limits.MaxInstances = 5

	err := cfg.Validate()

	if err == nil {
		t.Fatal("expected error for invalid min/max instances")
	}
	if !strings.Contains(err.Error(), "max_instances must be >= min_instances") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestConfig_Validate_InvalidCollectorTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Timeout = 15 * time.Second
	cfg.Collector.Interval = 10 * time.Second

	err := cfg.Validate()

	if err == nil {
		t.Fatal("expected error for invalid collector timeout")
	}
	if !strings.Contains(err.Error(), "timeout must be less than") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestConfig_Validate_RuleMissingTargetServices(t *testing.T) {
	cfg := validConfig()
	cfg.Scaling.Rules[0].TargetServices = nil

	err := cfg.Validate()

	if err == nil {
		t.Fatal("expected error for rule with no target services")
	}
	if !strings.Contains(err.Error(), "at least one target service is required") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresStrongSecret(t *testing.T) {
	cfg := validConfig()
	cfg.App.Mode = "production"
	cfg.API.JWTSecret = "change-me-in-production"
	cfg.API.CookieSecure = true
	cfg.API.CookieHTTPOnly = true

	err := cfg.Validate()

	if err == nil {
		t.Fatal("expected error for weak production jwt secret")
	}
	if !strings.Contains(err.Error(), "jwt_secret must be a strong secret") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dbCfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "testdb",
		User:     "admin",
		Password: "secret",
		SSLMode:  "disable",
	}

	dsn := dbCfg.DSN()

	expected := "host=localhost port=5432 user=admin password=secret dbname=testdb sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}
