package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/autoscaler")
	}

	v.SetEnvPrefix("AUTOSCALER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "cloud-autoscaler")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "15s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "autoscaler")
	v.SetDefault("database.user", "admin")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.ping_timeout", "5s")
	v.SetDefault("database.migration_timeout", "30s")

	// Collector defaults
	v.SetDefault("collector.type", "http")
	v.SetDefault("collector.endpoint", "http://localhost:9000/metrics")
	v.SetDefault("collector.interval", "10s")
	v.SetDefault("collector.timeout", "5s")
	v.SetDefault("collector.retry_attempts", 3)
	v.SetDefault("collector.circuit_breaker.max_failures", 5)
	v.SetDefault("collector.circuit_breaker.timeout", "30s")

	// Scaling defaults
	v.SetDefault("scaling.enabled", true)
	v.SetDefault("scaling.provider", "cluster")
	v.SetDefault("scaling.limits.min_instances", 2)
	v.SetDefault("scaling.limits.max_instances", 50)
	v.SetDefault("scaling.limits.scale_up_cooldown", "5m")
	v.SetDefault("scaling.limits.scale_down_cooldown", "10m")

	// Domain (trading profile) defaults
	v.SetDefault("domain.market_hours_start", "09:30")
	v.SetDefault("domain.market_hours_end", "16:00")
	v.SetDefault("domain.patterns.opening_bell_multiplier", 1.5)
	v.SetDefault("domain.patterns.closing_bell_multiplier", 1.5)
	v.SetDefault("domain.patterns.lunch_multiplier", 0.8)
	v.SetDefault("domain.patterns.month_end_multiplier", 1.3)
	v.SetDefault("domain.patterns.quarter_end_multiplier", 1.6)
	v.SetDefault("domain.compliance.min_instances_for_redundancy", 2)
	v.SetDefault("domain.compliance.max_scale_down_rate_pct", 25.0)
	v.SetDefault("domain.compliance.large_scale_approval_threshold", 20)

	// Predictor defaults
	v.SetDefault("predictor.enabled", false)
	v.SetDefault("predictor.base_load", 100.0)
	v.SetDefault("predictor.units_per_instance", 25.0)

	// Backend defaults
	v.SetDefault("backend.type", "cluster")
	v.SetDefault("backend.endpoint", "http://localhost:9100")
	v.SetDefault("backend.timeout", "5m")

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.jwt_secret", "change-me-in-production")
	v.SetDefault("api.jwt_duration", "24h")
	v.SetDefault("api.jwt_issuer", "cloud-autoscaler")
	v.SetDefault("api.default_limit", 50)
	v.SetDefault("api.max_limit", 500)

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")

	// Prometheus defaults
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.port", 9090)

	// Events defaults
	v.SetDefault("events.buffer_size", 100)

	// Alerts defaults
	v.SetDefault("alerts.enabled", false)

	// Reporting defaults
	v.SetDefault("reporting.schedule", "0 6 * * *")
	v.SetDefault("reporting.decision_retention", "168h")
	v.SetDefault("reporting.event_retention", "720h")
}
