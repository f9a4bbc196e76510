package config

import (
	"fmt"
	"time"
)

// Config is the root configuration tree, loaded by Load and validated by
// Validate before any collaborator is constructed. Mirrors the source's
// own App/Database/Collector split, generalized to the trading-autoscaler
// domain per spec.md §6.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Collector CollectorConfig `mapstructure:"collector"`
	Scaling   ScalingConfig   `mapstructure:"scaling"`
	Domain    DomainConfig    `mapstructure:"domain"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Backend   BackendConfig   `mapstructure:"backend"`
	API       APIConfig       `mapstructure:"api"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Events    EventsConfig    `mapstructure:"events"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Reporting ReportingConfig `mapstructure:"reporting"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode,
	)
}

// CollectorConfig configures the C1 metric source adapter.
type CollectorConfig struct {
	Type           string               `mapstructure:"type"`
	Endpoint       string               `mapstructure:"endpoint"`
	Interval       time.Duration        `mapstructure:"interval"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	RetryAttempts  int                  `mapstructure:"retry_attempts"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ScalingRuleConfig is the declarative, config-file shape of a
// models.ScalingRule, per spec.md §6's `scaling.rules` (ordered sequence).
type ScalingRuleConfig struct {
	ID             string                    `mapstructure:"id"`
	Name           string                    `mapstructure:"name"`
	Enabled        bool                      `mapstructure:"enabled"`
	Priority       int                       `mapstructure:"priority"`
	TargetServices []string                  `mapstructure:"target_services"`
	Conditions     []ScalingConditionConfig  `mapstructure:"conditions"`
	Action         ScalingActionConfig       `mapstructure:"action"`
}

type ScalingConditionConfig struct {
	MetricPath      string  `mapstructure:"metric_path"`
	Comparison      string  `mapstructure:"comparison"`
	Threshold       float64 `mapstructure:"threshold"`
	DurationSeconds float64 `mapstructure:"duration_seconds"`
}

type ScalingActionConfig struct {
	Kind             string  `mapstructure:"kind"`
	AbsoluteTarget   int     `mapstructure:"absolute_target"`
	Delta            int     `mapstructure:"delta"`
	PercentDelta     float64 `mapstructure:"percent_delta"`
	GracefulShutdown bool    `mapstructure:"graceful_shutdown"`
}

// ScalingConfig is spec.md §6's `scaling.*` configuration surface: the
// master kill switch, the backend provider selection, the rule set, and
// the global instance-count/cooldown limits.
type ScalingConfig struct {
	Enabled  bool                `mapstructure:"enabled"`
	Provider string              `mapstructure:"provider"`
	Rules    []ScalingRuleConfig `mapstructure:"rules"`
	Limits   GlobalLimitsConfig  `mapstructure:"limits"`
}

type GlobalLimitsConfig struct {
	MinInstances       int           `mapstructure:"min_instances"`
	MaxInstances       int           `mapstructure:"max_instances"`
	ScaleUpCooldown    time.Duration `mapstructure:"scale_up_cooldown"`
	ScaleDownCooldown  time.Duration `mapstructure:"scale_down_cooldown"`
}

// DomainConfig carries the trading-specific policy inputs applied by C5.
type DomainConfig struct {
	MarketHoursStart string              `mapstructure:"market_hours_start"`
	MarketHoursEnd   string              `mapstructure:"market_hours_end"`
	Patterns         TradingPatternsConfig `mapstructure:"patterns"`
	Compliance       ComplianceConfigValues `mapstructure:"compliance"`
}

type TradingPatternsConfig struct {
	OpeningBellMultiplier float64 `mapstructure:"opening_bell_multiplier"`
	ClosingBellMultiplier float64 `mapstructure:"closing_bell_multiplier"`
	LunchMultiplier       float64 `mapstructure:"lunch_multiplier"`
	MonthEndMultiplier    float64 `mapstructure:"month_end_multiplier"`
	QuarterEndMultiplier  float64 `mapstructure:"quarter_end_multiplier"`
}

type ComplianceConfigValues struct {
	MinInstancesForRedundancy   int     `mapstructure:"min_instances_for_redundancy"`
	MaxScaleDownRatePct         float64 `mapstructure:"max_scale_down_rate_pct"`
	LargeScaleApprovalThreshold int     `mapstructure:"large_scale_approval_threshold"`
}

// PredictorConfig tunes C10, per DESIGN.md Open Question 4: BaseLoad and
// UnitsPerInstance are configurable rather than hard-coded.
type PredictorConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	BaseLoad         float64 `mapstructure:"base_load"`
	UnitsPerInstance float64 `mapstructure:"units_per_instance"`
}

// BackendConfig selects and tunes the C8 backend driver.
type BackendConfig struct {
	Type     string        `mapstructure:"type"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type APIConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimit      int           `mapstructure:"rate_limit"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTDuration    time.Duration `mapstructure:"jwt_duration"`
	JWTIssuer      string        `mapstructure:"jwt_issuer"`
	CookieName     string        `mapstructure:"cookie_name"`
	CookieMaxAge   int           `mapstructure:"cookie_max_age"`
	CookiePath     string        `mapstructure:"cookie_path"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	CookieHTTPOnly bool          `mapstructure:"cookie_http_only"`
	DefaultLimit   int           `mapstructure:"default_limit"`
	MaxLimit       int           `mapstructure:"max_limit"`
	CORS           CORSConfig    `mapstructure:"cors"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// AlertsConfig is opaque sink configuration per spec.md §6 — the core only
// needs to know whether alerting is enabled; delivery is external.
type AlertsConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Sink     string            `mapstructure:"sink"`
	SinkOpts map[string]string `mapstructure:"sink_opts"`
}

// ReportingConfig configures the scheduled report task.
type ReportingConfig struct {
	Schedule           string        `mapstructure:"schedule"`
	DecisionRetention  time.Duration `mapstructure:"decision_retention"`
	EventRetention     time.Duration `mapstructure:"event_retention"`
}
