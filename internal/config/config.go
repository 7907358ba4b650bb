// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Policy engines selectable via POLICY_ENGINE.
const (
	PolicyEngineNative = "native"
	PolicyEngineOPA    = "opa"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTPublicKey is the PEM-encoded public key or path to file used to verify access tokens.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTPrivateKey is only needed by cmd/seed to mint development tokens.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	JWTIssuer     string `mapstructure:"JWT_ISSUER"`
	JWTAudience   string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// Env is the application environment (e.g. "development", "production").
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// PolicyEngine selects the task authorization evaluator: "native" or "opa".
	PolicyEngine string `mapstructure:"POLICY_ENGINE"`

	// Principal cache (optional). Empty RedisAddr disables caching.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	PrincipalCacheTTL string `mapstructure:"PRINCIPAL_CACHE_TTL"`

	// Notifications (optional). When Kafka brokers are set, membership events are published to Kafka.
	// KafkaBrokers is a comma-separated list of broker addresses (e.g. "localhost:9092").
	KafkaBrokers           string `mapstructure:"KAFKA_BROKERS"`
	NotificationKafkaTopic string `mapstructure:"NOTIFICATION_KAFKA_TOPIC"`
	// Worker-only: consumer group and Loki push target.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	LokiURL      string `mapstructure:"LOKI_URL"`

	// OTLP export. Empty endpoint disables traces, metrics and OTel logs.
	OTelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure    bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OTelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// TeamDefaultMaxMembers caps team size for teams created without an explicit limit.
	TeamDefaultMaxMembers int `mapstructure:"TEAM_DEFAULT_MAX_MEMBERS"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_ISSUER", "taskflow-auth")
	v.SetDefault("JWT_AUDIENCE", "taskflow-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POLICY_ENGINE", PolicyEngineNative)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRINCIPAL_CACHE_TTL", "30s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("NOTIFICATION_KAFKA_TOPIC", "taskflow-notifications")
	v.SetDefault("KAFKA_GROUP_ID", "taskflow-notification-worker")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "taskflow")
	v.SetDefault("TEAM_DEFAULT_MAX_MEMBERS", 50)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}
	cfg.PolicyEngine = strings.ToLower(strings.TrimSpace(cfg.PolicyEngine))
	switch cfg.PolicyEngine {
	case PolicyEngineNative, PolicyEngineOPA:
	default:
		return nil, fmt.Errorf("config: POLICY_ENGINE must be %q or %q, got %q", PolicyEngineNative, PolicyEngineOPA, cfg.PolicyEngine)
	}
	if cfg.TeamDefaultMaxMembers <= 0 {
		return nil, errors.New("config: TEAM_DEFAULT_MAX_MEMBERS must be positive")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// CacheTTL parses PrincipalCacheTTL. Returns 30s if unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.PrincipalCacheTTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// An empty list means notifications are not published to Kafka.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
