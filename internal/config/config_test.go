package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":8080")
	}
	if cfg.JWTIssuer != "taskflow-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "taskflow-auth")
	}
	if cfg.JWTAudience != "taskflow-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "taskflow-api")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.PolicyEngine != PolicyEngineNative {
		t.Errorf("PolicyEngine = %q, want %q", cfg.PolicyEngine, PolicyEngineNative)
	}
	if cfg.NotificationKafkaTopic != "taskflow-notifications" {
		t.Errorf("NotificationKafkaTopic = %q, want default", cfg.NotificationKafkaTopic)
	}
	if cfg.OTelServiceName != "taskflow" {
		t.Errorf("OTelServiceName = %q, want taskflow", cfg.OTelServiceName)
	}
	if cfg.TeamDefaultMaxMembers != 50 {
		t.Errorf("TeamDefaultMaxMembers = %d, want 50", cfg.TeamDefaultMaxMembers)
	}
	if cfg.CacheTTL() != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL())
	}
	if cfg.RedisAddr != "" || cfg.KafkaBrokersList() != nil {
		t.Error("optional integrations should default to disabled")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("POLICY_ENGINE", "OPA")
	os.Setenv("REDIS_DB", "3")
	os.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	os.Setenv("TEAM_DEFAULT_MAX_MEMBERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":9090" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.PolicyEngine != PolicyEngineOPA {
		t.Errorf("PolicyEngine = %q, want %q", cfg.PolicyEngine, PolicyEngineOPA)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if !cfg.OTelInsecure {
		t.Error("OTelInsecure should be true")
	}
	if cfg.TeamDefaultMaxMembers != 8 {
		t.Errorf("TeamDefaultMaxMembers = %d, want 8", cfg.TeamDefaultMaxMembers)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown policy engine", "POLICY_ENGINE", "rego-only"},
		{"zero max members", "TEAM_DEFAULT_MAX_MEMBERS", "0"},
		{"negative max members", "TEAM_DEFAULT_MAX_MEMBERS", "-4"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("GRPC_ADDR", ":8080")
			os.Setenv(tc.key, tc.val)

			cfg, err := Load()
			if err == nil {
				t.Fatal("Load should return error")
			}
			if cfg != nil {
				t.Error("Load should return nil config on error")
			}
		})
	}
}

func TestAccessTTL(t *testing.T) {
	testCases := []struct {
		value string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"invalid", 15 * time.Minute},
		{"0", 15 * time.Minute},
		{"-5m", 15 * time.Minute},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			cfg := &Config{JWTAccessTTL: tc.value}
			if got := cfg.AccessTTL(); got != tc.want {
				t.Errorf("AccessTTL = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCacheTTL(t *testing.T) {
	if got := (&Config{PrincipalCacheTTL: "2m"}).CacheTTL(); got != 2*time.Minute {
		t.Errorf("CacheTTL = %v, want 2m", got)
	}
	if got := (&Config{PrincipalCacheTTL: "soon"}).CacheTTL(); got != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s (default)", got)
	}
}

func TestKafkaBrokersList(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "localhost:9092", []string{"localhost:9092"}},
		{"trims and skips blanks", " a:9092, ,b:9092 ", []string{"a:9092", "b:9092"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := (&Config{KafkaBrokers: tc.in}).KafkaBrokersList()
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("KafkaBrokersList = %#v, want %#v", got, tc.want)
			}
		})
	}
	var nilCfg *Config
	if nilCfg.KafkaBrokersList() != nil {
		t.Error("nil config should have no brokers")
	}
}
