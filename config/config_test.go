package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver: got %q, want sqlite", cfg.Database.Driver)
	}
	if !cfg.Rules.CreditCeiling.Equal(decimal.NewFromInt(500)) {
		t.Errorf("CreditCeiling: got %s, want 500", cfg.Rules.CreditCeiling)
	}
	if cfg.Rules.PerPersonRation != 100 {
		t.Errorf("PerPersonRation: got %d, want 100", cfg.Rules.PerPersonRation)
	}
	if cfg.Rules.DefaultAllowance["Maize"] != 50 {
		t.Errorf("DefaultAllowance[Maize]: got %d, want 50", cfg.Rules.DefaultAllowance["Maize"])
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CREDIT_CEILING", "750.50")
	t.Setenv("LOCK_TIMEOUT", "250ms")
	t.Setenv("RATION_DEFAULT_ALLOWANCE", "beans=10, rice=5")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg := LoadEnv()

	if !cfg.Rules.CreditCeiling.Equal(decimal.RequireFromString("750.50")) {
		t.Errorf("CreditCeiling: got %s", cfg.Rules.CreditCeiling)
	}
	if cfg.Lock.Timeout != 250*time.Millisecond {
		t.Errorf("Lock.Timeout: got %s", cfg.Lock.Timeout)
	}
	if len(cfg.Rules.DefaultAllowance) != 2 || cfg.Rules.DefaultAllowance["rice"] != 5 {
		t.Errorf("DefaultAllowance: got %v", cfg.Rules.DefaultAllowance)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Brokers: got %v", cfg.Kafka.Brokers)
	}
}

func TestGetEnvQuotasMalformedFallsBack(t *testing.T) {
	fallback := map[string]int64{"Beans": 25}
	for _, raw := range []string{"beans", "beans=x", "=4", "beans=-1"} {
		t.Setenv("QUOTAS_UNDER_TEST", raw)
		got := getEnvQuotas("QUOTAS_UNDER_TEST", fallback)
		if len(got) != 1 || got["Beans"] != 25 {
			t.Errorf("%q: expected fallback, got %v", raw, got)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"unknown lock backend", func(c *Config) { c.Lock.Backend = "etcd" }},
		{"redis lock without redis", func(c *Config) { c.Lock.Backend = "redis"; c.Redis.Enabled = false }},
		{"zero lock timeout", func(c *Config) { c.Lock.Timeout = 0 }},
		{"zero ceiling", func(c *Config) { c.Rules.CreditCeiling = decimal.Zero }},
		{"zero per-person ration", func(c *Config) { c.Rules.PerPersonRation = 0 }},
		{"fraction above one", func(c *Config) { c.Rules.MinSaleFraction = decimal.NewFromInt(2) }},
		{"negative retries", func(c *Config) { c.Engine.MaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadEnv()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
