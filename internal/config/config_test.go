package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "50051" || cfg.WebPort != "8080" {
		t.Errorf("ports: got %s/%s", cfg.Port, cfg.WebPort)
	}
	if cfg.Store != "postgres" {
		t.Errorf("store: got %s", cfg.Store)
	}
	if !cfg.AutoMigrate {
		t.Error("expected AUTO_MIGRATE default true")
	}
	if cfg.PasswordScheme != "bcrypt" {
		t.Errorf("password scheme: got %s", cfg.PasswordScheme)
	}
	if cfg.DoctorCacheTTL != 10*time.Minute {
		t.Errorf("cache ttl: got %v", cfg.DoctorCacheTTL)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit: got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("location: got %v", cfg.Location())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE", "memory")
	t.Setenv("PASSWORD_SCHEME", "plain")
	t.Setenv("CLINIC_TIMEZONE", "Europe/Berlin")
	t.Setenv("DOCTOR_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != "memory" || cfg.PasswordScheme != "plain" {
		t.Errorf("got store=%s scheme=%s", cfg.Store, cfg.PasswordScheme)
	}
	if cfg.DoctorCacheTTL != 30*time.Second {
		t.Errorf("cache ttl: got %v", cfg.DoctorCacheTTL)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Errorf("location: got %v", cfg.Location())
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			JWTSecret:      "s",
			Store:          "postgres",
			DatabaseURL:    "postgres://x",
			PasswordScheme: "bcrypt",
			ClinicTimezone: "UTC",
			RateLimitRPS:   1,
			RateLimitBurst: 1,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }},
		{"unknown store", func(c *Config) { c.Store = "mongo" }},
		{"unknown password scheme", func(c *Config) { c.PasswordScheme = "md5" }},
		{"bad timezone", func(c *Config) { c.ClinicTimezone = "Mars/Olympus" }},
		{"zero rate", func(c *Config) { c.RateLimitRPS = 0 }},
	}

	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	mem := base()
	mem.Store = "memory"
	mem.DatabaseURL = ""
	if err := mem.Validate(); err != nil {
		t.Errorf("memory store needs no database url: %v", err)
	}
}
