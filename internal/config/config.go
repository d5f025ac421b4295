package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	WebPort        string        `mapstructure:"WEB_PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	Store          string        `mapstructure:"STORE"`
	AutoMigrate    bool          `mapstructure:"AUTO_MIGRATE"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	PasswordScheme string        `mapstructure:"PASSWORD_SCHEME"`
	ClinicTimezone string        `mapstructure:"CLINIC_TIMEZONE"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	DoctorCacheTTL time.Duration `mapstructure:"DOCTOR_CACHE_TTL"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"ENV", "PORT", "WEB_PORT", "DATABASE_URL", "STORE", "AUTO_MIGRATE",
	"JWT_SECRET", "PASSWORD_SCHEME", "CLINIC_TIMEZONE", "REDIS_URL",
	"DOCTOR_CACHE_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL",
}

// Load reads .env (if present) into the process environment and then
// resolves every key from the environment with defaults applied.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "50051")
	v.SetDefault("WEB_PORT", "8080")
	v.SetDefault("STORE", "postgres")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("PASSWORD_SCHEME", "bcrypt")
	v.SetDefault("CLINIC_TIMEZONE", "UTC")
	v.SetDefault("DOCTOR_CACHE_TTL", "10m")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("LOG_LEVEL", "info")

	// Unmarshal only sees keys viper knows about
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Store {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE must be \"postgres\" or \"memory\", got %q", c.Store)
	}
	switch c.PasswordScheme {
	case "bcrypt", "plain":
	default:
		return fmt.Errorf("PASSWORD_SCHEME must be \"bcrypt\" or \"plain\", got %q", c.PasswordScheme)
	}
	if _, err := time.LoadLocation(c.ClinicTimezone); err != nil {
		return fmt.Errorf("CLINIC_TIMEZONE: %w", err)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Location is only safe to call on a validated config.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
