package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Session storage drivers.
const (
	DriverGorm   = "gorm"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Login attempts allowed per client IP and minute, with a burst.
	LoginRatePerMin float64 `yaml:"login_rate_per_min"`
	LoginBurst      int     `yaml:"login_burst"`
	// Mounted page state is dropped after this many idle minutes.
	PageTTLMinutes int `yaml:"page_ttl_minutes"`
}

// BackendConfig points the dashboard at the REST API.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
	HTTPProxy      string        `yaml:"http_proxy"`
	// The backend health endpoint is polled at this interval.
	HealthIntervalSeconds int           `yaml:"health_interval_seconds"`
	HealthInterval        time.Duration `yaml:"-"`
}

// SessionConfig selects where sessions are persisted and how the cookie
// looks.
type SessionConfig struct {
	Driver            string `yaml:"driver"`
	KeyPrefix         string `yaml:"key_prefix"`
	CookieName        string `yaml:"cookie_name"`
	CookieSecure      bool   `yaml:"cookie_secure"`
	CookieMaxAgeHours int    `yaml:"cookie_max_age_hours"`
	IdleMinutes       int    `yaml:"idle_minutes"`
}

// DatabaseConfig holds the database connection configuration. A DSN starting
// with "postgres://", "postgresql://" or containing "host=" selects Postgres;
// anything else is opened with SQLite.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// RedisConfig holds the Redis connection used by the redis session driver.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Load reads the configuration from the given path and applies environment
// overrides and defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides selected settings from the environment.
func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DASHBOARD_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DASHBOARD_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	strs := []struct {
		env string
		dst *string
	}{
		{"BACKEND_BASE_URL", &cfg.Backend.BaseURL},
		{"DATABASE_DSN", &cfg.Database.DSN},
		{"REDIS_ADDR", &cfg.Redis.Addr},
		{"REDIS_PASSWORD", &cfg.Redis.Password},
		{"SESSION_DRIVER", &cfg.Session.Driver},
	}
	for _, s := range strs {
		if v, ok := lookup(s.env); ok && v != "" {
			*s.dst = v
		}
	}
	return nil
}

func (cfg *Config) setDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LoginRatePerMin <= 0 {
		cfg.Server.LoginRatePerMin = 10
	}
	if cfg.Server.LoginBurst <= 0 {
		cfg.Server.LoginBurst = 5
	}
	if cfg.Server.PageTTLMinutes <= 0 {
		cfg.Server.PageTTLMinutes = 30
	}

	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 15
	}
	cfg.Backend.Timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	if cfg.Backend.HealthIntervalSeconds <= 0 {
		cfg.Backend.HealthIntervalSeconds = 30
	}
	cfg.Backend.HealthInterval = time.Duration(cfg.Backend.HealthIntervalSeconds) * time.Second

	cfg.Session.Driver = strings.ToLower(strings.TrimSpace(cfg.Session.Driver))
	switch cfg.Session.Driver {
	case "":
		log.Printf("session.driver is not set; defaulting to %s", DriverGorm)
		cfg.Session.Driver = DriverGorm
	case DriverGorm, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown session.driver %q (want %s, %s or %s)", cfg.Session.Driver, DriverGorm, DriverRedis, DriverMemory)
	}
	if cfg.Session.CookieMaxAgeHours <= 0 {
		cfg.Session.CookieMaxAgeHours = 24 * 7
	}
	if cfg.Session.IdleMinutes <= 0 {
		cfg.Session.IdleMinutes = 60
	}

	if cfg.Session.Driver == DriverGorm && cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:dashboard.db"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Session.Driver == DriverRedis && cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "dashboard"
	}
	return nil
}
