package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App            AppConfig            `yaml:"app"`
	Database       DatabaseConfig       `yaml:"database"`
	JWT            JWTConfig            `yaml:"jwt"`
	Shift          ShiftConfig          `yaml:"shift"`
	Approval       ApprovalConfig       `yaml:"approval"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string   `yaml:"name"`
	Version        string   `yaml:"version"`
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"`
	LogLevel       string   `yaml:"log_level"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"ssl_mode"`
	MaxConns   int32  `yaml:"max_conns"`
	SQLitePath string `yaml:"sqlite_path"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `yaml:"secret"`
	AccessExpiration string `yaml:"access_expiration"`
}

// ShiftConfig is the working window every employee is measured against.
type ShiftConfig struct {
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Timezone string `yaml:"timezone"`
}

// ApprovalConfig bounds retries of approve/revoke on concurrent balance updates.
type ApprovalConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

type ReconciliationConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Interval   time.Duration `yaml:"interval"`
	StaleGrace time.Duration `yaml:"stale_grace"`
}

// Load reads .env (when present), the environment, and finally the YAML file
// named by CONFIG_PATH. Keys present in the YAML file win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if path := getEnv("CONFIG_PATH", ""); path != "" {
		if err := config.overlay(path); err != nil {
			return nil, err
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func fromEnv() (*Config, error) {
	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hris-attendance"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", DriverPostgres),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "hris_attendance"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		MaxConns:   int32(dbMaxConns),
		SQLitePath: getEnv("SQLITE_PATH", "hris-attendance.db"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Shift = ShiftConfig{
		Start:    getEnv("SHIFT_START", "08:00"),
		End:      getEnv("SHIFT_END", "16:00"),
		Timezone: getEnv("SHIFT_TIMEZONE", "UTC"),
	}

	maxAttempts, err := strconv.Atoi(getEnv("APPROVAL_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid APPROVAL_MAX_ATTEMPTS: %w", err)
	}
	retryBackoff, err := time.ParseDuration(getEnv("APPROVAL_RETRY_BACKOFF", "50ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid APPROVAL_RETRY_BACKOFF: %w", err)
	}

	config.Approval = ApprovalConfig{
		MaxAttempts:  maxAttempts,
		RetryBackoff: retryBackoff,
	}

	enabled, err := strconv.ParseBool(getEnv("RECONCILIATION_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILIATION_ENABLED: %w", err)
	}
	interval, err := time.ParseDuration(getEnv("RECONCILIATION_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILIATION_INTERVAL: %w", err)
	}
	staleGrace, err := time.ParseDuration(getEnv("STALE_SESSION_GRACE", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_SESSION_GRACE: %w", err)
	}

	config.Reconciliation = ReconciliationConfig{
		Enabled:    enabled,
		Interval:   interval,
		StaleGrace: staleGrace,
	}

	return config, nil
}

func (c *Config) overlay(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if _, err := c.Shift.WorkShift(); err != nil {
		return err
	}

	if c.Approval.MaxAttempts < 1 {
		return fmt.Errorf("APPROVAL_MAX_ATTEMPTS must be at least 1")
	}
	if c.Reconciliation.Enabled && c.Reconciliation.Interval <= 0 {
		return fmt.Errorf("RECONCILIATION_INTERVAL must be positive")
	}
	if c.Reconciliation.StaleGrace < 0 {
		return fmt.Errorf("STALE_SESSION_GRACE must not be negative")
	}
	return nil
}

// WorkShift parses the configured shift.
func (s ShiftConfig) WorkShift() (worktime.Shift, error) {
	start, err := worktime.ParseTimeOfDay(s.Start)
	if err != nil {
		return worktime.Shift{}, fmt.Errorf("shift start: %w", err)
	}
	end, err := worktime.ParseTimeOfDay(s.End)
	if err != nil {
		return worktime.Shift{}, fmt.Errorf("shift end: %w", err)
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return worktime.Shift{}, fmt.Errorf("shift timezone: %w", err)
	}
	return worktime.Shift{Start: start, End: end, Location: loc}, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
