package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.AllowedOrigins)
	assert.Equal(t, 3, cfg.Approval.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Approval.RetryBackoff)
	assert.True(t, cfg.Reconciliation.Enabled)
	assert.Equal(t, 4*time.Hour, cfg.Reconciliation.StaleGrace)

	shift, err := cfg.Shift.WorkShift()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, shift.Length())
}

func TestLoad_YAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`database:
  driver: sqlite
  sqlite_path: /tmp/attendance.db
shift:
  start: "22:00"
  end: "06:00"
  timezone: Asia/Jakarta
approval:
  max_attempts: 5
  retry_backoff: 10ms
reconciliation:
  stale_grace: 2h
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/attendance.db", cfg.Database.SQLitePath)
	assert.Equal(t, 5, cfg.Approval.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Approval.RetryBackoff)
	assert.Equal(t, 2*time.Hour, cfg.Reconciliation.StaleGrace)
	assert.Equal(t, time.Hour, cfg.Reconciliation.Interval, "keys missing from the file keep their env value")

	shift, err := cfg.Shift.WorkShift()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, shift.Length())
	assert.Equal(t, "Asia/Jakarta", shift.Location.String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database:       DatabaseConfig{Driver: DriverPostgres, Password: "pw"},
			JWT:            JWTConfig{Secret: "secret", AccessExpiration: "1h"},
			Shift:          ShiftConfig{Start: "08:00", End: "16:00", Timezone: "UTC"},
			Approval:       ApprovalConfig{MaxAttempts: 3},
			Reconciliation: ReconciliationConfig{Enabled: true, Interval: time.Hour},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }},
		{"bad access expiration", func(c *Config) { c.JWT.AccessExpiration = "soon" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without password", func(c *Config) { c.Database.Password = "" }},
		{"bad shift start", func(c *Config) { c.Shift.Start = "8am" }},
		{"unknown timezone", func(c *Config) { c.Shift.Timezone = "Mars/Olympus" }},
		{"zero attempts", func(c *Config) { c.Approval.MaxAttempts = 0 }},
		{"zero interval", func(c *Config) { c.Reconciliation.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
