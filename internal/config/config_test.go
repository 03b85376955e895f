package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	for _, key := range []string{
		"DEFAULT_SHIFT_START", "DEFAULT_SHIFT_END", "TIMEZONE", "TAX_RATE",
		"STANDARD_MONTHLY_MINUTES", "POLICY_FILE", "DB_MAX_CONNS", "DB_MIN_CONNS",
	} {
		t.Setenv(key, "")
	}
}

func requireConfigError(t *testing.T, err error, key string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConfig)
	var cfgErr *apperror.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, key, cfgErr.Key)
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 5*time.Second, cfg.Notification.FlushInterval)

	defaults, err := cfg.Policy.ScheduleDefaults()
	require.NoError(t, err)
	assert.Equal(t, "09:00", defaults.Start.String())
	assert.Equal(t, "17:00", defaults.End.String())
	assert.Equal(t, time.UTC, defaults.Location)

	policy, err := cfg.Policy.PayrollPolicy()
	require.NoError(t, err)
	assert.True(t, policy.TaxRate.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, int64(9600), policy.StandardMonthlyMinutes)
}

func TestFromEnv_RequiredFields(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestFromEnv_MalformedPolicy(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"tax rate not a number", "TAX_RATE", "ten percent"},
		{"tax rate out of range", "TAX_RATE", "1.2"},
		{"negative tax rate", "TAX_RATE", "-0.1"},
		{"zero monthly minutes", "STANDARD_MONTHLY_MINUTES", "0"},
		{"bad start", "DEFAULT_SHIFT_START", "9am"},
		{"single digit hour", "DEFAULT_SHIFT_START", "9:00"},
		{"unknown zone", "TIMEZONE", "Mars/Olympus_Mons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			requireConfigError(t, err, tt.key)
		})
	}
}

func TestFromEnv_ShiftEndBeforeStart(t *testing.T) {
	setRequired(t)
	t.Setenv("DEFAULT_SHIFT_START", "17:00")
	t.Setenv("DEFAULT_SHIFT_END", "09:00")

	_, err := FromEnv()
	requireConfigError(t, err, "DEFAULT_SHIFT_END")
}

func TestFromEnv_PolicyFileOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TAX_RATE", "0.05")
	t.Setenv("DEFAULT_SHIFT_START", "07:30")

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_shift_start: "08:00"
timezone: Asia/Jakarta
standard_monthly_minutes: 10560
`), 0o600))
	t.Setenv("POLICY_FILE", path)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "08:00", cfg.Policy.DefaultShiftStart)
	assert.Equal(t, "17:00", cfg.Policy.DefaultShiftEnd)
	assert.Equal(t, "0.05", cfg.Policy.TaxRate, "fields absent from the file keep their env value")
	assert.Equal(t, int64(10560), cfg.Policy.StandardMonthlyMinutes)

	loc, err := cfg.Policy.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestFromEnv_PolicyFileErrors(t *testing.T) {
	setRequired(t)
	t.Setenv("POLICY_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := FromEnv()
	requireConfigError(t, err, "POLICY_FILE")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tax_rate: [0.1"), 0o600))
	t.Setenv("POLICY_FILE", path)
	_, err = FromEnv()
	requireConfigError(t, err, "POLICY_FILE")
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		c := Config{App: AppConfig{LogLevel: in}}
		assert.Equal(t, want, c.SlogLevel(), in)
	}
}

func TestConfig_DatabaseURL(t *testing.T) {
	c := Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5433, Name: "payroll", SSLMode: "disable"}}
	assert.Equal(t, "postgres://u:p@db:5433/payroll?sslmode=disable", c.DatabaseURL())
}
