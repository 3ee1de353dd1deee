package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "CONFIG_PATH", "STORAGE_BACKEND", "DATA_DIR", "APP_TIMEZONE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "resources/data", cfg.Storage.DataDir)
	assert.Equal(t, "alumnos.csv", cfg.Storage.StudentsResource)
	assert.Equal(t, "cursos.csv", cfg.Storage.CoursesResource)
	assert.Equal(t, "matriculas.csv", cfg.Storage.EnrollmentsResource)
	assert.Equal(t, 5, cfg.Storage.ConnectAttempts)
	assert.Equal(t, 10*time.Second, cfg.Storage.BreakerCoolDown)
	assert.NotNil(t, cfg.Location())
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: redis\nredis:\n  port: 6380\n"), 0o644))
	unsetenv(t, "STORAGE_BACKEND", "REDIS_PORT", "APP_TIMEZONE")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestValidate(t *testing.T) {
	base := Config{Storage: StorageConfig{
		Backend:             BackendFile,
		DataDir:             "data",
		StudentsResource:    "a.csv",
		CoursesResource:     "b.csv",
		EnrollmentsResource: "c.csv",
	}}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "s3" }, wantErr: "STORAGE_BACKEND"},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Backend = BackendPostgres }, wantErr: "DATABASE_URL"},
		{name: "daily job time", mutate: func(c *Config) { c.Scheduler.CompleteEnrollmentsAt = "00:05" }},
		{name: "bad daily job time", mutate: func(c *Config) { c.Scheduler.CompleteEnrollmentsAt = "5am" }, wantErr: "COMPLETE_ENROLLMENTS_AT"},
		{name: "job interval", mutate: func(c *Config) { c.Scheduler.CompleteEnrollmentsEvery = time.Hour }},
		{name: "negative job interval", mutate: func(c *Config) { c.Scheduler.CompleteEnrollmentsEvery = -time.Hour }, wantErr: "COMPLETE_ENROLLMENTS_EVERY"},
		{name: "daily time and interval", mutate: func(c *Config) {
			c.Scheduler.CompleteEnrollmentsAt = "00:05"
			c.Scheduler.CompleteEnrollmentsEvery = time.Hour
		}, wantErr: "only one of"},
		{name: "duplicate resources", mutate: func(c *Config) { c.Storage.CoursesResource = "a.csv" }, wantErr: "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
