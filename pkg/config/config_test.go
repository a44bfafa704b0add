package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxdpanic/addon-check/pkg/report"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"console"}, cfg.Reporters)
	assert.Equal(t, FailOnProblem, cfg.FailOn)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".addon-check.yaml")
	content := `branch: leia
repository_dir: /srv/repo
reporters: [console, json]
fail_on: warning
workers: 4
ignore_dependencies:
  - script.module.custom
log:
  level: debug
server:
  read_timeout: 5s
  rate_limit:
    requests_per_window: 30
    window: 30s
cache:
  ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "leia", cfg.Branch)
	assert.Equal(t, "/srv/repo", cfg.RepositoryDir)
	assert.Equal(t, []string{"console", "json"}, cfg.Reporters)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"script.module.custom"}, cfg.IgnoreDependencies)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset values keep defaults")
	assert.Equal(t, 30, cfg.Server.RateLimit.RequestsPerWindow)
	assert.Equal(t, 30*time.Second, cfg.Server.RateLimit.WindowDuration)
	assert.Equal(t, 20, cfg.Server.RateLimit.BurstSize, "unset values keep defaults")
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 16, cfg.Cache.Size)

	sev, ok := cfg.FailThreshold()
	assert.True(t, ok)
	assert.Equal(t, report.Warning, sev)

	fromDir, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, fromDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("/nonexistent/.addon-check.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [oops"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("fail_on: sometimes"), 0644))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigFromDir_Default(t *testing.T) {
	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"console"}, cfg.Reporters)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ADDON_CHECK_BRANCH", "matrix")
	t.Setenv("ADDON_CHECK_REPO", "/tmp/repo")
	t.Setenv("ADDON_CHECK_LOG_LEVEL", "warn")
	t.Setenv("ADDON_CHECK_LOG_FILE", "/tmp/addon-check.log")
	t.Setenv("ADDON_CHECK_WORKERS", "3")
	t.Setenv("ADDON_CHECK_REPORTERS", "json, github,")
	t.Setenv("ADDON_CHECK_SERVER_ADDR", ":9090")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "matrix", cfg.Branch)
	assert.Equal(t, "/tmp/repo", cfg.RepositoryDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/addon-check.log", cfg.Log.File)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []string{"json", "github"}, cfg.Reporters)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestApplyEnv_InvalidIntKeepsValue(t *testing.T) {
	t.Setenv("ADDON_CHECK_WORKERS", "many")
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.ApplyEnv()
	assert.Equal(t, 2, cfg.Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }},
		{name: "bad fail_on", modify: func(c *Config) { c.FailOn = "always" }},
		{name: "no reporters", modify: func(c *Config) { c.Reporters = nil }},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "chatty" }},
		{name: "zero cache", modify: func(c *Config) { c.Cache.Size = 0 }},
		{name: "no server addr", modify: func(c *Config) { c.Server.Addr = "" }},
		{name: "negative rate limit", modify: func(c *Config) { c.Server.RateLimit.BurstSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestParseFailOn(t *testing.T) {
	tests := []struct {
		raw     string
		want    report.Severity
		wantOK  bool
		wantErr bool
	}{
		{raw: "problem", want: report.Problem, wantOK: true},
		{raw: "", want: report.Problem, wantOK: true},
		{raw: "Warning", want: report.Warning, wantOK: true},
		{raw: "never", want: report.Information, wantOK: false},
		{raw: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sev, ok, err := ParseFailOn(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sev)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addon-check.yaml")
	cfg := DefaultConfig()
	cfg.Branch = "krypton"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "krypton", loaded.Branch)
	assert.Equal(t, cfg.Server, loaded.Server)
}
