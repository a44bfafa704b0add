package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/anxdpanic/addon-check/pkg/httputil"
	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/report"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Fail-on policies
const (
	FailOnProblem = "problem"
	FailOnWarning = "warning"
	FailOnNever   = "never"
)

// ConfigFileNames are searched in order by LoadConfigFromDir
var ConfigFileNames = []string{".addon-check.yaml", ".addon-check.yml", "addon-check.yaml"}

// Config holds all application configuration
type Config struct {
	Branch             string                  `yaml:"branch"`
	RepositoryDir      string                  `yaml:"repository_dir"`
	Reporters          []string                `yaml:"reporters"`
	FailOn             string                  `yaml:"fail_on"`
	Workers            int                     `yaml:"workers"`
	IgnoreDependencies []string                `yaml:"ignore_dependencies"`
	MetricsFile        string                  `yaml:"metrics_file"`
	Log                observability.LogConfig `yaml:"log"`
	Server             ServerConfig            `yaml:"server"`
	Cache              CacheConfig             `yaml:"cache"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RateLimit bounds POST check requests per client. Zero disables it.
	RateLimit httputil.RateLimitConfig `yaml:"rate_limit"`
}

// CacheConfig sizes the parsed repository cache
type CacheConfig struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Reporters: []string{"console"},
		FailOn:    FailOnProblem,
		Workers:   runtime.NumCPU(),
		Log:       observability.DefaultLogConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: httputil.RateLimitConfig{
				RequestsPerWindow: 120,
				WindowDuration:    time.Minute,
				BurstSize:         20,
			},
		},
		Cache: CacheConfig{
			Size: 16,
			TTL:  10 * time.Minute,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults,
// applies environment overrides and validates the result
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return finish(cfg)
}

// LoadConfigFromDir searches dir for a config file. Without one the defaults are used.
func LoadConfigFromDir(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}

	return finish(DefaultConfig())
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides values from ADDON_CHECK_* environment variables
func (c *Config) ApplyEnv() {
	c.Branch = getEnv("ADDON_CHECK_BRANCH", c.Branch)
	c.RepositoryDir = getEnv("ADDON_CHECK_REPO", c.RepositoryDir)
	c.Log.Level = getEnv("ADDON_CHECK_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("ADDON_CHECK_LOG_FILE", c.Log.File)
	c.Workers = getEnvInt("ADDON_CHECK_WORKERS", c.Workers)
	c.Server.Addr = getEnv("ADDON_CHECK_SERVER_ADDR", c.Server.Addr)

	if reporters := getEnv("ADDON_CHECK_REPORTERS", ""); reporters != "" {
		c.Reporters = splitList(reporters)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, _, err := ParseFailOn(c.FailOn); err != nil {
		return err
	}
	if len(c.Reporters) == 0 {
		return fmt.Errorf("%w: at least one reporter is required", ErrInvalidConfig)
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: invalid log level %q", ErrInvalidConfig, c.Log.Level)
		}
	}
	if c.Cache.Size < 1 {
		return fmt.Errorf("%w: cache size must be at least 1", ErrInvalidConfig)
	}
	if c.Server.RateLimit.RequestsPerWindow < 0 || c.Server.RateLimit.BurstSize < 0 {
		return fmt.Errorf("%w: rate limit values must not be negative", ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidConfig)
	}
	return nil
}

// FailThreshold returns the severity at which a run fails. ok is false for "never".
func (c *Config) FailThreshold() (sev report.Severity, ok bool) {
	sev, ok, _ = ParseFailOn(c.FailOn)
	return sev, ok
}

// ParseFailOn parses a fail-on policy
func ParseFailOn(raw string) (report.Severity, bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case FailOnProblem, "":
		return report.Problem, true, nil
	case FailOnWarning:
		return report.Warning, true, nil
	case FailOnNever:
		return report.Information, false, nil
	default:
		return report.Information, false, fmt.Errorf("%w: fail_on must be problem, warning or never, got %q", ErrInvalidConfig, raw)
	}
}

// SaveConfig saves configuration to a file
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
