package observability

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the process logger
type LogConfig struct {
	Level    string         `yaml:"level"`
	File     string         `yaml:"file"`
	Rotation RotationConfig `yaml:"rotation"`
}

// RotationConfig controls rotation of the log file
type RotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// DefaultLogConfig returns info level logging to stderr
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level: "info",
		Rotation: RotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a logrus logger from cfg. When cfg.File is set, output goes to
// a rotating file and the returned closer releases it.
func NewLogger(cfg LogConfig) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return log, nopCloser{}, nil
	}

	if dir := filepath.Dir(cfg.File); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.Rotation.MaxSizeMB,
		MaxBackups: cfg.Rotation.MaxBackups,
		MaxAge:     cfg.Rotation.MaxAgeDays,
		Compress:   cfg.Rotation.Compress,
	}
	log.SetOutput(writer)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	return log, writer, nil
}
