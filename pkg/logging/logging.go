// Package logging builds the logrus loggers used by the CLI and the
// reconfigure server. Defaults can be overridden from the environment.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	EnvLogLevel     = "NAVPARAMS_LOG_LEVEL"
	EnvLogFormat    = "NAVPARAMS_LOG_FORMAT"
	EnvLogTimestamp = "NAVPARAMS_LOG_TIMESTAMP"
)

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config describes a logger.
type Config struct {
	Level     logrus.Level
	Format    Format
	Timestamp bool
	Output    io.Writer
}

// DefaultConfig logs info and above as text to stderr.
func DefaultConfig() Config {
	return Config{
		Level:     logrus.InfoLevel,
		Format:    FormatText,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// FromEnv builds a logger from cfg after applying environment overrides.
func FromEnv(cfg Config) *logrus.Logger {
	ApplyEnv(&cfg)
	return New(cfg)
}

// New builds a logger from cfg as given.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(cfg.Level)
	if cfg.Output != nil {
		logger.SetOutput(cfg.Output)
	}
	switch cfg.Format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: !cfg.Timestamp})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: !cfg.Timestamp,
			FullTimestamp:    cfg.Timestamp,
		})
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// ApplyEnv overrides cfg from NAVPARAMS_LOG_* variables. Invalid values are
// ignored.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if format, ok := parseFormat(os.Getenv(EnvLogFormat)); ok {
		cfg.Format = format
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
}

// ParseLevel accepts logrus level names plus a few aliases.
func ParseLevel(raw string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return logrus.InfoLevel, false
	case "off", "none", "disabled":
		return logrus.PanicLevel, true
	case "warning":
		return logrus.WarnLevel, true
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		return logrus.InfoLevel, false
	}
	return lvl, true
}

func parseFormat(raw string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatText:
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	}
	return "", false
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
