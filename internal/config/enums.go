package config

import (
	"log/slog"

	"git.home.luguber.info/inful/ion/internal/foundation/normalization"
)

// ErrorPolicy decides what a render pass does when a directory fails.
type ErrorPolicy string

const (
	// PolicyFailFast aborts the pass on the first failing directory.
	PolicyFailFast ErrorPolicy = "fail-fast"
	// PolicyContinue skips failing directories and reports them at the end.
	PolicyContinue ErrorPolicy = "continue"
)

var errorPolicyNormalizer = normalization.NewNormalizer("on_error", map[string]ErrorPolicy{
	"fail-fast": PolicyFailFast,
	"continue":  PolicyContinue,
}, PolicyFailFast)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log_level", map[string]LogLevel{
	"debug": LogLevelDebug,
	"info":  LogLevelInfo,
	"warn":  LogLevelWarn,
	"error": LogLevelError,
}, LogLevelInfo)

// Slog maps the level onto slog.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer("log_format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)
