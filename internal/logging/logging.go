// Package logging builds the zap logger shared by the CLI and the HTTP API.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wchung1209/climbing-log/internal/model"
)

// Formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New creates a zap logger writing to stderr. The console format uses the
// development encoder; anything else gets production JSON.
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == FormatConsole {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// LogRejected reports climbs that were excluded from aggregation.
func LogRejected(logger *zap.Logger, rejected []model.Rejected) {
	for _, r := range rejected {
		logger.Warn("skipping malformed climb",
			zap.String("id", r.Climb.ID),
			zap.String("date", r.Climb.Date),
			zap.Error(r.Err),
		)
	}
}
