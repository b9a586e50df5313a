// Package logging bootstraps the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
)

var (
	// Log is the structured logger.
	Log = zap.NewNop()
	// SLog is the sugared logger for printf-style call sites.
	SLog = Log.Sugar()
)

// Init replaces the no-op loggers with a real configuration.
// env "production" selects the JSON production config, anything else
// selects the development console config.
func Init(env string) error {
	var (
		logger *zap.Logger
		err    error
	)

	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	Log = logger
	SLog = logger.Sugar()
	return nil
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = Log.Sync()
}
