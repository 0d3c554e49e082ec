// Package utils holds small helpers shared across packages: logger
// construction, vector math, and text formatting.
package utils

import "go.uber.org/zap"

// NewLogger builds the process-wide logger. Debug selects zap's development
// config (console encoder, debug level); otherwise the production config
// (JSON, info level) is used.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
