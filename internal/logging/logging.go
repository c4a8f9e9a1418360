// Package logging builds the process logger. Output is silent unless the
// level is debug.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a debug-level development logger writing to stderr when level
// is "debug" (case-insensitive), and a no-op logger otherwise.
func New(level string) (*zap.Logger, error) {
	if !strings.EqualFold(strings.TrimSpace(level), "debug") {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return cfg.Build()
}
