// Package logging builds the process-wide logger shared by the CLI
// workflows.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a stdout text logger at the named level. Workflows derive
// component-scoped children from it via With.
func New(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// parseLevel maps a config level name to a slog level; unknown names
// mean debug so a typo never silences output.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
