package logger

import (
	"log/slog"
	"os"
)

// NewTestLogger creates a quiet logger for tests.
// BEATSCOPE_TEST_LOG_LEVEL raises verbosity (e.g. "debug") when a test needs tracing.
func NewTestLogger() *slog.Logger {
	return NewLogger(Config{
		Level:  ParseLevel(os.Getenv("BEATSCOPE_TEST_LOG_LEVEL"), slog.LevelWarn),
		Format: "text",
		Output: os.Stderr,
	})
}
