package migrate

import (
	"fmt"
	"log/slog"
	"strings"
)

// GooseLogger routes goose output through slog.
type GooseLogger struct {
	logger *slog.Logger
}

// NewGooseLogger wraps logger for use with goose.SetLogger.
func NewGooseLogger(logger *slog.Logger) *GooseLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &GooseLogger{logger: logger}
}

// Printf implements goose.Logger.
func (l *GooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("source", "goose"))
}

// Fatalf implements goose.Logger. It logs at error level and does not exit;
// goose reports the failure through its returned error.
func (l *GooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("source", "goose"))
}
