package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// AuditLogHandler writes one structured log line per task event.
type AuditLogHandler struct {
	logger *slog.Logger
}

// Ensure AuditLogHandler implements EventHandler
var _ EventHandler = (*AuditLogHandler)(nil)

// NewAuditLogHandler creates a handler logging to logger, or the default logger if nil.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogHandler{logger: logger.With("component", "audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	log.Info("task lifecycle event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.Int64("task_id", event.TaskID),
		slog.Int64("user_id", event.UserID),
		slog.String("status", string(event.Status)),
		slog.Time("occurred_at", event.OccurredAt))
	return nil
}
