package events

import (
	"context"
	"testing"

	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogHandler(t *testing.T) {
	buf, log := logger.NewTestLogger(t)
	handler := NewAuditLogHandler(log)

	event := newTestEvent()
	require.NoError(t, handler.HandleEvent(context.Background(), event))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "task lifecycle event", entry["msg"])
	assert.Equal(t, "audit", entry["component"])
	assert.Equal(t, event.ID.String(), entry["event_id"])
	assert.Equal(t, "task.created", entry["event_type"])
	assert.Equal(t, float64(1), entry["task_id"])
	assert.Equal(t, "OPEN", entry["status"])
}

func TestAuditLogHandlerPrefersContextLogger(t *testing.T) {
	_, fallback := logger.NewTestLogger(t)
	buf, scoped := logger.NewTestLogger(t)

	handler := NewAuditLogHandler(fallback)
	ctx := logger.WithLogger(context.Background(), scoped.With("trace_id", "abc"))

	require.NoError(t, handler.HandleEvent(ctx, newTestEvent()))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
}
