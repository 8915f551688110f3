package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingEmitter holds every delivery until release is closed.
type blockingEmitter struct {
	release chan struct{}
	mu      sync.Mutex
	seen    []*TaskEvent
}

func (b *blockingEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = append(b.seen, event)
	return nil
}

func (b *blockingEmitter) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.seen)
}

func TestAsyncEmitterDeliversEvents(t *testing.T) {
	inner := NewInMemoryEventEmitter(discardLogger())
	handler := &MockEventHandler{}
	inner.RegisterHandler(handler)

	emitter := NewAsyncEmitter(inner, AsyncEmitterConfig{QueueSize: 10, WorkerCount: 3}, discardLogger())
	emitter.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent()))
	}

	emitter.Stop()
	assert.Equal(t, 5, handler.Count())
}

func TestAsyncEmitterQueueFull(t *testing.T) {
	inner := &blockingEmitter{release: make(chan struct{})}
	emitter := NewAsyncEmitter(inner, AsyncEmitterConfig{QueueSize: 1, WorkerCount: 1}, discardLogger())

	// Not started: the queue fills without anyone draining it.
	require.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent()))

	err := emitter.EmitEvent(context.Background(), newTestEvent())
	assert.ErrorIs(t, err, ErrQueueFull)

	close(inner.release)
	emitter.Stop()
	assert.Equal(t, 1, inner.count(), "queued event is delivered on stop")
}

func TestAsyncEmitterClosed(t *testing.T) {
	emitter := NewAsyncEmitter(NewInMemoryEventEmitter(discardLogger()), DefaultAsyncEmitterConfig(), discardLogger())
	emitter.Start()
	emitter.Stop()

	err := emitter.EmitEvent(context.Background(), newTestEvent())
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Stop and Start after close are no-ops.
	assert.NotPanics(t, emitter.Stop)
	assert.NotPanics(t, emitter.Start)
}

func TestAsyncEmitterIgnoresRequestCancellation(t *testing.T) {
	delivered := make(chan error, 1)
	inner := NewInMemoryEventEmitter(discardLogger())
	inner.RegisterHandler(EventHandlerFunc(func(ctx context.Context, event *TaskEvent) error {
		delivered <- ctx.Err()
		return nil
	}))

	emitter := NewAsyncEmitter(inner, AsyncEmitterConfig{QueueSize: 1, WorkerCount: 1}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, emitter.EmitEvent(ctx, newTestEvent()))
	cancel()

	emitter.Start()
	defer emitter.Stop()

	select {
	case err := <-delivered:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestAsyncEmitterSurvivesFailingAndPanickingHandlers(t *testing.T) {
	inner := NewInMemoryEventEmitter(discardLogger())
	calls := 0
	var mu sync.Mutex
	inner.RegisterHandler(EventHandlerFunc(func(ctx context.Context, event *TaskEvent) error {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		switch n {
		case 1:
			panic("boom")
		case 2:
			return errors.New("handler failed")
		}
		return nil
	}))

	emitter := NewAsyncEmitter(inner, AsyncEmitterConfig{QueueSize: 5, WorkerCount: 1}, discardLogger())
	emitter.Start()
	for i := 0; i < 3; i++ {
		require.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent()))
	}
	emitter.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}

func TestNewAsyncEmitterDefaults(t *testing.T) {
	assert.Panics(t, func() { NewAsyncEmitter(nil, DefaultAsyncEmitterConfig(), nil) })

	emitter := NewAsyncEmitter(NewInMemoryEventEmitter(nil), AsyncEmitterConfig{QueueSize: 1}, nil)
	assert.Equal(t, 1, emitter.workerCount)
}
