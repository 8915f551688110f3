package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by AsyncEmitter.EmitEvent
var (
	ErrQueueClosed = errors.New("event queue is closed")
	ErrQueueFull   = errors.New("event queue is full")
)

// AsyncEmitterConfig sizes the queue and worker pool.
type AsyncEmitterConfig struct {
	// QueueSize is the number of events that may wait for delivery.
	QueueSize int
	// WorkerCount is the number of goroutines delivering events.
	// If zero or negative, defaults to 1.
	WorkerCount int
}

// DefaultAsyncEmitterConfig returns an AsyncEmitterConfig with reasonable defaults
func DefaultAsyncEmitterConfig() AsyncEmitterConfig {
	return AsyncEmitterConfig{
		QueueSize:   100,
		WorkerCount: 2,
	}
}

type queuedEvent struct {
	ctx   context.Context
	event *TaskEvent
}

// AsyncEmitter enqueues events and delivers them to next from a pool of
// workers. EmitEvent never blocks: a full or closed queue is reported as an
// error and the event is dropped.
type AsyncEmitter struct {
	next        EventEmitter
	queue       chan queuedEvent
	workerCount int
	logger      *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// Ensure AsyncEmitter implements EventEmitter
var _ EventEmitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter creates an emitter delivering to next. Call Start to launch
// the workers and Stop to drain and shut them down.
func NewAsyncEmitter(next EventEmitter, config AsyncEmitterConfig, logger *slog.Logger) *AsyncEmitter {
	if next == nil {
		panic("next emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "async_event_emitter")

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		workerCount = 1
	}
	queueSize := config.QueueSize
	if queueSize < 0 {
		queueSize = 0
	}

	return &AsyncEmitter{
		next:        next,
		queue:       make(chan queuedEvent, queueSize),
		workerCount: workerCount,
		logger:      logger,
	}
}

// Start launches the worker goroutines. Calling Start more than once has no effect.
func (e *AsyncEmitter) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started || e.closed {
		return
	}
	e.started = true

	for i := 0; i < e.workerCount; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}

	e.logger.Info("event workers started", "worker_count", e.workerCount)
}

// EmitEvent implements EventEmitter by enqueueing the event.
// The request context's values (such as the logger) travel with the event,
// but its cancellation does not.
func (e *AsyncEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrQueueClosed
	}

	select {
	case e.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		e.logger.Debug("event enqueued",
			"event_id", event.ID,
			"event_type", event.Type,
			"queue_len", len(e.queue),
			"queue_cap", cap(e.queue))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(e.queue))
	}
}

// Stop closes the queue and waits until the workers have delivered every
// event already enqueued.
func (e *AsyncEmitter) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	started := e.started
	e.mu.Unlock()

	if !started {
		e.drain()
	}
	e.wg.Wait()
	e.logger.Info("event workers stopped")
}

func (e *AsyncEmitter) worker(id int) {
	defer e.wg.Done()

	for item := range e.queue {
		e.deliver(id, item)
	}
}

// drain delivers leftovers when Stop is called on an emitter that never started.
func (e *AsyncEmitter) drain() {
	for item := range e.queue {
		e.deliver(-1, item)
	}
}

func (e *AsyncEmitter) deliver(workerID int, item queuedEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event handler panicked",
				"worker_id", workerID,
				"event_id", item.event.ID,
				"panic", r)
		}
	}()

	if err := e.next.EmitEvent(item.ctx, item.event); err != nil {
		e.logger.Error("failed to deliver event",
			"worker_id", workerID,
			"event_id", item.event.ID,
			"event_type", item.event.Type,
			"error", err)
	}
}
