package audit

import (
	"context"
	"log/slog"
)

// AsyncStore queues events for a Worker so a slow sink never delays the
// operation being audited. When the queue is full the event is dropped and
// Append reports ErrQueueFull.
type AsyncStore struct {
	queue chan Event
}

// ErrQueueFull is returned by AsyncStore.Append when the worker is behind.
var ErrQueueFull = errQueueFull{}

type errQueueFull struct{}

func (errQueueFull) Error() string { return "audit queue full" }

func NewAsyncStore(size int) *AsyncStore {
	return &AsyncStore{queue: make(chan Event, size)}
}

func (s *AsyncStore) Append(_ context.Context, event Event) error {
	select {
	case s.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Inbox is the channel a Worker drains.
func (s *AsyncStore) Inbox() <-chan Event {
	return s.queue
}

// Worker consumes audit events from a channel and persists them.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run persists events until ctx is done. A failed append is logged and the
// worker moves on.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit append failed",
					"event", event.Action,
					"error", err,
				)
			}
		}
	}
}
