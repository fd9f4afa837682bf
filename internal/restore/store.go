// Package restore keeps the "was previously connected" hint between process
// runs. The wallet session never persists anything itself; the host reads the
// hint at startup, passes it to Session.Restore, and records later changes
// through a Tracker.
package restore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"landchain/internal/wallet"
)

// Store holds one boolean per console key.
type Store interface {
	WasConnected(ctx context.Context, key string) (bool, error)
	SetConnected(ctx context.Context, key string, connected bool) error
}

// InMemoryStore is the default when no Redis is configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	hints map[string]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{hints: make(map[string]bool)}
}

func (s *InMemoryStore) WasConnected(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hints[key], nil
}

func (s *InMemoryStore) SetConnected(_ context.Context, key string, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if connected {
		s.hints[key] = true
	} else {
		delete(s.hints, key)
	}
	return nil
}

const writeTimeout = 2 * time.Second

// Tracker mirrors the session's connected flag into a Store. Observe never
// blocks; Run performs the writes, and only the latest value is kept when
// writes fall behind.
type Tracker struct {
	store  Store
	key    string
	logger *slog.Logger
	latest chan bool

	mu   sync.Mutex
	last bool
}

// NewTracker starts from the hint the host already read, so nothing is
// written until the connected flag differs from it.
func NewTracker(store Store, key string, initial bool, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, key: key, last: initial, logger: logger, latest: make(chan bool, 1)}
}

// Observe queues snap's connected flag. Pass it to Session.Watch.
func (t *Tracker) Observe(snap wallet.Snapshot) {
	if snap.Status == wallet.StatusConnecting {
		return
	}
	for {
		select {
		case t.latest <- snap.IsConnected:
			return
		default:
		}
		select {
		case <-t.latest:
		default:
		}
	}
}

// Run writes queued changes until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case connected := <-t.latest:
			t.write(ctx, connected)
		}
	}
}

func (t *Tracker) write(ctx context.Context, connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if connected == t.last {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := t.store.SetConnected(writeCtx, t.key, connected); err != nil {
		t.logger.WarnContext(ctx, "failed to persist wallet restore hint",
			"key", t.key,
			"connected", connected,
			"error", err,
		)
		return
	}
	t.last = connected
}
