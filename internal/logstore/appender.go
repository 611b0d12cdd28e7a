package logstore

import (
	"context"
	"sync"
	"time"

	"github.com/radekzitek/crudelty/internal/utils"
)

// AsyncAppender decouples log writes from the request path. Entries are
// submitted to a bounded in-process queue and written by a background
// worker; no result is awaited and write errors are discarded after
// local logging. When the queue is full, entries are dropped.
type AsyncAppender struct {
	store  *Store
	ch     chan *Entry
	logger *utils.Logger

	mu          sync.RWMutex
	closed      bool
	stoppedChan chan struct{}
}

// NewAsyncAppender creates an appender and starts its worker goroutine.
func NewAsyncAppender(store *Store, bufferSize int) *AsyncAppender {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	a := &AsyncAppender{
		store:       store,
		ch:          make(chan *Entry, bufferSize),
		logger:      utils.NewLogger("logstore"),
		stoppedChan: make(chan struct{}),
	}
	go a.run()
	return a
}

// Append writes an entry synchronously. Used where ordering relative to
// the caller matters (the request-received entry goes through here).
func (a *AsyncAppender) Append(ctx context.Context, entry *Entry) error {
	return a.store.Append(ctx, entry)
}

// Submit hands an entry to the background worker without blocking.
// Entries submitted after Shutdown, or while the queue is full, are
// dropped.
func (a *AsyncAppender) Submit(entry *Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}

	select {
	case a.ch <- entry:
	default:
		a.logger.Warn("Log queue full, dropping entry", "level", entry.Level)
	}
}

// Shutdown stops accepting entries and waits for pending writes to
// drain, or for the context to expire.
func (a *AsyncAppender) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.ch)
	}
	a.mu.Unlock()

	select {
	case <-a.stoppedChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AsyncAppender) run() {
	defer close(a.stoppedChan)

	for entry := range a.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.store.Append(ctx, entry); err != nil {
			a.logger.Debug("Failed to append log entry", "error", err)
		}
		cancel()
	}
}
