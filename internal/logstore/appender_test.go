package logstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncAppender(t *testing.T) {
	t.Run("submitted entries are written", func(t *testing.T) {
		store, _ := setupTestStore(t)
		appender := NewAsyncAppender(store, 10)

		appender.Submit(&Entry{Level: LevelInfo, Message: "first", RequestID: "req-a"})
		appender.Submit(&Entry{Level: LevelInfo, Message: "second", RequestID: "req-a"})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, appender.Shutdown(ctx))

		entries, err := store.Query(context.Background(), Filter{RequestID: "req-a"})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("submit after shutdown is a no-op", func(t *testing.T) {
		store, _ := setupTestStore(t)
		appender := NewAsyncAppender(store, 10)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, appender.Shutdown(ctx))

		// Must not panic or block.
		appender.Submit(&Entry{Level: LevelInfo, Message: "late", RequestID: "req-late"})

		entries, err := store.Query(context.Background(), Filter{RequestID: "req-late"})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("shutdown twice is safe", func(t *testing.T) {
		store, _ := setupTestStore(t)
		appender := NewAsyncAppender(store, 10)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, appender.Shutdown(ctx))
		require.NoError(t, appender.Shutdown(ctx))
	})

	t.Run("append is synchronous", func(t *testing.T) {
		store, mr := setupTestStore(t)
		appender := NewAsyncAppender(store, 10)

		require.NoError(t, appender.Append(context.Background(), &Entry{
			Level:   LevelInfo,
			Message: "request received",
		}))

		// Visible immediately, without waiting for the worker.
		items, err := mr.List("logs:info")
		require.NoError(t, err)
		assert.Len(t, items, 1)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, appender.Shutdown(ctx))
	})
}
