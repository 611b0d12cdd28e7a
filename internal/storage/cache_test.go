package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_GetSet(t *testing.T) {
	cache := NewLRUCache(2, time.Minute)

	cache.Set("a", 1)
	value, found := cache.Get("a")
	assert.True(t, found)
	assert.Equal(t, 1, value)

	_, found = cache.Get("missing")
	assert.False(t, found)
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache(2, time.Minute)

	cache.Set("a", 1)
	cache.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	cache.Get("a")
	cache.Set("c", 3)

	_, found := cache.Get("b")
	assert.False(t, found)
	_, found = cache.Get("a")
	assert.True(t, found)
	assert.Equal(t, 2, cache.Len())
}

func TestLRUCache_Expiration(t *testing.T) {
	cache := NewLRUCache(10, 10*time.Millisecond)

	cache.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	_, found := cache.Get("a")
	assert.False(t, found)
}

func TestLRUCache_CleanupExpired(t *testing.T) {
	cache := NewLRUCache(10, 10*time.Millisecond)

	cache.Set("a", 1)
	cache.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	cache.Set("c", 3)

	removed := cache.CleanupExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, cache.Len())
}

func TestLRUCache_DeleteAndClear(t *testing.T) {
	cache := NewLRUCache(10, time.Minute)

	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Delete("a")
	_, found := cache.Get("a")
	assert.False(t, found)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}
