package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Increment(t *testing.T) {
	store := NewMemoryStore()
	reset := time.Now().Add(time.Minute)

	t.Run("counts within the window", func(t *testing.T) {
		c1, _ := store.Increment("key", reset)
		c2, _ := store.Increment("key", reset)
		assert.Equal(t, 1, c1)
		assert.Equal(t, 2, c2)
	})

	t.Run("keys are independent", func(t *testing.T) {
		c, _ := store.Increment("other", reset)
		assert.Equal(t, 1, c)
	})

	t.Run("expired window restarts the count", func(t *testing.T) {
		past := time.Now().Add(-time.Second)
		store.Increment("stale", past)
		c, _ := store.Increment("stale", time.Now().Add(time.Minute))
		assert.Equal(t, 1, c)
	})

	t.Run("reset clears the key", func(t *testing.T) {
		store.Reset("key")
		c, _ := store.Increment("key", reset)
		assert.Equal(t, 1, c)
	})
}
