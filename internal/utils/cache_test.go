package utils

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, int]()

	assert.True(t, cache.Set("key1", 42))
	value, exists := cache.Get("key1")
	require.True(t, exists)
	assert.Equal(t, 42, value)

	_, exists = cache.Get("nonexistent")
	assert.False(t, exists)
}

func TestCache_SetNeverOverwrites(t *testing.T) {
	cache := NewCache[string, int]()

	assert.True(t, cache.Set("key1", 1))
	assert.False(t, cache.Set("key1", 2))

	value, _ := cache.Get("key1")
	assert.Equal(t, 1, value)
}

func TestCache_GetOrCompute(t *testing.T) {
	cache := NewCache[string, int]()
	calls := 0
	compute := func(key string) int {
		calls++
		return len(key)
	}

	value, cached := cache.GetOrCompute("abc", compute)
	assert.Equal(t, 3, value)
	assert.False(t, cached)

	value, cached = cache.GetOrCompute("abc", compute)
	assert.Equal(t, 3, value)
	assert.True(t, cached)
	assert.Equal(t, 1, calls)

	stats := cache.GetStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_GetOrComputeConcurrentMisses(t *testing.T) {
	cache := NewCache[string, int]()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, _ := cache.GetOrCompute("shared", func(string) int {
				calls.Add(1)
				return 7
			})
			assert.Equal(t, 7, value)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_NewCacheFrom(t *testing.T) {
	cache := NewCacheFrom(map[string]int{"a": 1, "b": 2})
	assert.Equal(t, 2, cache.Size())
	value, ok := cache.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, value)

	empty := NewCacheFrom[string, int](nil)
	assert.Equal(t, 0, empty.Size())
	assert.True(t, empty.Set("c", 3))
}
