package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache(4, 1024)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", []byte("alpha"))
	data, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("alpha"), data)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(5), c.Size())
}

func TestLRUCache_EvictsByCapacity(t *testing.T) {
	c := NewLRUCache(2, 1024)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Get("a") // b is now least recent
	c.Set("c", []byte("3"))

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRUCache_EvictsBySize(t *testing.T) {
	c := NewLRUCache(10, 10)

	c.Set("a", []byte("aaaa"))
	c.Set("b", []byte("bbbb"))
	c.Set("c", []byte("cccc"))

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(8), c.Size())
}

func TestLRUCache_SkipsOversized(t *testing.T) {
	c := NewLRUCache(10, 4)

	c.Set("big", []byte("too large"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Size())
}

func TestLRUCache_UpdateKeepsSizeInBounds(t *testing.T) {
	c := NewLRUCache(10, 10)

	c.Set("a", []byte("aaaa"))
	c.Set("b", []byte("bbbb"))
	c.Set("b", []byte("bbbbbbbb"))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(8), c.Size())
	data, ok := c.Get("b")
	require.True(t, ok)
	assert.Len(t, data, 8)
}

func TestLRUCache_DeletePrefix(t *testing.T) {
	c := NewLRUCache(10, 1024)

	c.Set("m1_96x96", []byte("x"))
	c.Set("m1_512x384", []byte("xy"))
	c.Set("m2_96x96", []byte("z"))

	assert.Equal(t, 2, c.DeletePrefix("m1_"))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(1), c.Size())

	_, ok := c.Get("m2_96x96")
	assert.True(t, ok)
}

func TestLRUCache_DeleteAndClear(t *testing.T) {
	c := NewLRUCache(10, 1024)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Delete("a")
	c.Delete("missing")
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Size())
}
