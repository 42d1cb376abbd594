// Package cache holds rendered thumbnails in memory.
package cache

import (
	"container/list"
	"strings"
	"sync"
)

// LRUCache bounds rendered images by entry count and by total bytes.
// The least recently used entry goes first when either bound is hit.
type LRUCache struct {
	capacity int
	maxSize  int64
	size     int64
	entries  map[string]*list.Element
	recency  *list.List // front is most recent
	mu       sync.Mutex
}

type entry struct {
	key  string
	data []byte
}

func NewLRUCache(capacity int, maxSize int64) *LRUCache {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUCache{
		capacity: capacity,
		maxSize:  maxSize,
		entries:  make(map[string]*list.Element),
		recency:  list.New(),
	}
}

func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.recency.MoveToFront(elem)
	return elem.Value.(*entry).data, true
}

// Set stores data under key. Data larger than the byte bound is not cached.
func (c *LRUCache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(data))
	if n > c.maxSize {
		return
	}

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		c.size += n - int64(len(e.data))
		e.data = data
		c.recency.MoveToFront(elem)
		c.shrink(0, false)
		return
	}

	c.shrink(n, true)
	c.entries[key] = c.recency.PushFront(&entry{key: key, data: data})
	c.size += n
}

// shrink evicts from the back until incoming bytes, and one more entry when
// adding, fit.
func (c *LRUCache) shrink(incoming int64, adding bool) {
	for c.recency.Len() > 0 {
		full := adding && c.recency.Len() >= c.capacity
		if !full && c.size+incoming <= c.maxSize {
			return
		}
		c.remove(c.recency.Back())
	}
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.remove(elem)
	}
}

// DeletePrefix drops every key starting with prefix and returns how many went.
func (c *LRUCache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for key, elem := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(elem)
			removed++
		}
	}
	return removed
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.recency.Init()
	c.size = 0
}

func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recency.Len()
}

// Size is the total number of cached bytes.
func (c *LRUCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRUCache) remove(elem *list.Element) {
	e := elem.Value.(*entry)
	c.recency.Remove(elem)
	delete(c.entries, e.key)
	c.size -= int64(len(e.data))
}
