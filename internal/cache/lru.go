package cache

import (
	"sync"
	"time"
)

// LRUCache bounds memory with size-based eviction and bounds staleness
// with a per-entry TTL. Expired entries are dropped lazily on Get and
// in bulk by CleanExpired.
type LRUCache[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*entry[T]

	// Intrusive recency list: head is most recently used, tail is the
	// eviction candidate.
	head, tail *entry[T]
}

type entry[T any] struct {
	key        string
	value      T
	deadline   time.Time
	prev, next *entry[T]
}

// NewLRUCache creates a cache holding at most capacity entries, each
// valid for ttl after it was set.
func NewLRUCache[T any](capacity int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*entry[T]),
	}
}

// Get returns the cached value for key if it exists and has not
// expired, marking it as most recently used.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.deadline) {
		c.remove(e)
		return zero, false
	}

	c.moveToFront(e)
	return e.value, true
}

// Set stores value under key, restarting its TTL. The least recently
// used entry is evicted when the cache is full.
func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.ttl)

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.deadline = deadline
		c.moveToFront(e)
		return
	}

	e := &entry[T]{key: key, value: value, deadline: deadline}
	c.entries[key] = e
	c.pushFront(e)

	if len(c.entries) > c.capacity && c.tail != nil {
		c.remove(c.tail)
	}
}

// Delete removes key from the cache. Deleting a missing key is a no-op.
func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.remove(e)
	}
}

// CleanExpired drops every expired entry and reports how many were
// removed.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for e := c.head; e != nil; {
		next := e.next
		if now.After(e.deadline) {
			c.remove(e)
			removed++
		}
		e = next
	}
	return removed
}

// Size returns the current number of entries.
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache[T]) pushFront(e *entry[T]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRUCache[T]) unlink(e *entry[T]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (c *LRUCache[T]) moveToFront(e *entry[T]) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *LRUCache[T]) remove(e *entry[T]) {
	c.unlink(e)
	delete(c.entries, e.key)
}
