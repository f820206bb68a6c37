package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// entry is one cached response with its expiration.
type entry struct {
	key        string
	value      []byte
	expiration int64
}

// Memory is a thread-safe in-process LRU cache with TTL, bounded by item
// count and total payload size.
type Memory struct {
	maxItems     int
	items        map[string]*list.Element
	evictList    *list.List
	mu           sync.Mutex
	janitor      *janitor
	sizeBytes    int64
	maxSizeBytes int64
}

// MemoryConfig holds memory cache options.
type MemoryConfig struct {
	MaxItems        int
	MaxSizeBytes    int64
	CleanupInterval time.Duration
}

// DefaultMemoryConfig creates a default memory cache configuration.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		MaxItems:        1000,
		MaxSizeBytes:    50 * 1024 * 1024, // 50MB
		CleanupInterval: time.Minute,
	}
}

// NewMemory creates a memory cache with the given configuration and starts
// its background cleanup.
func NewMemory(config MemoryConfig) *Memory {
	if config.MaxItems <= 0 {
		config.MaxItems = DefaultMemoryConfig().MaxItems
	}
	if config.MaxSizeBytes <= 0 {
		config.MaxSizeBytes = DefaultMemoryConfig().MaxSizeBytes
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultMemoryConfig().CleanupInterval
	}

	c := &Memory{
		maxItems:     config.MaxItems,
		items:        make(map[string]*list.Element, config.MaxItems),
		evictList:    list.New(),
		maxSizeBytes: config.MaxSizeBytes,
	}

	c.janitor = &janitor{
		interval: config.CleanupInterval,
		stop:     make(chan struct{}),
	}
	go c.janitor.run(c)

	return c
}

// Set adds a value with the given TTL, evicting the least recently used
// entries when the count or size bound would be exceeded.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		c.removeElement(element)
	}

	size := int64(len(key) + len(value))
	for c.sizeBytes+size > c.maxSizeBytes && c.evictList.Len() > 0 {
		c.evictOldest()
	}
	for c.evictList.Len() >= c.maxItems {
		c.evictOldest()
	}

	e := &entry{
		key:        key,
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
	element := c.evictList.PushFront(e)
	c.items[key] = element
	c.sizeBytes += size
}

// Get retrieves a value, expiring it on access when its TTL has passed.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, found := c.items[key]
	if !found {
		return nil, false
	}

	e := element.Value.(*entry)
	if e.expiration < time.Now().UnixNano() {
		c.removeElement(element)
		return nil, false
	}

	c.evictList.MoveToFront(element)
	return e.value, true
}

// Delete removes a key, reporting whether it was present.
func (c *Memory) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, found := c.items[key]
	if !found {
		return false
	}
	c.removeElement(element)
	return true
}

// Len returns the number of cached entries.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Size returns the tracked payload size of the cache in bytes.
func (c *Memory) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sizeBytes
}

// Close stops the janitor.
func (c *Memory) Close() {
	close(c.janitor.stop)
}

func (c *Memory) removeElement(element *list.Element) {
	c.evictList.Remove(element)
	e := element.Value.(*entry)
	delete(c.items, e.key)
	c.sizeBytes -= int64(len(e.key) + len(e.value))
}

func (c *Memory) evictOldest() {
	if element := c.evictList.Back(); element != nil {
		c.removeElement(element)
	}
}

func (c *Memory) deleteExpired() {
	now := time.Now().UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, element := range c.items {
		if element.Value.(*entry).expiration < now {
			c.removeElement(element)
		}
	}
}

// janitor removes expired entries at regular intervals.
type janitor struct {
	interval time.Duration
	stop     chan struct{}
}

func (j *janitor) run(c *Memory) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-j.stop:
			return
		}
	}
}
