// Package cache keeps fetched video information keyed by video ID.
package cache

import (
	"container/list"
	"sync"

	"github.com/awesome-arjun11/youtube-image-embed/internal/info"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

// Store maps video IDs to previously fetched information. Concurrent puts
// for the same ID are last-write-wins.
type Store interface {
	Get(id videoid.ID) (*info.VideoInfo, bool)
	Put(id videoid.ID, vi *info.VideoInfo)
}

// Memory is an unbounded store. Entries are never evicted.
type Memory struct {
	mu    sync.RWMutex
	items map[videoid.ID]*info.VideoInfo
}

func NewMemory() *Memory {
	return &Memory{items: make(map[videoid.ID]*info.VideoInfo)}
}

func (m *Memory) Get(id videoid.ID) (*info.VideoInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vi, ok := m.items[id]
	return vi, ok
}

func (m *Memory) Put(id videoid.ID, vi *info.VideoInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = vi
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

type lruEntry struct {
	id videoid.ID
	vi *info.VideoInfo
}

// LRU is a bounded store evicting the least recently used entry.
type LRU struct {
	size int

	mu    sync.Mutex
	order *list.List
	items map[videoid.ID]*list.Element
}

// NewLRU returns a store holding at most size entries. Non-positive sizes
// are treated as one.
func NewLRU(size int) *LRU {
	if size <= 0 {
		size = 1
	}
	return &LRU{
		size:  size,
		order: list.New(),
		items: make(map[videoid.ID]*list.Element),
	}
}

func (c *LRU) Get(id videoid.ID) (*info.VideoInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[id]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(e)
	return e.Value.(*lruEntry).vi, true
}

func (c *LRU) Put(id videoid.ID, vi *info.VideoInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[id]; ok {
		e.Value.(*lruEntry).vi = vi
		c.order.MoveToFront(e)
		return
	}

	c.items[id] = c.order.PushFront(&lruEntry{id: id, vi: vi})
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruEntry).id)
	}
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// New returns an unbounded store when size is not positive and an LRU
// otherwise.
func New(size int) Store {
	if size <= 0 {
		return NewMemory()
	}
	return NewLRU(size)
}
