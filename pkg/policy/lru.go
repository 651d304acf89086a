package policy

// lru.go adapts the list+map LRU shape shown across the retrieval pack (e.g.
// a container/list-backed LRUCache with a map[K]*list.Element index and
// front-is-most-recent ordering) to a byte-budget, not count-budget, cache:
// eviction runs until the resident byte sum fits, rather than until the
// entry count fits. No locking here — a Cache instance is exclusively owned
// by one MINISIM worker for its lifetime (spec.md §5), so the concurrency
// safety those reference implementations provide is unneeded.

import (
	"container/list"

	"github.com/voskan/mrcsim/pkg/trace"
)

type lruEntry struct {
	objID uint64
	size  uint64
}

// LRU is a byte-budgeted least-recently-used Cache.
type LRU struct {
	capacity uint64
	occupied uint64
	items    map[uint64]*list.Element
	order    *list.List // front = most recently used, back = least
}

// NewLRU builds an empty LRU cache with the given byte budget.
func NewLRU(capacityBytes uint64) *LRU {
	return &LRU{
		capacity: capacityBytes,
		items:    make(map[uint64]*list.Element),
		order:    list.New(),
	}
}

// Access implements Cache.
func (c *LRU) Access(req trace.Request) bool {
	if el, ok := c.items[req.ObjID]; ok {
		c.order.MoveToFront(el)
		return true
	}

	for c.occupied+req.ObjSize > c.capacity && c.order.Len() > 0 {
		c.evictOldest()
	}
	if req.ObjSize > c.capacity {
		return false // object larger than the whole budget is never admitted
	}

	el := c.order.PushFront(lruEntry{objID: req.ObjID, size: req.ObjSize})
	c.items[req.ObjID] = el
	c.occupied += req.ObjSize
	return false
}

func (c *LRU) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	ent := back.Value.(lruEntry)
	c.order.Remove(back)
	delete(c.items, ent.objID)
	c.occupied -= ent.size
}

// CapacityBytes implements Cache.
func (c *LRU) CapacityBytes() uint64 { return c.capacity }

// OccupiedBytes implements Cache.
func (c *LRU) OccupiedBytes() uint64 { return c.occupied }
