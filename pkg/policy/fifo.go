package policy

// fifo.go mirrors lru.go's list+map shape, differing only in that Access
// never reorders on a hit — admission order, not access recency, decides
// eviction order.

import (
	"container/list"

	"github.com/voskan/mrcsim/pkg/trace"
)

type fifoEntry struct {
	objID uint64
	size  uint64
}

// FIFO is a byte-budgeted first-in-first-out Cache.
type FIFO struct {
	capacity uint64
	occupied uint64
	items    map[uint64]*list.Element
	order    *list.List // front = newest admission, back = oldest
}

// NewFIFO builds an empty FIFO cache with the given byte budget.
func NewFIFO(capacityBytes uint64) *FIFO {
	return &FIFO{
		capacity: capacityBytes,
		items:    make(map[uint64]*list.Element),
		order:    list.New(),
	}
}

// Access implements Cache.
func (c *FIFO) Access(req trace.Request) bool {
	if _, ok := c.items[req.ObjID]; ok {
		return true
	}

	for c.occupied+req.ObjSize > c.capacity && c.order.Len() > 0 {
		c.evictOldest()
	}
	if req.ObjSize > c.capacity {
		return false
	}

	el := c.order.PushFront(fifoEntry{objID: req.ObjID, size: req.ObjSize})
	c.items[req.ObjID] = el
	c.occupied += req.ObjSize
	return false
}

func (c *FIFO) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	ent := back.Value.(fifoEntry)
	c.order.Remove(back)
	delete(c.items, ent.objID)
	c.occupied -= ent.size
}

// CapacityBytes implements Cache.
func (c *FIFO) CapacityBytes() uint64 { return c.capacity }

// OccupiedBytes implements Cache.
func (c *FIFO) OccupiedBytes() uint64 { return c.occupied }
