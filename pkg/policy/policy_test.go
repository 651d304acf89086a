package policy

import (
	"testing"

	"github.com/voskan/mrcsim/pkg/trace"
)

func req(objID, size uint64) trace.Request {
	return trace.Request{ObjID: objID, ObjSize: size}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(20)
	c.Access(req(1, 10))
	c.Access(req(2, 10))
	c.Access(req(1, 10)) // touch 1, so 2 is now the LRU victim

	if hit := c.Access(req(3, 10)); hit {
		t.Fatalf("expected miss on first access of object 3")
	}
	if _, ok := c.items[2]; ok {
		t.Fatalf("expected object 2 to be evicted, object 1 retained")
	}
	if _, ok := c.items[1]; !ok {
		t.Fatalf("expected object 1 to survive (recently touched)")
	}
}

func TestFIFOEvictsInsertionOrderRegardlessOfAccess(t *testing.T) {
	c := NewFIFO(20)
	c.Access(req(1, 10))
	c.Access(req(2, 10))
	c.Access(req(1, 10)) // touching 1 must not change its eviction order

	c.Access(req(3, 10))
	if _, ok := c.items[1]; ok {
		t.Fatalf("expected object 1 (oldest admission) to be evicted despite recent touch")
	}
	if _, ok := c.items[2]; !ok {
		t.Fatalf("expected object 2 to survive")
	}
}

func TestAccessReportsHitOnSecondTouch(t *testing.T) {
	c := NewLRU(100)
	if hit := c.Access(req(1, 10)); hit {
		t.Fatalf("first access must be a miss")
	}
	if hit := c.Access(req(1, 10)); !hit {
		t.Fatalf("second access of the same object must be a hit")
	}
}

func TestOversizedObjectNeverAdmitted(t *testing.T) {
	c := NewLRU(10)
	c.Access(req(1, 100))
	if c.OccupiedBytes() != 0 {
		t.Fatalf("oversized object must not occupy budget, got %d", c.OccupiedBytes())
	}
}

func TestOccupiedBytesTracksEvictions(t *testing.T) {
	c := NewFIFO(10)
	c.Access(req(1, 10))
	if got := c.OccupiedBytes(); got != 10 {
		t.Fatalf("OccupiedBytes = %d, want 10", got)
	}
	c.Access(req(2, 10)) // forces eviction of object 1
	if got := c.OccupiedBytes(); got != 10 {
		t.Fatalf("OccupiedBytes after eviction = %d, want 10", got)
	}
}

func TestRegistryResolvesKnownPolicies(t *testing.T) {
	reg := Registry()
	for _, name := range []string{"lru", "fifo"} {
		factory, ok := reg[name]
		if !ok {
			t.Fatalf("registry missing policy %q", name)
		}
		if c := factory(1024); c == nil {
			t.Fatalf("factory for %q returned nil", name)
		}
	}
}
