package stacktree

import "testing"

func TestInsertDistanceBasic(t *testing.T) {
	tr := New()
	tr.Insert(1, 10)
	tr.Insert(2, 20)
	tr.Insert(3, 30)

	if got := tr.Distance(2); got != 50 {
		t.Fatalf("Distance(2) = %d, want 50", got)
	}
	if got := tr.Distance(1); got != 60 {
		t.Fatalf("Distance(1) = %d, want 60", got)
	}
	if got := tr.Distance(4); got != 0 {
		t.Fatalf("Distance(4) = %d, want 0", got)
	}
}

func TestInsertOverwrite(t *testing.T) {
	tr := New()
	tr.Insert(5, 100)
	tr.Insert(5, 42)
	if tr.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", tr.Size())
	}
	if got := tr.Distance(5); got != 42 {
		t.Fatalf("Distance(5) = %d, want 42", got)
	}
}

func TestEraseRestoresPriorState(t *testing.T) {
	tr := New()
	tr.Insert(1, 1)
	tr.Insert(2, 2)
	tr.Insert(3, 3)

	before := tr.Distance(0)
	tr.Insert(4, 4)
	tr.Erase(4)
	after := tr.Distance(0)

	if before != after {
		t.Fatalf("erase did not restore prior sum: before=%d after=%d", before, after)
	}
	if tr.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", tr.Size())
	}
}

func TestWeightConservation(t *testing.T) {
	tr := New()
	inserted := int64(0)
	for i := uint64(1); i <= 200; i++ {
		tr.Insert(i, int64(i))
		inserted += int64(i)
	}
	erased := int64(0)
	for i := uint64(1); i <= 100; i++ {
		erased += int64(i)
		tr.Erase(i)
	}
	if got := tr.Distance(0); got != inserted-erased {
		t.Fatalf("root sum = %d, want %d", got, inserted-erased)
	}
	if tr.Size() != 100 {
		t.Fatalf("Size() = %d, want 100", tr.Size())
	}
}

func TestClearEmpty(t *testing.T) {
	tr := New()
	if !tr.Empty() {
		t.Fatal("new tree should be empty")
	}
	tr.Insert(1, 1)
	if tr.Empty() {
		t.Fatal("tree with one entry should not be empty")
	}
	tr.Clear()
	if !tr.Empty() || tr.Size() != 0 {
		t.Fatal("Clear() did not reset tree")
	}
	if tr.Distance(0) != 0 {
		t.Fatal("Distance on empty tree should be 0")
	}
}

func TestDistanceRandomizedAgainstBruteForce(t *testing.T) {
	tr := New()
	ref := map[uint64]int64{}

	ops := []struct {
		key    uint64
		weight int64
		erase  bool
	}{
		{10, 5, false}, {20, 7, false}, {5, 3, false}, {15, 9, false},
		{20, 11, false}, {10, 0, true}, {25, 2, false}, {5, 0, true},
		{30, 4, false}, {15, 0, true},
	}

	for _, op := range ops {
		if op.erase {
			tr.Erase(op.key)
			delete(ref, op.key)
			continue
		}
		tr.Insert(op.key, op.weight)
		ref[op.key] = op.weight
	}

	for _, k := range []uint64{0, 6, 11, 16, 21, 26, 31} {
		var want int64
		for rk, w := range ref {
			if rk >= k {
				want += w
			}
		}
		if got := tr.Distance(k); got != want {
			t.Fatalf("Distance(%d) = %d, want %d", k, got, want)
		}
	}
}
