package schedule

import (
	"fmt"
	"sync"
	"testing"
)

func TestLedgerBasics(t *testing.T) {
	l := NewLedger()

	if !l.CanAssign("j1", 1) {
		t.Fatal("empty ledger should allow a first assignment")
	}
	l.Assign("j1", "e1")
	if l.CanAssign("j1", 1) {
		t.Fatal("cap 1 should be full after one assignment")
	}
	if l.Count("j1") != 1 {
		t.Fatalf("count: want 1, got %d", l.Count("j1"))
	}

	// Re-assigning the same event is idempotent.
	l.Assign("j1", "e1")
	if l.Count("j1") != 1 {
		t.Fatalf("duplicate assign changed count: %d", l.Count("j1"))
	}

	l.Unassign("j1", "e1")
	if l.Count("j1") != 0 {
		t.Fatalf("count after unassign: %d", l.Count("j1"))
	}
	// Unassigning an absent pair is a no-op.
	l.Unassign("j1", "e1")
	l.Unassign("ghost", "e1")
}

func TestLedgerConcurrent(t *testing.T) {
	l := NewLedger()

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(gid int) {
			defer wg.Done()
			judge := fmt.Sprintf("j%d", gid%4)
			for n := 0; n < 200; n++ {
				ev := fmt.Sprintf("e%d", n%8)
				if n%2 == 0 {
					l.Assign(judge, ev)
				} else {
					l.Unassign(judge, ev)
				}
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < 4; g++ {
		judge := fmt.Sprintf("j%d", g)
		if c := l.Count(judge); c < 0 || c > 8 {
			t.Fatalf("count out of range for %s: %d", judge, c)
		}
	}
}
