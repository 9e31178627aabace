package schedule

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestClaimLifecycle(t *testing.T) {
	r := newTestRegistry(t)
	ev := r.Create(fields(time.Now().Add(time.Hour)))
	judge := UserRef{ID: "j1", Name: "Judge One"}

	if err := r.BeginClaim(ev.ID, judge.ID, 3); err != nil {
		t.Fatal(err)
	}
	// Second begin while the first is in flight.
	if err := r.BeginClaim(ev.ID, "j2", 3); err != ErrClaimBusy {
		t.Fatalf("want ErrClaimBusy, got %v", err)
	}
	if err := r.CommitClaim(ev.ID, judge, 3); err != nil {
		t.Fatal(err)
	}

	got, _ := r.Get(ev.ID)
	if got.Judge == nil || got.Judge.ID != judge.ID {
		t.Fatalf("judge not bound: %+v", got.Judge)
	}
	if r.Ledger().Count(judge.ID) != 1 {
		t.Fatalf("ledger count: want 1, got %d", r.Ledger().Count(judge.ID))
	}
	// Claims after the binding fail fast.
	if err := r.BeginClaim(ev.ID, "j2", 3); err != ErrTaken {
		t.Fatalf("want ErrTaken, got %v", err)
	}
}

func TestAbortClaimReopens(t *testing.T) {
	r := newTestRegistry(t)
	ev := r.Create(fields(time.Now().Add(time.Hour)))

	if err := r.BeginClaim(ev.ID, "j1", 3); err != nil {
		t.Fatal(err)
	}
	r.AbortClaim(ev.ID)

	if err := r.BeginClaim(ev.ID, "j2", 3); err != nil {
		t.Fatalf("claim after abort: %v", err)
	}
	// Abort on a non-claiming event must not disturb it.
	r.AbortClaim("event_missing")
}

func TestAbortAfterCommitIsNoop(t *testing.T) {
	r := newTestRegistry(t)
	ev := r.Create(fields(time.Now().Add(time.Hour)))
	judge := UserRef{ID: "j1", Name: "J"}

	if err := r.BeginClaim(ev.ID, judge.ID, 3); err != nil {
		t.Fatal(err)
	}
	if err := r.CommitClaim(ev.ID, judge, 3); err != nil {
		t.Fatal(err)
	}
	// The handler defers AbortClaim unconditionally; a committed event must
	// stay taken.
	r.AbortClaim(ev.ID)

	if err := r.BeginClaim(ev.ID, "j2", 3); err != ErrTaken {
		t.Fatalf("want ErrTaken after abort-post-commit, got %v", err)
	}
}

func TestClaimCapEnforced(t *testing.T) {
	r := newTestRegistry(t)
	judge := UserRef{ID: "busy", Name: "Busy"}

	for i := 0; i < 3; i++ {
		ev := r.Create(fields(time.Now().Add(time.Hour)))
		if err := r.BeginClaim(ev.ID, judge.ID, 3); err != nil {
			t.Fatal(err)
		}
		if err := r.CommitClaim(ev.ID, judge, 3); err != nil {
			t.Fatal(err)
		}
	}

	extra := r.Create(fields(time.Now().Add(time.Hour)))
	if err := r.BeginClaim(extra.ID, judge.ID, 3); err != ErrOverCap {
		t.Fatalf("want ErrOverCap, got %v", err)
	}

	// Releasing one schedule frees capacity again.
	first := r.List()[0]
	if _, err := r.Delete(first.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.BeginClaim(extra.ID, judge.ID, 3); err != nil {
		t.Fatalf("claim after freeing capacity: %v", err)
	}
}

func TestCommitRevalidatesCap(t *testing.T) {
	r := newTestRegistry(t)
	judge := UserRef{ID: "j1", Name: "J"}

	evA := r.Create(fields(time.Now().Add(time.Hour)))
	evB := r.Create(fields(time.Now().Add(time.Hour)))

	// Both begins pass with cap 1 because neither has committed yet; the
	// second commit must then fail its re-check.
	if err := r.BeginClaim(evA.ID, judge.ID, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.BeginClaim(evB.ID, judge.ID, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.CommitClaim(evA.ID, judge, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.CommitClaim(evB.ID, judge, 1); err != ErrOverCap {
		t.Fatalf("want ErrOverCap on commit re-check, got %v", err)
	}

	// The failed commit must have dropped evB back to open.
	if err := r.BeginClaim(evB.ID, "j2", 1); err != nil {
		t.Fatalf("evB not reopened after failed commit: %v", err)
	}
}

func TestClaimDeletedEvent(t *testing.T) {
	r := newTestRegistry(t)
	ev := r.Create(fields(time.Now().Add(time.Hour)))

	if err := r.BeginClaim(ev.ID, "j1", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Delete(ev.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.CommitClaim(ev.ID, UserRef{ID: "j1", Name: "J"}, 3); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if r.Ledger().Count("j1") != 0 {
		t.Fatal("ledger polluted by failed commit")
	}
}

func TestConcurrentClaimsExactlyOneWinner(t *testing.T) {
	r := newTestRegistry(t)
	ev := r.Create(fields(time.Now().Add(time.Hour)))

	const judges = 32
	var wg sync.WaitGroup
	wins := make(chan string, judges)

	for g := 0; g < judges; g++ {
		wg.Add(1)
		go func(gid int) {
			defer wg.Done()
			id := fmt.Sprintf("judge-%d", gid)
			if err := r.BeginClaim(ev.ID, id, 3); err != nil {
				return
			}
			defer r.AbortClaim(ev.ID)
			if err := r.CommitClaim(ev.ID, UserRef{ID: id, Name: id}, 3); err != nil {
				return
			}
			wins <- id
		}(g)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("want exactly one winner, got %d: %v", len(winners), winners)
	}

	got, _ := r.Get(ev.ID)
	if got.Judge == nil || got.Judge.ID != winners[0] {
		t.Fatalf("bound judge %v does not match winner %s", got.Judge, winners[0])
	}
	if r.Ledger().Count(winners[0]) != 1 {
		t.Fatalf("winner ledger count: want 1, got %d", r.Ledger().Count(winners[0]))
	}
}

func TestConcurrentClaimsAcrossEvents(t *testing.T) {
	r := newTestRegistry(t)

	const events = 10
	ids := make([]string, 0, events)
	for i := 0; i < events; i++ {
		ids = append(ids, r.Create(fields(time.Now().Add(time.Hour))).ID)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(gid int) {
			defer wg.Done()
			judge := fmt.Sprintf("judge-%d", gid%6)
			for _, id := range ids {
				if err := r.BeginClaim(id, judge, 3); err != nil {
					continue
				}
				if err := r.CommitClaim(id, UserRef{ID: judge, Name: judge}, 3); err != nil {
					r.AbortClaim(id)
				}
			}
		}(g)
	}
	wg.Wait()

	// Every binding must be mirrored by the ledger and no judge may exceed
	// the cap.
	counts := map[string]int{}
	for _, ev := range r.List() {
		if ev.Judge != nil {
			counts[ev.Judge.ID]++
		}
	}
	for judge, n := range counts {
		if n > 3 {
			t.Fatalf("judge %s over cap: %d", judge, n)
		}
		if got := r.Ledger().Count(judge); got != n {
			t.Fatalf("ledger desync for %s: events=%d ledger=%d", judge, n, got)
		}
	}
}

func TestExchange(t *testing.T) {
	r := newTestRegistry(t)
	ev := r.Create(fields(time.Now().Add(time.Hour)))
	oldJudge := UserRef{ID: "old", Name: "Old"}
	newJudge := UserRef{ID: "new", Name: "New"}

	// Exchange on an open event is refused.
	if _, err := r.Exchange(ev.ID, newJudge); err != ErrNotTaken {
		t.Fatalf("want ErrNotTaken, got %v", err)
	}

	if err := r.BeginClaim(ev.ID, oldJudge.ID, 3); err != nil {
		t.Fatal(err)
	}
	if err := r.CommitClaim(ev.ID, oldJudge, 3); err != nil {
		t.Fatal(err)
	}

	prev, err := r.Exchange(ev.ID, newJudge)
	if err != nil {
		t.Fatal(err)
	}
	if prev.ID != oldJudge.ID {
		t.Fatalf("want previous judge %s, got %s", oldJudge.ID, prev.ID)
	}
	got, _ := r.Get(ev.ID)
	if got.Judge == nil || got.Judge.ID != newJudge.ID {
		t.Fatalf("new judge not bound: %+v", got.Judge)
	}
	if r.Ledger().Count(oldJudge.ID) != 0 || r.Ledger().Count(newJudge.ID) != 1 {
		t.Fatalf("ledger desync: old=%d new=%d",
			r.Ledger().Count(oldJudge.ID), r.Ledger().Count(newJudge.ID))
	}

	if _, err := r.Exchange("event_missing", newJudge); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
