// Package schedule - timers.go
// One live deferred task per (event, kind), cancel-and-replace semantics.
package schedule

import (
	"sync"
	"time"
)

type timerKind uint8

const (
	kindReminder timerKind = iota
	kindCleanup
)

type timerKey struct {
	id   string
	kind timerKind
}

// timerSet keeps at most one armed timer per key. Arming a key that already
// has a live timer stops the old one first, so a superseded task never fires.
type timerSet struct {
	mu     sync.Mutex
	timers map[timerKey]*time.Timer
}

func newTimerSet() *timerSet {
	return &timerSet{timers: make(map[timerKey]*time.Timer)}
}

func (t *timerSet) arm(id string, kind timerKind, d time.Duration, fn func()) {
	key := timerKey{id: id, kind: kind}
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.timers[key]; ok {
		old.Stop()
	}

	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		// A fired timer may have been superseded between firing and
		// acquiring the lock; only the currently registered timer runs.
		t.mu.Lock()
		cur, ok := t.timers[key]
		if !ok || cur != tm {
			t.mu.Unlock()
			return
		}
		delete(t.timers, key)
		t.mu.Unlock()
		fn()
	})
	t.timers[key] = tm
}

// cancel stops the timer for (id, kind) if one is armed.
func (t *timerSet) cancel(id string, kind timerKind) bool {
	key := timerKey{id: id, kind: kind}
	t.mu.Lock()
	defer t.mu.Unlock()
	tm, ok := t.timers[key]
	if !ok {
		return false
	}
	tm.Stop()
	delete(t.timers, key)
	return true
}

// cancelAll stops every timer armed for id.
func (t *timerSet) cancelAll(id string) {
	t.cancel(id, kindReminder)
	t.cancel(id, kindCleanup)
}

// armed reports whether a timer is live for (id, kind).
func (t *timerSet) armed(id string, kind timerKind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[timerKey{id: id, kind: kind}]
	return ok
}
