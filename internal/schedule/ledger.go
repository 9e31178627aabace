// Package schedule - ledger.go
// Tracks how many schedules each judge currently holds.
package schedule

import "sync"

// Ledger maps judge ids to the set of event ids they officiate. It does not
// enforce the cap itself; capacity is checked by the claim guard before any
// assignment. Contents are derived from live event records and never
// persisted.
type Ledger struct {
	mu      sync.Mutex
	byJudge map[string]map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{byJudge: make(map[string]map[string]struct{})}
}

// CanAssign reports whether judgeID holds fewer than cap schedules.
func (l *Ledger) CanAssign(judgeID string, cap int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byJudge[judgeID]) < cap
}

// Assign adds eventID to judgeID's set.
func (l *Ledger) Assign(judgeID, eventID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	set, ok := l.byJudge[judgeID]
	if !ok {
		set = make(map[string]struct{})
		l.byJudge[judgeID] = set
	}
	set[eventID] = struct{}{}
}

// Unassign removes eventID from judgeID's set; no-op if absent. A judge with
// no remaining events disappears from the ledger entirely.
func (l *Ledger) Unassign(judgeID, eventID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	set, ok := l.byJudge[judgeID]
	if !ok {
		return
	}
	delete(set, eventID)
	if len(set) == 0 {
		delete(l.byJudge, judgeID)
	}
}

// Count returns the number of schedules judgeID currently holds.
func (l *Ledger) Count(judgeID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byJudge[judgeID])
}
