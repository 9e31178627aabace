// Package schedule - claim.go
// The take-schedule guard: open -> claiming -> {taken | open}.
//
// A claim spans a platform round-trip (deferring the interaction, editing
// the card), so it cannot hold the registry lock end to end. Instead
// BeginClaim reserves the event before the first suspension point and
// CommitClaim re-validates everything after it; whatever was observed before
// the suspension is stale by definition.
package schedule

// BeginClaim moves an open event to claiming on behalf of judgeID.
// Rejections are immediate, never queued:
//
//	ErrClaimBusy - a claim is already in flight
//	ErrTaken     - a judge is already bound
//	ErrOverCap   - judgeID is at its assignment cap
//	ErrNotFound  - no such event
//
// On success the caller owns the claiming state and must finish with either
// CommitClaim or AbortClaim.
func (r *Registry) BeginClaim(id, judgeID string, cap int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	if ev.state == stateClaiming {
		return ErrClaimBusy
	}
	if ev.state == stateTaken || ev.Judge != nil {
		return ErrTaken
	}
	if !r.ledger.CanAssign(judgeID, cap) {
		return ErrOverCap
	}
	ev.state = stateClaiming
	return nil
}

// CommitClaim binds judge to the event. Every check from BeginClaim is
// re-run under the lock: the event may have been taken, deleted, or the
// judge may have won another claim while this one was suspended. On any
// failed re-check the event drops back to open.
func (r *Registry) CommitClaim(id string, judge UserRef, cap int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	if ev.Judge != nil {
		ev.state = stateTaken
		return ErrTaken
	}
	if !r.ledger.CanAssign(judge.ID, cap) {
		ev.state = stateOpen
		return ErrOverCap
	}

	j := judge
	ev.Judge = &j
	ev.state = stateTaken
	r.ledger.Assign(judge.ID, id)
	return nil
}

// AbortClaim releases a claiming event back to open. No-op for any other
// state, so it is safe to defer unconditionally.
func (r *Registry) AbortClaim(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return
	}
	if ev.state == stateClaiming {
		ev.state = stateOpen
	}
}

// Exchange swaps the judge of a taken event for newJudge, keeping the
// ledger in step. It bypasses the claim race entirely; staff-only callers
// operate on events that already have a binding. Returns the previous judge.
func (r *Registry) Exchange(id string, newJudge UserRef) (UserRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return UserRef{}, ErrNotFound
	}
	if ev.Judge == nil {
		return UserRef{}, ErrNotTaken
	}

	old := *ev.Judge
	r.ledger.Unassign(old.ID, id)
	r.ledger.Assign(newJudge.ID, id)
	j := newJudge
	ev.Judge = &j
	ev.state = stateTaken
	return old, nil
}
