// Package schedule - errors.go
// Centralized, comparable error values used across the registry logic.
package schedule

// serr is a lightweight comparable error type.
// Using constants of this type allows errors.Is to work as expected.
type serr string

func (e serr) Error() string { return string(e) }

var (
	ErrNotFound       = serr("event not found")
	ErrClaimBusy      = serr("another claim is in flight for this event")
	ErrTaken          = serr("schedule already taken")
	ErrOverCap        = serr("judge assignment cap reached")
	ErrNotTaken       = serr("schedule has no judge assigned")
	ErrResultRecorded = serr("result already recorded")
)
