package schedule

import "time"

// UserRef is an opaque handle to a platform user. The rich discord object
// stays with the session; records only carry the stable id plus a display
// name for rendering.
type UserRef struct {
	ID   string
	Name string
}

// claimState tags where an event sits in the take-schedule lifecycle.
type claimState uint8

const (
	stateOpen claimState = iota
	stateClaiming
	stateTaken
)

// Result holds the outcome of a finished match. Written once.
type Result struct {
	Winner      UserRef
	Loser       UserRef
	WinnerScore int
	LoserScore  int
	Tournament  string
	Round       string
	Remarks     string
	RecordedAt  time.Time
}

// Event is a scheduled match. Instances are owned by the Registry; callers
// only ever see copies.
type Event struct {
	ID         string
	StartsAt   time.Time // UTC
	Round      string
	Tournament string
	Group      string // optional bracket/group label
	ChannelID  string // channel the event was created in

	// Live platform handles. Not serializable, so they do not survive a
	// restart; the snapshot writes judge as null and drops the captains.
	Team1 *UserRef
	Team2 *UserRef
	Judge *UserRef // nil until exactly one claim succeeds

	// Where the claimable card was posted. Empty until posted.
	ScheduleChannelID string
	ScheduleMessageID string

	PosterPath string // on-disk artifact, removed by cleanup
	Result     *Result
	CreatedAt  time.Time

	state claimState
}

// Taken reports whether a judge is bound to the event.
func (e *Event) Taken() bool { return e.Judge != nil }

// cloneEvent returns a copy safe to hand outside the registry lock.
func cloneEvent(ev *Event) Event {
	cp := *ev
	if ev.Team1 != nil {
		t := *ev.Team1
		cp.Team1 = &t
	}
	if ev.Team2 != nil {
		t := *ev.Team2
		cp.Team2 = &t
	}
	if ev.Judge != nil {
		j := *ev.Judge
		cp.Judge = &j
	}
	if ev.Result != nil {
		r := *ev.Result
		cp.Result = &r
	}
	return cp
}
