package schedule

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"
)

// StaleAge is how old an event may get before the startup sweep purges it.
const StaleAge = 7 * 24 * time.Hour

// Registry is the single source of truth for scheduled matches. It owns the
// event records, the judge ledger, and the deferred task set, and guards all
// of them behind one mutex so ledger membership always changes atomically
// with the judge field it mirrors.
type Registry struct {
	mu     sync.Mutex
	events map[string]*Event
	ledger *Ledger
	timers *timerSet
	path   string
}

func NewRegistry(path string) *Registry {
	return &Registry{
		events: make(map[string]*Event),
		ledger: NewLedger(),
		timers: newTimerSet(),
		path:   path,
	}
}

// Ledger exposes the judge ledger for read-side checks.
func (r *Registry) Ledger() *Ledger { return r.ledger }

// EventFields carries the caller-supplied attributes of a new event.
type EventFields struct {
	StartsAt   time.Time
	Round      string
	Tournament string
	Group      string
	ChannelID  string
	Team1      UserRef
	Team2      UserRef
}

// Create stores a new open event and returns a copy. Ids are derived from
// the nanosecond clock; the map is consulted under the lock so rapid
// creation can never hand out a duplicate.
func (r *Registry) Create(f EventFields) Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := time.Now().UnixNano()
	id := fmt.Sprintf("event_%d", base)
	for seq := 1; ; seq++ {
		if _, dup := r.events[id]; !dup {
			break
		}
		id = fmt.Sprintf("event_%d_%d", base, seq)
	}

	t1, t2 := f.Team1, f.Team2
	ev := &Event{
		ID:         id,
		StartsAt:   f.StartsAt.UTC(),
		Round:      f.Round,
		Tournament: f.Tournament,
		Group:      f.Group,
		ChannelID:  f.ChannelID,
		Team1:      &t1,
		Team2:      &t2,
		CreatedAt:  time.Now().UTC(),
		state:      stateOpen,
	}
	r.events[id] = ev
	return cloneEvent(ev)
}

// Get returns a copy of the event, if it exists.
func (r *Registry) Get(id string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return Event{}, false
	}
	return cloneEvent(ev), true
}

// Update mutates an event in place under the lock. It is meant for metadata
// (poster path, posted message ids, edited time fields); judge changes must
// go through the claim guard or Exchange.
func (r *Registry) Update(id string, fn func(*Event)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	fn(ev)
	return nil
}

// Delete removes an event with full cascade: both deferred tasks are
// cancelled and any ledger membership is cleared, so nothing is left
// pointing at the dead record. The removed copy is returned so the caller
// can clean up external artifacts (posted message, poster file).
func (r *Registry) Delete(id string) (Event, error) {
	r.mu.Lock()
	ev, ok := r.events[id]
	if !ok {
		r.mu.Unlock()
		return Event{}, ErrNotFound
	}
	if ev.Judge != nil {
		r.ledger.Unassign(ev.Judge.ID, id)
	}
	delete(r.events, id)
	cp := cloneEvent(ev)
	r.mu.Unlock()

	r.timers.cancelAll(id)
	return cp, nil
}

// Len returns the number of live events.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// List returns copies of all events, schedule order (earliest first, events
// without a start time last).
func (r *Registry) List() []Event {
	r.mu.Lock()
	out := make([]Event, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, cloneEvent(ev))
	}
	r.mu.Unlock()
	sortByStart(out)
	return out
}

// ListUnassigned returns copies of all events without a judge, schedule order.
func (r *Registry) ListUnassigned() []Event {
	r.mu.Lock()
	out := make([]Event, 0, len(r.events))
	for _, ev := range r.events {
		if ev.Judge == nil {
			out = append(out, cloneEvent(ev))
		}
	}
	r.mu.Unlock()
	sortByStart(out)
	return out
}

// ListByChannelJudge returns the events in channelID currently held by judgeID.
func (r *Registry) ListByChannelJudge(channelID, judgeID string) []Event {
	r.mu.Lock()
	out := make([]Event, 0)
	for _, ev := range r.events {
		if ev.ChannelID == channelID && ev.Judge != nil && ev.Judge.ID == judgeID {
			out = append(out, cloneEvent(ev))
		}
	}
	r.mu.Unlock()
	sortByStart(out)
	return out
}

// ListByChannelCaptains returns events in channelID whose captain pair is
// {a, b} in either order, schedule order. Used to match a submitted result
// or an edit to its event.
func (r *Registry) ListByChannelCaptains(channelID, a, b string) []Event {
	r.mu.Lock()
	out := make([]Event, 0)
	for _, ev := range r.events {
		if ev.ChannelID != channelID {
			continue
		}
		if ev.Team1 == nil || ev.Team2 == nil {
			// Captains are live handles and are not restored from the
			// snapshot; events loaded after a restart match on channel only.
			out = append(out, cloneEvent(ev))
			continue
		}
		t1, t2 := ev.Team1.ID, ev.Team2.ID
		if (a == t1 || a == t2) && (b == t1 || b == t2) {
			out = append(out, cloneEvent(ev))
		}
	}
	r.mu.Unlock()
	sortByStart(out)
	return out
}

func sortByStart(evs []Event) {
	sort.Slice(evs, func(i, j int) bool {
		ti, tj := evs[i].StartsAt, evs[j].StartsAt
		if ti.IsZero() {
			return false
		}
		if tj.IsZero() {
			return true
		}
		return ti.Before(tj)
	})
}

// SetResult records the outcome of a finished match. Results are write-once.
func (r *Registry) SetResult(id string, res Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	if ev.Result != nil {
		return ErrResultRecorded
	}
	res.RecordedAt = time.Now().UTC()
	ev.Result = &res
	return nil
}

// SweepStale purges events whose start time is older than maxAge, cancelling
// their tasks and ledger entries. Runs once at startup after Load.
func (r *Registry) SweepStale(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	var stale []string
	for id, ev := range r.events {
		if !ev.StartsAt.IsZero() && ev.StartsAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.Unlock()

	for _, id := range stale {
		if _, err := r.Delete(id); err == nil {
			log.Printf("[registry] swept stale event %s", id)
		}
	}
	return len(stale)
}

// ---------------------------------------------------------------------------
// Snapshot

// eventSnapshot is the on-disk shape of one event. Judge and captains are
// live platform handles: the judge is written as an explicit null and the
// captains are dropped, so neither survives a restart.
type eventSnapshot struct {
	StartsAt          string  `json:"datetime"`
	Round             string  `json:"round"`
	Tournament        string  `json:"tournament"`
	Group             string  `json:"group,omitempty"`
	ChannelID         string  `json:"channel_id"`
	ScheduleChannelID string  `json:"schedule_channel_id,omitempty"`
	ScheduleMessageID string  `json:"schedule_message_id,omitempty"`
	Judge             *string `json:"judge"`
	PosterPath        string  `json:"poster_path,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// Save overwrites the snapshot file with the current registry contents.
// In-memory state stays authoritative when the write fails.
func (r *Registry) Save() error {
	r.mu.Lock()
	snap := make(map[string]eventSnapshot, len(r.events))
	for id, ev := range r.events {
		s := eventSnapshot{
			StartsAt:          ev.StartsAt.Format(time.RFC3339),
			Round:             ev.Round,
			Tournament:        ev.Tournament,
			Group:             ev.Group,
			ChannelID:         ev.ChannelID,
			ScheduleChannelID: ev.ScheduleChannelID,
			ScheduleMessageID: ev.ScheduleMessageID,
			PosterPath:        ev.PosterPath,
		}
		if !ev.CreatedAt.IsZero() {
			s.CreatedAt = ev.CreatedAt.Format(time.RFC3339)
		}
		snap[id] = s
	}
	r.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

// Load replaces the registry contents with the snapshot file. A missing file
// is an empty registry; entries missing required fields are skipped with a
// warning instead of failing startup.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var snap map[string]eventSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	loaded := 0
	for id, s := range snap {
		if id == "" || s.ChannelID == "" || s.StartsAt == "" {
			log.Printf("[registry] skipping snapshot entry %q: missing required fields", id)
			continue
		}
		startsAt, perr := time.Parse(time.RFC3339, s.StartsAt)
		if perr != nil {
			log.Printf("[registry] skipping snapshot entry %q: bad datetime %q", id, s.StartsAt)
			continue
		}
		ev := &Event{
			ID:                id,
			StartsAt:          startsAt,
			Round:             s.Round,
			Tournament:        s.Tournament,
			Group:             s.Group,
			ChannelID:         s.ChannelID,
			ScheduleChannelID: s.ScheduleChannelID,
			ScheduleMessageID: s.ScheduleMessageID,
			PosterPath:        s.PosterPath,
			state:             stateOpen,
		}
		if s.CreatedAt != "" {
			if created, cerr := time.Parse(time.RFC3339, s.CreatedAt); cerr == nil {
				ev.CreatedAt = created
			}
		}
		r.events[id] = ev
		loaded++
	}
	log.Printf("[registry] loaded %d event(s) from %s", loaded, r.path)
	return nil
}
