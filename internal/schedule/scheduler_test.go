package schedule

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type fakeNotifier struct {
	mu        sync.Mutex
	reminders []Event
	deleted   []string
	fired     chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{fired: make(chan struct{}, 16)}
}

func (f *fakeNotifier) SendMatchReminder(ev Event) error {
	f.mu.Lock()
	f.reminders = append(f.reminders, ev)
	f.mu.Unlock()
	f.fired <- struct{}{}
	return nil
}

func (f *fakeNotifier) DeleteScheduleMessage(channelID, messageID string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, channelID+"/"+messageID)
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) reminderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reminders)
}

func waitFired(t *testing.T, f *fakeNotifier, d time.Duration) bool {
	t.Helper()
	select {
	case <-f.fired:
		return true
	case <-time.After(d):
		return false
	}
}

func TestReminderFires(t *testing.T) {
	r := newTestRegistry(t)
	n := newFakeNotifier()
	s := NewScheduler(r, n)

	ev := r.Create(fields(time.Now().Add(time.Hour)))
	s.ScheduleReminder(ev.ID, time.Now().Add(20*time.Millisecond))

	if !waitFired(t, n, time.Second) {
		t.Fatal("reminder never fired")
	}
	if n.reminderCount() != 1 {
		t.Fatalf("want 1 reminder, got %d", n.reminderCount())
	}
	if n.reminders[0].ID != ev.ID {
		t.Fatalf("reminder for wrong event: %s", n.reminders[0].ID)
	}
}

func TestReminderInPastSkipped(t *testing.T) {
	r := newTestRegistry(t)
	n := newFakeNotifier()
	s := NewScheduler(r, n)

	ev := r.Create(fields(time.Now().Add(time.Hour)))
	s.ScheduleReminder(ev.ID, time.Now().Add(-time.Minute))

	if r.timers.armed(ev.ID, kindReminder) {
		t.Fatal("past reminder should not arm a timer")
	}
}

func TestReminderCancelAndReplace(t *testing.T) {
	r := newTestRegistry(t)
	n := newFakeNotifier()
	s := NewScheduler(r, n)

	ev := r.Create(fields(time.Now().Add(time.Hour)))

	// Re-arm repeatedly; only the final timer may fire.
	for i := 0; i < 5; i++ {
		s.ScheduleReminder(ev.ID, time.Now().Add(500*time.Millisecond))
	}
	s.ScheduleReminder(ev.ID, time.Now().Add(30*time.Millisecond))

	if !waitFired(t, n, time.Second) {
		t.Fatal("replacement reminder never fired")
	}
	// Give any superseded timers room to misfire before counting.
	time.Sleep(700 * time.Millisecond)
	if n.reminderCount() != 1 {
		t.Fatalf("want exactly 1 reminder after 6 arms, got %d", n.reminderCount())
	}
}

func TestReminderAfterDeleteIsNoop(t *testing.T) {
	r := newTestRegistry(t)
	n := newFakeNotifier()
	s := NewScheduler(r, n)

	ev := r.Create(fields(time.Now().Add(time.Hour)))
	s.ScheduleReminder(ev.ID, time.Now().Add(30*time.Millisecond))
	if _, err := r.Delete(ev.ID); err != nil {
		t.Fatal(err)
	}

	if waitFired(t, n, 300*time.Millisecond) {
		t.Fatal("reminder fired for a deleted event")
	}
}

func TestReminderResolvesJudgeAtFireTime(t *testing.T) {
	r := newTestRegistry(t)
	n := newFakeNotifier()
	s := NewScheduler(r, n)

	ev := r.Create(fields(time.Now().Add(time.Hour)))
	s.ScheduleReminder(ev.ID, time.Now().Add(60*time.Millisecond))

	// Bind and then swap the judge after scheduling but before firing.
	if err := r.BeginClaim(ev.ID, "first", 3); err != nil {
		t.Fatal(err)
	}
	if err := r.CommitClaim(ev.ID, UserRef{ID: "first", Name: "First"}, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Exchange(ev.ID, UserRef{ID: "second", Name: "Second"}); err != nil {
		t.Fatal(err)
	}

	if !waitFired(t, n, time.Second) {
		t.Fatal("reminder never fired")
	}
	got := n.reminders[0]
	if got.Judge == nil || got.Judge.ID != "second" {
		t.Fatalf("reminder carried stale judge: %+v", got.Judge)
	}
}

func TestCleanupEndState(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(filepath.Join(dir, "events.json"))
	n := newFakeNotifier()
	s := NewScheduler(r, n)

	posterPath := filepath.Join(dir, "temp_poster_1.png")
	if err := os.WriteFile(posterPath, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := r.Create(fields(time.Now().Add(time.Hour)))
	_ = r.Update(ev.ID, func(e *Event) {
		e.ScheduleChannelID = "sched"
		e.ScheduleMessageID = "msg"
		e.PosterPath = posterPath
	})
	s.ScheduleReminder(ev.ID, time.Now().Add(time.Hour))
	s.ScheduleCleanup(ev.ID, 30*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := r.Get(ev.ID); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("cleanup never removed the event")
		case <-time.After(10 * time.Millisecond):
		}
	}

	n.mu.Lock()
	deleted := append([]string(nil), n.deleted...)
	n.mu.Unlock()
	if len(deleted) != 1 || deleted[0] != "sched/msg" {
		t.Fatalf("card not deleted: %v", deleted)
	}
	if _, err := os.Stat(posterPath); !os.IsNotExist(err) {
		t.Fatal("poster file survived cleanup")
	}
	if r.timers.armed(ev.ID, kindReminder) {
		t.Fatal("reminder survived cleanup")
	}
	// The snapshot on disk must no longer contain the event.
	fresh := NewRegistry(filepath.Join(dir, "events.json"))
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	if fresh.Len() != 0 {
		t.Fatalf("snapshot still holds %d event(s) after cleanup", fresh.Len())
	}
}

func TestCleanupCancelledByDelete(t *testing.T) {
	r := newTestRegistry(t)
	n := newFakeNotifier()
	s := NewScheduler(r, n)

	ev := r.Create(fields(time.Now().Add(time.Hour)))
	_ = r.Update(ev.ID, func(e *Event) {
		e.ScheduleChannelID = "sched"
		e.ScheduleMessageID = "msg"
	})
	s.ScheduleCleanup(ev.ID, 50*time.Millisecond)
	if _, err := r.Delete(ev.ID); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	n.mu.Lock()
	deleted := len(n.deleted)
	n.mu.Unlock()
	if deleted != 0 {
		t.Fatal("cleanup ran for a deleted event")
	}
}
