package schedule

import (
	"log"
	"os"
	"time"

	"github.com/devils-spot/tourney-bot/internal/metrics"
)

// ReminderLead is how long before the match start the reminder goes out.
const ReminderLead = 10 * time.Minute

// Notifier is the outbound side of deferred tasks. The registry core never
// talks to the platform directly; the discord adapter implements this.
type Notifier interface {
	// SendMatchReminder delivers the pre-match ping for ev. The judge on ev
	// is the one bound at fire time, not at scheduling time.
	SendMatchReminder(ev Event) error
	// DeleteScheduleMessage removes the posted card. "Already gone" must not
	// be an error.
	DeleteScheduleMessage(channelID, messageID string) error
}

// Scheduler arms the per-event one-shot tasks: the 10-minute reminder and
// the post-result cleanup. Both follow cancel-and-replace semantics via the
// registry's timer set, so rescheduling never produces duplicate firings.
type Scheduler struct {
	reg    *Registry
	notify Notifier
	now    func() time.Time
}

func NewScheduler(reg *Registry, n Notifier) *Scheduler {
	return &Scheduler{reg: reg, notify: n, now: time.Now}
}

// ScheduleReminder arms a reminder to fire at fireAt. A fireAt in the past
// means the reminder would be stale and is skipped silently. Any previously
// armed reminder for the event is replaced.
func (s *Scheduler) ScheduleReminder(id string, fireAt time.Time) {
	delay := fireAt.Sub(s.now())
	if delay <= 0 {
		log.Printf("[scheduler] reminder for %s is in the past, skipping", id)
		return
	}
	s.reg.timers.arm(id, kindReminder, delay, func() { s.fireReminder(id) })
	log.Printf("[scheduler] reminder armed for %s at %s", id, fireAt.Format(time.RFC3339))
}

func (s *Scheduler) fireReminder(id string) {
	// Re-resolve from the live registry so a judge exchanged after
	// scheduling still lands in the reminder. A deleted event is a no-op.
	ev, ok := s.reg.Get(id)
	if !ok {
		return
	}
	if err := s.notify.SendMatchReminder(ev); err != nil {
		log.Printf("[scheduler] reminder for %s failed: %v", id, err)
		return
	}
	metrics.RemindersFired.Inc()
}

// ScheduleCleanup arms the post-result purge to run after delay. Only a
// repeated call (cancel-and-replace) or event deletion supersedes it.
func (s *Scheduler) ScheduleCleanup(id string, delay time.Duration) {
	s.reg.timers.arm(id, kindCleanup, delay, func() { s.runCleanup(id) })
	log.Printf("[scheduler] cleanup armed for %s in %s", id, delay)
}

// runCleanup is best-effort front to back: platform failures are logged and
// skipped, but the task always ends by removing the registry entry and
// persisting the snapshot.
func (s *Scheduler) runCleanup(id string) {
	ev, ok := s.reg.Get(id)
	if !ok {
		return
	}

	if ev.ScheduleChannelID != "" && ev.ScheduleMessageID != "" {
		if err := s.notify.DeleteScheduleMessage(ev.ScheduleChannelID, ev.ScheduleMessageID); err != nil {
			log.Printf("[scheduler] cleanup %s: delete card failed: %v", id, err)
		}
	}

	if ev.PosterPath != "" {
		if err := os.Remove(ev.PosterPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[scheduler] cleanup %s: remove poster failed: %v", id, err)
		}
	}

	s.reg.timers.cancel(id, kindReminder)

	if _, err := s.reg.Delete(id); err != nil {
		return // already gone
	}
	if err := s.reg.Save(); err != nil {
		log.Printf("[scheduler] cleanup %s: snapshot save failed: %v", id, err)
		metrics.SnapshotErrors.Inc()
	}
	metrics.CleanupsRun.Inc()
	log.Printf("[scheduler] cleanup done for %s", id)
}
