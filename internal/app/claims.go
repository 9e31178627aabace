// internal/app/claims.go
// The take-schedule guard flow, judge exchange, and the unassigned list.

package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	d "github.com/devils-spot/tourney-bot/internal/adapters/discord"
	"github.com/devils-spot/tourney-bot/internal/metrics"
	"github.com/devils-spot/tourney-bot/internal/schedule"
	"github.com/devils-spot/tourney-bot/internal/ui"
)

// handleTakeSchedule runs the two-phase claim. BeginClaim reserves the event
// before the interaction ack suspends us; CommitClaim re-validates after.
// The deferred AbortClaim releases the reservation on every early return,
// and is a no-op once the commit flips the state to taken.
func (b *Bot) handleTakeSchedule(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string) {
	if !b.Policy.CanClaim(i) {
		_ = d.SendEphemeral(s, i, "❌ Only judges can take schedules.")
		return
	}
	u := d.UserOf(i)
	if u == nil {
		_ = d.SendEphemeral(s, i, "⚠️ Could not identify you.")
		return
	}
	judge := schedule.UserRef{ID: u.ID, Name: d.DisplayNameOf(i)}

	metrics.ClaimsAttempted.Inc()
	if err := b.Reg.BeginClaim(eventID, judge.ID, b.Cfg.MaxAssignments); err != nil {
		b.rejectClaim(s, i, eventID, err)
		return
	}
	defer b.Reg.AbortClaim(eventID)

	// Ack within the 3s window; the card edit happens out of band.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Printf("[claims] defer ack failed: %v", err)
		return
	}

	if err := b.Reg.CommitClaim(eventID, judge, b.Cfg.MaxAssignments); err != nil {
		b.rejectClaimFollowup(s, i, eventID, err)
		return
	}
	metrics.ClaimsWon.Inc()

	ev, ok := b.Reg.Get(eventID)
	if !ok {
		return
	}

	// The binding is final from here: side-effect failures are logged, never
	// rolled back.
	b.refreshScheduleCard(s, ev)
	if err := b.Notify.GrantChannelAccess(ev.ChannelID, judge.ID); err != nil {
		log.Printf("[claims] grant access for %s failed: %v", eventID, err)
	}
	if err := b.Notify.SendJudgeAssigned(ev, judge); err != nil {
		log.Printf("[claims] assignment notice for %s failed: %v", eventID, err)
	}
	if err := b.Reg.Save(); err != nil {
		log.Printf("[claims] snapshot save failed: %v", err)
		metrics.SnapshotErrors.Inc()
	}
	log.Printf("[claims] %s taken by %s (%s)", eventID, judge.Name, judge.ID)
}

func (b *Bot) claimRejection(eventID string, err error) (reason, msg string) {
	switch {
	case errors.Is(err, schedule.ErrClaimBusy):
		return "busy", "⏳ Someone is claiming this schedule right now. Try again in a moment."
	case errors.Is(err, schedule.ErrTaken):
		if ev, ok := b.Reg.Get(eventID); ok && ev.Judge != nil {
			return "taken", fmt.Sprintf("❌ This schedule has already been taken by **%s**.", ev.Judge.Name)
		}
		return "taken", "❌ This schedule has already been taken by another judge."
	case errors.Is(err, schedule.ErrOverCap):
		return "over_cap", "❌ You already hold the maximum number of schedules."
	case errors.Is(err, schedule.ErrNotFound):
		return "not_found", "⚠️ This event no longer exists."
	default:
		return "error", "⚠️ " + err.Error()
	}
}

func (b *Bot) rejectClaim(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string, err error) {
	reason, msg := b.claimRejection(eventID, err)
	metrics.ClaimsRejected.WithLabelValues(reason).Inc()
	_ = d.SendEphemeral(s, i, msg)
}

func (b *Bot) rejectClaimFollowup(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string, err error) {
	reason, msg := b.claimRejection(eventID, err)
	metrics.ClaimsRejected.WithLabelValues(reason).Inc()
	_ = d.FollowupEphemeral(s, i, msg)
}

func (b *Bot) handleExchangeJudge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanCreateEvents(i) {
		_ = d.SendEphemeral(s, i, "❌ You need a staff role to exchange judges.")
		return
	}

	opts := optionsOf(i)
	current := opts.user(s, "current_judge")
	next := opts.user(s, "new_judge")
	if current == nil || next == nil {
		_ = d.SendEphemeral(s, i, "⚠️ Could not resolve both judges.")
		return
	}
	if current.ID == next.ID {
		_ = d.SendEphemeral(s, i, "⚠️ Current and new judge are the same user.")
		return
	}

	channelID := i.ChannelID
	if v, ok := opts["channel"]; ok {
		if ch := v.ChannelValue(s); ch != nil {
			channelID = ch.ID
		}
	}

	if !b.memberHasJudgeRole(s, i, next.ID) {
		_ = d.SendEphemeral(s, i, fmt.Sprintf("❌ %s does not have the judge role.", next.Username))
		return
	}

	events := b.Reg.ListByChannelJudge(channelID, current.ID)
	if len(events) == 0 {
		_ = d.SendEphemeral(s, i, fmt.Sprintf(
			"⚠️ %s holds no schedules in <#%s>.", current.Username, channelID))
		return
	}

	if err := d.DeferEphemeral(s, i); err != nil {
		return
	}

	newRef := schedule.UserRef{ID: next.ID, Name: next.Username}
	swapped := 0
	for _, ev := range events {
		oldRef, err := b.Reg.Exchange(ev.ID, newRef)
		if err != nil {
			log.Printf("[claims] exchange on %s failed: %v", ev.ID, err)
			continue
		}
		swapped++

		if rerr := b.Notify.RevokeChannelAccess(ev.ChannelID, oldRef.ID); rerr != nil {
			log.Printf("[claims] revoke access on %s failed: %v", ev.ID, rerr)
		}
		if gerr := b.Notify.GrantChannelAccess(ev.ChannelID, newRef.ID); gerr != nil {
			log.Printf("[claims] grant access on %s failed: %v", ev.ID, gerr)
		}
		if cur, ok := b.Reg.Get(ev.ID); ok {
			b.refreshScheduleCard(s, cur)
			if nerr := b.Notify.SendJudgeExchanged(cur, oldRef, newRef); nerr != nil {
				log.Printf("[claims] exchange notice on %s failed: %v", ev.ID, nerr)
			}
		}
	}

	if swapped > 0 {
		if err := b.Reg.Save(); err != nil {
			log.Printf("[claims] snapshot save failed: %v", err)
			metrics.SnapshotErrors.Inc()
		}
	}
	_ = d.FollowupEphemeral(s, i, fmt.Sprintf(
		"✅ Exchanged %d schedule(s): %s → %s.", swapped, current.Username, next.Username))
}

// memberHasJudgeRole checks the resolved member from the interaction first
// and falls back to a guild lookup.
func (b *Bot) memberHasJudgeRole(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) bool {
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if m, ok := resolved.Members[userID]; ok {
			return b.Policy.HasJudgeRole(m)
		}
	}
	m, err := s.GuildMember(i.GuildID, userID)
	if err != nil {
		log.Printf("[claims] member lookup for %s failed: %v", userID, err)
		return false
	}
	return b.Policy.HasJudgeRole(m)
}

func (b *Bot) handleUnassigned(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanViewUnassigned(i) {
		_ = d.SendEphemeral(s, i, "❌ You need a staff or judge role to view this.")
		return
	}
	events := b.Reg.ListUnassigned()
	if len(events) == 0 {
		_ = d.SendEphemeral(s, i, "🎉 Every scheduled event has a judge.")
		return
	}
	_ = d.SendEphemeralEmbed(s, i, ui.UnassignedEmbed(events, i.GuildID))
}
