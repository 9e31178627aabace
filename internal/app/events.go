// internal/app/events.go
// event-create, event-edit, and event-delete.

package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"

	d "github.com/devils-spot/tourney-bot/internal/adapters/discord"
	"github.com/devils-spot/tourney-bot/internal/metrics"
	"github.com/devils-spot/tourney-bot/internal/poster"
	"github.com/devils-spot/tourney-bot/internal/schedule"
	"github.com/devils-spot/tourney-bot/internal/ui"
)

// buildStartTime assembles a UTC start time from command options. The year is
// implied: the nearest one that puts the date in the future. Days that do not
// exist in the month (Feb 31) are rejected rather than normalized.
func buildStartTime(hour, minute, day, month int, now time.Time) (time.Time, error) {
	t := time.Date(now.Year(), time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("day %d does not exist in month %d", day, month)
	}
	if t.Before(now) {
		t = time.Date(now.Year()+1, time.Month(month), day, hour, minute, 0, 0, time.UTC)
		if t.Day() != day {
			return time.Time{}, fmt.Errorf("day %d does not exist in month %d", day, month)
		}
	}
	return t, nil
}

func (b *Bot) handleEventCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanCreateEvents(i) {
		_ = d.SendEphemeral(s, i, "❌ You need a staff role to create events.")
		return
	}

	opts := optionsOf(i)
	team1 := opts.user(s, "team1")
	team2 := opts.user(s, "team2")
	if team1 == nil || team2 == nil {
		_ = d.SendEphemeral(s, i, "⚠️ Could not resolve both captains.")
		return
	}
	if team1.ID == team2.ID {
		_ = d.SendEphemeral(s, i, "⚠️ Both captains are the same user.")
		return
	}

	startsAt, err := buildStartTime(
		opts.integer("hour", 0), opts.integer("minute", 0),
		opts.integer("date", 1), opts.integer("month", 1),
		time.Now().UTC(),
	)
	if err != nil {
		_ = d.SendEphemeral(s, i, "⚠️ "+err.Error())
		return
	}

	// Poster rendering and the card post take longer than the 3s ack window.
	if err := d.DeferEphemeral(s, i); err != nil {
		return
	}

	ev := b.Reg.Create(schedule.EventFields{
		StartsAt:   startsAt,
		Round:      opts.str("round"),
		Tournament: opts.str("tournament"),
		Group:      opts.str("group"),
		ChannelID:  i.ChannelID,
		Team1:      schedule.UserRef{ID: team1.ID, Name: team1.Username},
		Team2:      schedule.UserRef{ID: team2.ID, Name: team2.Username},
	})

	// A failed poster never blocks the event: the card just goes out bare.
	posterPath := ""
	if p, perr := b.Poster.Render(poster.Info{
		ServerName: b.Cfg.ServerName,
		Round:      ev.Round,
		Team1:      team1.Username,
		Team2:      team2.Username,
		TimeUTC:    startsAt.Format("15:04 UTC"),
		Date:       startsAt.Format("02/01/2006"),
	}); perr != nil {
		log.Printf("[events] poster render failed: %v", perr)
	} else {
		posterPath = p
	}

	msg, err := b.postScheduleCard(s, ev, posterPath, d.DisplayNameOf(i))
	if err != nil {
		log.Printf("[events] schedule card post failed: %v", err)
		if _, derr := b.Reg.Delete(ev.ID); derr != nil {
			log.Printf("[events] rollback of %s failed: %v", ev.ID, derr)
		}
		if posterPath != "" {
			_ = os.Remove(posterPath)
		}
		_ = d.FollowupEphemeral(s, i, "⚠️ Could not post the schedule card: "+err.Error())
		return
	}

	_ = b.Reg.Update(ev.ID, func(e *schedule.Event) {
		e.ScheduleChannelID = msg.ChannelID
		e.ScheduleMessageID = msg.ID
		e.PosterPath = posterPath
	})

	// Button-less copy in the event channel so the captains see it without
	// leaving their channel.
	if i.ChannelID != b.Cfg.ScheduleChannelID {
		copyEmb := ui.ScheduleEmbed(ev, d.DisplayNameOf(i), b.Cfg.ServerName, false)
		if _, cerr := s.ChannelMessageSendEmbed(i.ChannelID, copyEmb); cerr != nil {
			log.Printf("[events] channel copy post failed: %v", cerr)
		}
	}

	b.Sched.ScheduleReminder(ev.ID, startsAt.Add(-schedule.ReminderLead))

	if err := b.Reg.Save(); err != nil {
		log.Printf("[events] snapshot save failed: %v", err)
		metrics.SnapshotErrors.Inc()
	}

	_ = d.FollowupEphemeral(s, i, fmt.Sprintf(
		"✅ Event created: **%s vs %s** • %s • <t:%d:F>",
		team1.Username, team2.Username, ev.Round, startsAt.Unix()))
}

// postScheduleCard publishes the claimable card in the schedule channel,
// pinging the judge role above it.
func (b *Bot) postScheduleCard(s *discordgo.Session, ev schedule.Event, posterPath, createdBy string) (*discordgo.Message, error) {
	send := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{ui.ScheduleEmbed(ev, createdBy, b.Cfg.ServerName, posterPath != "")},
		Components: ui.TakeScheduleComponents(ev.ID),
	}
	if b.Cfg.JudgeRoleID != "" {
		send.Content = fmt.Sprintf("<@&%s>", b.Cfg.JudgeRoleID)
	}

	if posterPath != "" {
		f, err := os.Open(posterPath)
		if err != nil {
			log.Printf("[events] poster open failed: %v", err)
		} else {
			defer f.Close()
			send.Files = []*discordgo.File{{Name: "event_poster.png", Reader: f}}
		}
	}

	return s.ChannelMessageSendComplex(b.Cfg.ScheduleChannelID, send)
}

// refreshScheduleCard re-renders the posted card after a judge change or an
// edit. Best effort; the registry stays authoritative.
func (b *Bot) refreshScheduleCard(s *discordgo.Session, ev schedule.Event) {
	if ev.ScheduleChannelID == "" || ev.ScheduleMessageID == "" {
		return
	}
	emb := ui.ScheduleEmbed(ev, "", b.Cfg.ServerName, ev.PosterPath != "")
	comps := ui.TakeScheduleComponents(ev.ID)
	if ev.Judge != nil {
		comps = ui.TakenComponents(ev.Judge.Name)
	}
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ev.ScheduleChannelID,
		ID:         ev.ScheduleMessageID,
		Embeds:     &[]*discordgo.MessageEmbed{emb},
		Components: &comps,
	})
	if err != nil {
		log.Printf("[events] card refresh for %s failed: %v", ev.ID, err)
	}
}

func (b *Bot) handleEventEdit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanCreateEvents(i) {
		_ = d.SendEphemeral(s, i, "❌ You need a staff role to edit events.")
		return
	}

	opts := optionsOf(i)
	team1 := opts.user(s, "team1")
	team2 := opts.user(s, "team2")
	if team1 == nil || team2 == nil {
		_ = d.SendEphemeral(s, i, "⚠️ Could not resolve both captains.")
		return
	}

	matches := b.Reg.ListByChannelCaptains(i.ChannelID, team1.ID, team2.ID)
	if len(matches) == 0 {
		_ = d.SendEphemeral(s, i, "⚠️ No scheduled event for those captains in this channel.")
		return
	}
	target := matches[0]

	startsAt := target.StartsAt
	if opts.has("hour") || opts.has("minute") || opts.has("date") || opts.has("month") {
		now := time.Now().UTC()
		var err error
		startsAt, err = buildStartTime(
			opts.integer("hour", target.StartsAt.Hour()),
			opts.integer("minute", target.StartsAt.Minute()),
			opts.integer("date", target.StartsAt.Day()),
			opts.integer("month", int(target.StartsAt.Month())),
			now,
		)
		if err != nil {
			_ = d.SendEphemeral(s, i, "⚠️ "+err.Error())
			return
		}
	}

	uerr := b.Reg.Update(target.ID, func(e *schedule.Event) {
		e.StartsAt = startsAt
		if v := opts.str("tournament"); v != "" {
			e.Tournament = v
		}
		if v := opts.str("round"); v != "" {
			e.Round = v
		}
	})
	if uerr != nil {
		_ = d.SendEphemeral(s, i, "⚠️ Event vanished while editing.")
		return
	}

	// Re-arm the reminder against the new start; cancel-and-replace makes
	// this safe even if the old one was due imminently.
	b.Sched.ScheduleReminder(target.ID, startsAt.Add(-schedule.ReminderLead))

	if ev, ok := b.Reg.Get(target.ID); ok {
		b.refreshScheduleCard(s, ev)
	}
	if err := b.Reg.Save(); err != nil {
		log.Printf("[events] snapshot save failed: %v", err)
		metrics.SnapshotErrors.Inc()
	}

	_ = d.SendEphemeral(s, i, fmt.Sprintf("✅ Event updated. New time: <t:%d:F>", startsAt.Unix()))
}

func (b *Bot) handleEventDelete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanCreateEvents(i) {
		_ = d.SendEphemeral(s, i, "❌ You need a staff role to delete events.")
		return
	}
	events := b.Reg.List()
	if len(events) == 0 {
		_ = d.SendEphemeral(s, i, "📭 No scheduled events to delete.")
		return
	}
	_ = d.SendEphemeralComplex(s, i,
		ui.DeleteMenuEmbed(len(events), b.Cfg.ServerName),
		ui.DeleteSelectComponents(events))
}

func (b *Bot) handleDeleteSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanCreateEvents(i) {
		_ = d.SendEphemeral(s, i, "❌ You need a staff role to delete events.")
		return
	}
	vals := i.MessageComponentData().Values
	if len(vals) == 0 {
		_ = d.SendEphemeral(s, i, "⚠️ Nothing selected.")
		return
	}

	ev, err := b.Reg.Delete(vals[0])
	if err != nil {
		_ = d.SendEphemeral(s, i, "⚠️ That event is already gone.")
		return
	}

	messageDeleted := false
	if ev.ScheduleChannelID != "" && ev.ScheduleMessageID != "" {
		if derr := b.Notify.DeleteScheduleMessage(ev.ScheduleChannelID, ev.ScheduleMessageID); derr != nil {
			log.Printf("[events] delete card for %s failed: %v", ev.ID, derr)
		} else {
			messageDeleted = true
		}
	}
	if ev.PosterPath != "" {
		if rerr := os.Remove(ev.PosterPath); rerr != nil && !os.IsNotExist(rerr) {
			log.Printf("[events] remove poster for %s failed: %v", ev.ID, rerr)
		}
	}
	if ev.Judge != nil {
		if rerr := b.Notify.RevokeChannelAccess(ev.ChannelID, ev.Judge.ID); rerr != nil {
			log.Printf("[events] revoke access for %s failed: %v", ev.ID, rerr)
		}
	}
	if err := b.Reg.Save(); err != nil {
		log.Printf("[events] snapshot save failed: %v", err)
		metrics.SnapshotErrors.Inc()
	}

	_ = d.UpdateComponentMessage(s, i,
		ui.DeletedEventEmbed(ev, messageDeleted, b.Cfg.ServerName),
		[]discordgo.MessageComponent{})
}
