// internal/app/results.go
// event-result: record the outcome, publish results + attendance, arm cleanup.

package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	d "github.com/devils-spot/tourney-bot/internal/adapters/discord"
	"github.com/devils-spot/tourney-bot/internal/metrics"
	"github.com/devils-spot/tourney-bot/internal/schedule"
	"github.com/devils-spot/tourney-bot/internal/ui"
)

const maxScreenshotBytes = 8 << 20 // discord upload cap for bots without boosts

var screenshotClient = &http.Client{Timeout: 30 * time.Second}

func (b *Bot) handleEventResult(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanPostResults(i) {
		_ = d.SendEphemeral(s, i, "❌ Only organizers and judges can record results.")
		return
	}

	opts := optionsOf(i)
	winner := opts.user(s, "winner")
	loser := opts.user(s, "loser")
	if winner == nil || loser == nil {
		_ = d.SendEphemeral(s, i, "⚠️ Could not resolve both captains.")
		return
	}
	if winner.ID == loser.ID {
		_ = d.SendEphemeral(s, i, "⚠️ Winner and loser are the same user.")
		return
	}

	winnerScore := opts.integer("winner_score", -1)
	loserScore := opts.integer("loser_score", -1)
	if winnerScore < 0 || loserScore < 0 {
		_ = d.SendEphemeral(s, i, "⚠️ Scores cannot be negative.")
		return
	}

	remarks := opts.str("remarks")
	if remarks == "" {
		remarks = "ggwp"
	}

	submitter := d.UserOf(i)
	if submitter == nil {
		_ = d.SendEphemeral(s, i, "⚠️ Could not identify you.")
		return
	}

	// Screenshots re-upload via download, which can run past the ack window.
	if err := d.DeferEphemeral(s, i); err != nil {
		return
	}

	judge := schedule.UserRef{ID: submitter.ID, Name: d.DisplayNameOf(i)}
	res := schedule.Result{
		Winner:      schedule.UserRef{ID: winner.ID, Name: winner.Username},
		Loser:       schedule.UserRef{ID: loser.ID, Name: loser.Username},
		WinnerScore: winnerScore,
		LoserScore:  loserScore,
		Tournament:  opts.str("tournament"),
		Round:       opts.str("round"),
		Remarks:     remarks,
	}

	// Record against every matching event in this channel; write-once per
	// event, so a re-submitted result only arms cleanup again.
	matches := b.Reg.ListByChannelCaptains(i.ChannelID, winner.ID, loser.ID)
	recorded := 0
	for _, ev := range matches {
		err := b.Reg.SetResult(ev.ID, res)
		switch {
		case err == nil:
			recorded++
		case errors.Is(err, schedule.ErrResultRecorded):
			log.Printf("[results] %s already has a result, rearming cleanup only", ev.ID)
		default:
			log.Printf("[results] set result on %s failed: %v", ev.ID, err)
			continue
		}
		b.Sched.ScheduleCleanup(ev.ID, time.Duration(b.Cfg.CleanupDelayHours)*time.Hour)
	}

	files, labels := b.collectScreenshots(i, opts)

	info := ui.ResultInfo{
		Winner:      res.Winner,
		Loser:       res.Loser,
		WinnerScore: winnerScore,
		LoserScore:  loserScore,
		Tournament:  res.Tournament,
		Round:       res.Round,
		Remarks:     remarks,
		Judge:       judge,
		Screenshots: labels,
	}

	if b.Cfg.ResultsChannelID != "" {
		_, err := s.ChannelMessageSendComplex(b.Cfg.ResultsChannelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{ui.ResultsEmbed(info, b.Cfg.ServerName)},
			Files:  files,
		})
		if err != nil {
			log.Printf("[results] results post failed: %v", err)
		}
	}
	if b.Cfg.AttendanceChannelID != "" {
		if _, err := s.ChannelMessageSend(b.Cfg.AttendanceChannelID, ui.AttendanceText(info)); err != nil {
			log.Printf("[results] attendance post failed: %v", err)
		}
	}

	if err := b.Reg.Save(); err != nil {
		log.Printf("[results] snapshot save failed: %v", err)
		metrics.SnapshotErrors.Inc()
	}

	_ = d.FollowupEphemeral(s, i, fmt.Sprintf(
		"✅ Result recorded: **%s %d - %d %s**. Cleanup runs in %dh for %d event(s).",
		winner.Username, winnerScore, loserScore, loser.Username,
		b.Cfg.CleanupDelayHours, recorded))
}

// collectScreenshots downloads the ss1..ss11 attachments for re-upload into
// the results channel. Oversized or unfetchable ones are skipped with a log
// line; the result post goes out regardless.
func (b *Bot) collectScreenshots(i *discordgo.InteractionCreate, opts options) ([]*discordgo.File, []string) {
	var files []*discordgo.File
	var labels []string
	for n := 1; n <= 11; n++ {
		att := opts.attachment(i, fmt.Sprintf("ss%d", n))
		if att == nil {
			continue
		}
		if att.Size > maxScreenshotBytes {
			log.Printf("[results] skipping %s: %d bytes over upload cap", att.Filename, att.Size)
			continue
		}
		data, err := fetchAttachment(att.URL)
		if err != nil {
			log.Printf("[results] fetch %s failed: %v", att.Filename, err)
			continue
		}
		files = append(files, &discordgo.File{
			Name:        fmt.Sprintf("SS-%d-%s", n, att.Filename),
			ContentType: att.ContentType,
			Reader:      bytes.NewReader(data),
		})
		labels = append(labels, fmt.Sprintf("SS-%d", n))
	}
	return files, labels
}

func fetchAttachment(url string) ([]byte, error) {
	resp, err := screenshotClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxScreenshotBytes+1))
}
