// internal/adapters/discord/notifier.go
// Outbound side effects: channel grants, assignment/exchange notifications,
// reminders, and card deletion. Implements schedule.Notifier.

package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/devils-spot/tourney-bot/internal/schedule"
	"github.com/devils-spot/tourney-bot/internal/ui"
	"github.com/devils-spot/tourney-bot/pkg/config"
)

// judgePerms is what an assigned judge needs in the event channel.
const judgePerms = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionEmbedLinks |
	discordgo.PermissionAttachFiles |
	discordgo.PermissionReadMessageHistory

type Notifier struct {
	sess *discordgo.Session
	cfg  *config.Config
}

func NewNotifier(s *discordgo.Session, cfg *config.Config) *Notifier {
	return &Notifier{sess: s, cfg: cfg}
}

// GrantChannelAccess adds userID to the event channel with judge permissions.
func (n *Notifier) GrantChannelAccess(channelID, userID string) error {
	return n.sess.ChannelPermissionSet(channelID, userID,
		discordgo.PermissionOverwriteTypeMember, judgePerms, 0)
}

// RevokeChannelAccess removes userID's overwrite from the event channel.
func (n *Notifier) RevokeChannelAccess(channelID, userID string) error {
	return n.sess.ChannelPermissionDelete(channelID, userID)
}

// SendJudgeAssigned pings the judge and both captains in the event channel.
func (n *Notifier) SendJudgeAssigned(ev schedule.Event, judge schedule.UserRef) error {
	if ev.ChannelID == "" {
		return nil
	}
	content := "🔔 " + ui.Mention(judge.ID)
	if ev.Team1 != nil {
		content += " " + ui.Mention(ev.Team1.ID)
	}
	if ev.Team2 != nil {
		content += " " + ui.Mention(ev.Team2.ID)
	}
	_, err := n.sess.ChannelMessageSendComplex(ev.ChannelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{ui.JudgeAssignedEmbed(ev, judge, n.cfg.ServerName)},
	})
	return err
}

// SendJudgeExchanged announces the swap in the event channel.
func (n *Notifier) SendJudgeExchanged(ev schedule.Event, oldJudge, newJudge schedule.UserRef) error {
	if ev.ChannelID == "" {
		return nil
	}
	_, err := n.sess.ChannelMessageSendComplex(ev.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{ui.JudgeExchangedEmbed(ev, oldJudge, newJudge)},
	})
	return err
}

// SendMatchReminder delivers the pre-match ping with the judge bound at fire
// time.
func (n *Notifier) SendMatchReminder(ev schedule.Event) error {
	if ev.ChannelID == "" {
		return fmt.Errorf("event %s has no channel", ev.ID)
	}
	pings := ""
	if ev.Judge != nil {
		pings += ui.Mention(ev.Judge.ID) + " "
	}
	if ev.Team1 != nil {
		pings += ui.Mention(ev.Team1.ID) + " "
	}
	if ev.Team2 != nil {
		pings += ui.Mention(ev.Team2.ID)
	}
	content := fmt.Sprintf("🔔 **MATCH REMINDER**\n\n%s\n\nYour match starts in **10 minutes**!", pings)
	_, err := n.sess.ChannelMessageSendComplex(ev.ChannelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{ui.ReminderEmbed(ev)},
	})
	return err
}

// DeleteScheduleMessage removes the posted card. A message that is already
// gone (10008) or a deleted channel (10003) is not an error.
func (n *Notifier) DeleteScheduleMessage(channelID, messageID string) error {
	err := n.sess.ChannelMessageDelete(channelID, messageID)
	if re, ok := err.(*discordgo.RESTError); ok && re.Message != nil {
		switch re.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			log.Printf("[notifier] card %s/%s already gone", channelID, messageID)
			return nil
		}
	}
	return err
}
