// internal/ui/embeds.go
// Embed builders for schedule cards, results, reminders, and rules.

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/devils-spot/tourney-bot/internal/rules"
	"github.com/devils-spot/tourney-bot/internal/schedule"
)

const (
	colorBlue   = 0x3498DB
	colorGreen  = 0x57F287
	colorGold   = 0xF1C40F
	colorOrange = 0xE67E22
	colorRed    = 0xED4245
	colorPurple = 0x9B59B6

	spacer = "​"
)

func footer(text string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: text}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ScheduleEmbed is the claimable match card. The judge line flips from
// "To be assigned" to the bound judge, and the color from blue to green,
// when the card is rebuilt after a claim.
func ScheduleEmbed(ev schedule.Event, createdBy, serverName string, hasPoster bool) *discordgo.MessageEmbed {
	ts := ev.StartsAt.Unix()

	emb := &discordgo.MessageEmbed{
		Title: "Schedule",
		Description: fmt.Sprintf("🗓️ %s VS %s",
			refName(ev.Team1), refName(ev.Team2)),
		Color:     colorBlue,
		Timestamp: nowStamp(),
		Footer:    footer("Event Management • " + serverName),
	}

	details := fmt.Sprintf(
		"**Tournament:** %s\n**UTC Time:** %s\n**Local Time:** <t:%d:F> (<t:%d:R>)\n**Round:** %s\n**Channel:** <#%s>",
		ev.Tournament, utcClock(ev.StartsAt), ts, ts, ev.Round, ev.ChannelID)
	if ev.Group != "" {
		details += "\n**Group:** " + ev.Group
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name:   "📋 Event Details",
		Value:  details,
		Inline: false,
	})
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: spacer, Value: spacer})

	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name: "👑 Team Captains",
		Value: fmt.Sprintf("**Captains**\n▪ Team1 Captain: %s\n▪ Team2 Captain: %s",
			refMention(ev.Team1), refMention(ev.Team2)),
		Inline: false,
	})
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: spacer, Value: spacer})

	judgeLine := "▪ Judge: *To be assigned*"
	if ev.Judge != nil {
		judgeLine = fmt.Sprintf("▪ Judge: %s `@%s`", refMention(ev.Judge), refName(ev.Judge))
		emb.Color = colorGreen
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name:   "👨‍⚖️ Staff",
		Value:  "**Staffs**\n" + judgeLine,
		Inline: false,
	})

	if createdBy != "" {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{Name: spacer, Value: spacer})
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name:   "👤 Created By",
			Value:  createdBy,
			Inline: false,
		})
	}

	if hasPoster {
		emb.Image = &discordgo.MessageEmbedImage{URL: "attachment://event_poster.png"}
	}
	return emb
}

// JudgeAssignedEmbed announces a successful claim in the event channel.
func JudgeAssignedEmbed(ev schedule.Event, judge schedule.UserRef, serverName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "👨‍⚖️ Judge Assigned",
		Description: fmt.Sprintf("**%s** has been assigned as the judge for this match!", judge.Name),
		Color:       colorGreen,
		Timestamp:   nowStamp(),
		Footer:      footer("Judge Assignment • " + serverName),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📋 Match Details",
				Value: fmt.Sprintf("**Team 1:** %s\n**Team 2:** %s",
					refMention(ev.Team1), refMention(ev.Team2)),
				Inline: false,
			},
			{
				Name:   "👨‍⚖️ Judge",
				Value:  fmt.Sprintf("%s `@%s`\n✅ **Added to channel**", Mention(judge.ID), judge.Name),
				Inline: true,
			},
		},
	}
}

// JudgeExchangedEmbed announces a staff-driven judge swap.
func JudgeExchangedEmbed(ev schedule.Event, oldJudge, newJudge schedule.UserRef) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔁 Judge Exchanged",
		Description: fmt.Sprintf("**Old judge:** %s `@%s`\n**New judge:** %s `@%s`",
			Mention(oldJudge.ID), oldJudge.Name, Mention(newJudge.ID), newJudge.Name),
		Color:     colorPurple,
		Timestamp: nowStamp(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📋 Event",
				Value: fmt.Sprintf("<#%s> • Time: %s • %s",
					ev.ChannelID, utcClock(ev.StartsAt), ev.Round),
				Inline: false,
			},
			{
				Name: "🔐 Channel Access",
				Value: fmt.Sprintf("❌ **%s** removed from channel\n✅ **%s** added to channel",
					oldJudge.Name, newJudge.Name),
				Inline: false,
			},
		},
	}
}

// ReminderEmbed is the 10-minute pre-match notice.
func ReminderEmbed(ev schedule.Event) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{
		Title:       "⏰ 10-MINUTE MATCH REMINDER",
		Description: "**Your tournament match is starting in 10 minutes!**",
		Color:       colorOrange,
		Timestamp:   nowStamp(),
		Footer:      footer("Tournament Management System"),
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name:  "🕒 Match Time",
		Value: discordTime(ev.StartsAt, 'F'),
	})
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name:  "👥 Team Captains",
		Value: fmt.Sprintf("%s vs %s", refMention(ev.Team1), refMention(ev.Team2)),
	})
	if ev.Judge != nil {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name:  "👨‍⚖️ Judge",
			Value: refMention(ev.Judge),
		})
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name:  "📣 Action Required",
		Value: "Please prepare for the match and join the designated channel.",
	})
	return emb
}

// ResultInfo carries a submitted result into the results/attendance builders.
type ResultInfo struct {
	Winner      schedule.UserRef
	Loser       schedule.UserRef
	WinnerScore int
	LoserScore  int
	Tournament  string
	Round       string
	Remarks     string
	Judge       schedule.UserRef // the submitter
	Screenshots []string         // attachment labels, e.g. "SS-1"
}

// ResultsEmbed is the public result card for the results channel.
func ResultsEmbed(r ResultInfo, serverName string) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{
		Title: "Results",
		Description: fmt.Sprintf("🗓️ %s Vs %s\n**Tournament:** %s\n**Round:** %s",
			r.Winner.Name, r.Loser.Name, r.Tournament, r.Round),
		Color:     colorGold,
		Timestamp: nowStamp(),
		Footer:    footer("Event Results • " + serverName),
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Value: fmt.Sprintf("**Captains**\n▪ Team1 Captain: %s `@%s`\n▪ Team2 Captain: %s `@%s`",
			Mention(r.Winner.ID), r.Winner.Name, Mention(r.Loser.ID), r.Loser.Name),
	})
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Value: fmt.Sprintf("**Results**\n🏆 %s (%d) Vs (%d) %s 💀",
			r.Winner.Name, r.WinnerScore, r.LoserScore, r.Loser.Name),
	})
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Value: fmt.Sprintf("👨‍⚖️ **Staffs**\n▪ Judge: %s `@%s`", Mention(r.Judge.ID), r.Judge.Name),
	})
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name:  "📝 Remarks",
		Value: r.Remarks,
	})
	if len(r.Screenshots) > 0 {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Value: fmt.Sprintf("**Screenshots of Result (%d images)**\n📷 %s",
				len(r.Screenshots), strings.Join(r.Screenshots, " • ")),
		})
	}
	return emb
}

// AttendanceText is the plain staff attendance line for the attendance channel.
func AttendanceText(r ResultInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏅 %s Vs %s\n", r.Winner.Name, r.Loser.Name)
	fmt.Fprintf(&b, "**Round :** %s\n\n", r.Round)
	b.WriteString("**Results**\n")
	fmt.Fprintf(&b, "🏆 %s (%d) Vs (%d) %s 💀\n\n", r.Winner.Name, r.WinnerScore, r.LoserScore, r.Loser.Name)
	b.WriteString("**Staffs**\n")
	fmt.Fprintf(&b, "• Judge: %s `@%s`", Mention(r.Judge.ID), r.Judge.Name)
	return b.String()
}

// UnassignedEmbed lists events still waiting for a judge, earliest first.
func UnassignedEmbed(events []schedule.Event, guildID string) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{
		Title:       "📝 Unassigned Events",
		Description: "Events without a judge. Use the message link to take the schedule.",
		Color:       colorOrange,
		Timestamp:   nowStamp(),
		Footer:      footer("Use the link to open the original schedule and press Take Schedule."),
	}

	if len(events) > 25 {
		events = events[:25]
	}
	lines := make([]string, 0, len(events))
	for idx, ev := range events {
		line := fmt.Sprintf("%d. %s vs %s • %s • %s",
			idx+1, refName(ev.Team1), refName(ev.Team2), ev.Round, utcClock(ev.StartsAt))
		if guildID != "" && ev.ScheduleChannelID != "" && ev.ScheduleMessageID != "" {
			line += fmt.Sprintf("\n↪ https://discord.com/channels/%s/%s/%s",
				guildID, ev.ScheduleChannelID, ev.ScheduleMessageID)
		}
		lines = append(lines, line)
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name:  fmt.Sprintf("Available (%d)", len(events)),
		Value: strings.Join(lines, "\n\n"),
	})
	return emb
}

// DeleteMenuEmbed heads the event-delete select.
func DeleteMenuEmbed(count int, serverName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🗑️ Delete Event",
		Description: "Select an event from the dropdown below to delete it.",
		Color:       colorOrange,
		Timestamp:   nowStamp(),
		Footer:      footer("Event Management • " + serverName),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "📋 Available Events",
				Value: fmt.Sprintf("Found %d scheduled event(s)", count),
			},
		},
	}
}

// DeletedEventEmbed confirms a completed cascade delete.
func DeletedEventEmbed(ev schedule.Event, messageDeleted bool, serverName string) *discordgo.MessageEmbed {
	actions := []string{
		"• Event removed from schedule",
		"• Reminder cancelled",
		"• Judge assignment cleared",
	}
	if messageDeleted {
		actions = append(actions, "• Original schedule message deleted")
	}
	if ev.PosterPath != "" {
		actions = append(actions, "• Temporary poster file cleaned up")
	}
	return &discordgo.MessageEmbed{
		Title:       "🗑️ Event Deleted",
		Description: "Event has been successfully deleted.",
		Color:       colorRed,
		Timestamp:   nowStamp(),
		Footer:      footer("Event Management • " + serverName),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📋 Deleted Event Details",
				Value: fmt.Sprintf("**Round:** %s\n**Tournament:** %s\n**Time:** %s",
					ev.Round, ev.Tournament, utcClock(ev.StartsAt)),
			},
			{
				Name:  "✅ Actions Completed",
				Value: strings.Join(actions, "\n"),
			},
		},
	}
}

// RulesEmbed renders the public rules view.
func RulesEmbed(doc rules.Document, hasRules bool, serverName string) *discordgo.MessageEmbed {
	if !hasRules {
		return &discordgo.MessageEmbed{
			Title:       "📋 Tournament Rules",
			Description: "No tournament rules have been set yet.",
			Color:       colorOrange,
			Timestamp:   nowStamp(),
			Footer:      footer(serverName + " Tournament System"),
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "📋 Tournament Rules",
		Description: doc.Content,
		Color:       colorBlue,
		Timestamp:   nowStamp(),
		Footer:      footer(fmt.Sprintf("%s • Last updated by %s (v%d)", serverName, doc.UpdatedBy.Username, doc.Version)),
	}
}

// RulesManageEmbed heads the organizer management panel.
func RulesManageEmbed(current string, serverName string) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{
		Title:       "📋 Tournament Rules Management",
		Description: "Choose an action to manage tournament rules:",
		Color:       colorBlue,
		Timestamp:   nowStamp(),
		Footer:      footer(serverName + " • Organizer Panel"),
	}
	if current == "" {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name: "Current Status", Value: "❌ No rules set", Inline: true,
		})
		return emb
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name: "Current Status", Value: "✅ Rules are set", Inline: true,
	})
	preview := current
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name: "Preview", Value: "```\n" + preview + "\n```",
	})
	return emb
}

// RulesSavedEmbed confirms a rules update to the editor.
func RulesSavedEmbed(content, editor string) *discordgo.MessageEmbed {
	emb := &discordgo.MessageEmbed{
		Title:       "✅ Rules Updated Successfully",
		Description: "Tournament rules have been saved.",
		Color:       colorGreen,
		Timestamp:   nowStamp(),
		Footer:      footer("Updated by " + editor),
	}
	if content == "" {
		emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
			Name: "Status", Value: "Rules have been cleared (empty)",
		})
		return emb
	}
	preview := content
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}
	emb.Fields = append(emb.Fields, &discordgo.MessageEmbedField{
		Name: "Rules Preview", Value: "```\n" + preview + "\n```",
	})
	return emb
}

// HelpEmbed is the command guide.
func HelpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎯 Event Management Bot - Command Guide",
		Description: "Complete list of available slash commands for event management.",
		Color:       colorBlue,
		Footer:      footer("🎯 Event Management System"),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "⚙️ **System Commands**",
				Value: "`/help` - Display this command guide\n" +
					"`/rules` - Manage or view tournament rules",
			},
			{
				Name: "🏆 **Event Management**",
				Value: "`/event-create` - Create tournament events (staff)\n" +
					"`/event-result` - Record event results (organizer/judge)\n" +
					"`/event-edit` - Edit a scheduled event (staff)\n" +
					"`/event-delete` - Delete scheduled events (staff)\n" +
					"`/exchange-judge` - Swap the judge on taken events (staff)\n" +
					"`/unassigned-events` - List events without a judge",
			},
			{
				Name: "⚖️ **Utility Commands**",
				Value: "`/team-balance` - Balance teams by player levels\n" +
					"`/time` - Generate random match time (12:00-17:00 UTC)\n" +
					"`/choose` - Random choice from comma-separated options",
			},
		},
	}
}
