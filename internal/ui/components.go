// internal/ui/components.go
// Message component builders: claim buttons, delete select, rules panel.

package ui

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/devils-spot/tourney-bot/internal/schedule"
)

// TakeScheduleComponents is the claim button row on an open schedule card.
func TakeScheduleComponents(eventID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Take Schedule",
					Style:    discordgo.SuccessButton,
					CustomID: TakeScheduleCustomID(eventID),
					Emoji:    &discordgo.ComponentEmoji{Name: "⚖️"},
				},
			},
		},
	}
}

// TakenComponents replaces the claim button once a judge is bound. The
// button stays visible but dead so late clickers see who won.
func TakenComponents(judgeName string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Taken by " + judgeName,
					Style:    discordgo.SecondaryButton,
					CustomID: "take_schedule_done",
					Disabled: true,
					Emoji:    &discordgo.ComponentEmoji{Name: "✅"},
				},
			},
		},
	}
}

// DeleteSelectComponents builds the event-delete dropdown. Discord caps
// select menus at 25 options; callers pass events in schedule order so the
// soonest ones always make the cut.
func DeleteSelectComponents(events []schedule.Event) []discordgo.MessageComponent {
	if len(events) > 25 {
		events = events[:25]
	}
	opts := make([]discordgo.SelectMenuOption, 0, len(events))
	for _, ev := range events {
		label := fmt.Sprintf("%s vs %s", refName(ev.Team1), refName(ev.Team2))
		if len(label) > 100 {
			label = label[:97] + "..."
		}
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       label,
			Value:       ev.ID,
			Description: fmt.Sprintf("%s • %s", ev.Round, utcClock(ev.StartsAt)),
			Emoji:       &discordgo.ComponentEmoji{Name: "🗓️"},
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    DeleteSelectID,
					Placeholder: "Select an event to delete...",
					Options:     opts,
				},
			},
		},
	}
}

// RulesManageComponents is the organizer panel button row.
func RulesManageComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Enter Rules",
					Style:    discordgo.SuccessButton,
					CustomID: RulesEnterID,
					Emoji:    &discordgo.ComponentEmoji{Name: "📝"},
				},
				discordgo.Button{
					Label:    "Edit Rules",
					Style:    discordgo.PrimaryButton,
					CustomID: RulesEditID,
					Emoji:    &discordgo.ComponentEmoji{Name: "✏️"},
				},
				discordgo.Button{
					Label:    "Show Rules",
					Style:    discordgo.SecondaryButton,
					CustomID: RulesShowID,
					Emoji:    &discordgo.ComponentEmoji{Name: "👁️"},
				},
			},
		},
	}
}

// RulesModal builds the rules entry modal, prefilled with the current text
// when editing.
func RulesModal(title, current string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: RulesModalID,
		Title:    title,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    RulesInputID,
						Label:       "Tournament Rules",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "Enter the tournament rules here...",
						Value:       current,
						Required:    true,
						MaxLength:   4000,
					},
				},
			},
		},
	}
}
