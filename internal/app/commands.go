// internal/app/commands.go
package app

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func intOption(name, desc string, required bool, min, max float64) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: desc,
		Required:    required,
		MinValue:    &min,
		MaxValue:    max,
	}
}

var roundChoices = func() []*discordgo.ApplicationCommandOptionChoice {
	names := []string{
		"R1", "R2", "R3", "R4", "R5", "R6", "R7", "R8", "R9", "R10",
		"Qualifier", "Semi Final", "Final",
	}
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, n := range names {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: n, Value: n})
	}
	return out
}()

// screenshotOptions builds ss1..ss11; only the first is required.
func screenshotOptions() []*discordgo.ApplicationCommandOption {
	out := make([]*discordgo.ApplicationCommandOption, 0, 11)
	for n := 1; n <= 11; n++ {
		out = append(out, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionAttachment,
			Name:        fmt.Sprintf("ss%d", n),
			Description: fmt.Sprintf("Result screenshot %d", n),
			Required:    n == 1,
		})
	}
	return out
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "event-create",
		Description: "Create a tournament event with a claimable schedule card",
		Type:        discordgo.ChatApplicationCommand,
		Options: append([]*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "team1",
				Description: "Team 1 captain",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "team2",
				Description: "Team 2 captain",
				Required:    true,
			},
			intOption("hour", "Match hour (UTC, 0-23)", true, 0, 23),
			intOption("minute", "Match minute (0-59)", true, 0, 59),
			intOption("date", "Day of month (1-31)", true, 1, 31),
			intOption("month", "Month (1-12)", true, 1, 12),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tournament",
				Description: "Tournament name",
				Required:    true,
			},
		},
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "round",
				Description: "Tournament round",
				Required:    true,
				Choices:     roundChoices,
			},
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "group",
				Description: "Bracket or group label (optional)",
				Required:    false,
			},
		),
	},
	{
		Name:        "event-result",
		Description: "Record a match result with screenshots",
		Type:        discordgo.ChatApplicationCommand,
		Options: append([]*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "winner",
				Description: "Winning team captain",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "loser",
				Description: "Losing team captain",
				Required:    true,
			},
			intOption("winner_score", "Winner's score", true, 0, 999),
			intOption("loser_score", "Loser's score", true, 0, 999),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tournament",
				Description: "Tournament name",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "round",
				Description: "Tournament round",
				Required:    true,
				Choices:     roundChoices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "remarks",
				Description: "Remarks (defaults to ggwp)",
				Required:    false,
			},
		}, screenshotOptions()...),
	},
	{
		Name:        "event-edit",
		Description: "Edit a scheduled event's time or details",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "team1",
				Description: "Team 1 captain of the event to edit",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "team2",
				Description: "Team 2 captain of the event to edit",
				Required:    true,
			},
			intOption("hour", "New match hour (UTC, 0-23)", false, 0, 23),
			intOption("minute", "New match minute (0-59)", false, 0, 59),
			intOption("date", "New day of month (1-31)", false, 1, 31),
			intOption("month", "New month (1-12)", false, 1, 12),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tournament",
				Description: "New tournament name",
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "round",
				Description: "New round",
				Required:    false,
				Choices:     roundChoices,
			},
		},
	},
	{
		Name:        "event-delete",
		Description: "Delete a scheduled event",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "exchange-judge",
		Description: "Swap the judge on taken events in a channel",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "current_judge",
				Description: "Judge currently holding the events",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "new_judge",
				Description: "Judge to hand the events to",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Event channel (defaults to this one)",
				Required:    false,
			},
		},
	},
	{
		Name:        "unassigned-events",
		Description: "List events still waiting for a judge",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "rules",
		Description: "View tournament rules (organizers get the management panel)",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "help",
		Description: "Show the command guide",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "time",
		Description: "Generate a random match time between 12:00 and 17:00 UTC",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "choose",
		Description: "Pick randomly from comma-separated options (default: map pool)",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "options",
				Description: "Comma-separated choices, e.g. Mirage, Inferno, Nuke",
				Required:    false,
			},
			intOption("count", "How many picks (default 1)", false, 1, 7),
		},
	},
	{
		Name:        "team-balance",
		Description: "Split players into two balanced teams by level",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "players",
				Description: "name:level pairs, comma-separated, e.g. ana:7, bo:5, cy:6, dee:4",
				Required:    true,
			},
		},
	},
}

// RegisterCommands creates (or updates) guild-level commands.
func RegisterCommands(s *discordgo.Session, appID, guildID string) error {
	for _, c := range commands {
		if _, err := s.ApplicationCommandCreate(appID, guildID, c); err != nil {
			return err
		}
	}
	return nil
}
