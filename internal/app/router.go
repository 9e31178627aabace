// internal/app/router.go
package app

import (
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	d "github.com/devils-spot/tourney-bot/internal/adapters/discord"
	"github.com/devils-spot/tourney-bot/internal/ui"
)

// HandleInteraction is the single gateway entry point for slash commands,
// buttons, selects, and modals.
func (b *Bot) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlash(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	case discordgo.InteractionModalSubmit:
		b.handleModal(s, i)
	}
}

func (b *Bot) handleSlash(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	log.Printf("[slash] /%s by %s in %s", name, d.SafeName(d.UserOf(i)), i.ChannelID)

	switch name {
	case "event-create":
		b.handleEventCreate(s, i)
	case "event-result":
		b.handleEventResult(s, i)
	case "event-edit":
		b.handleEventEdit(s, i)
	case "event-delete":
		b.handleEventDelete(s, i)
	case "exchange-judge":
		b.handleExchangeJudge(s, i)
	case "unassigned-events":
		b.handleUnassigned(s, i)
	case "rules":
		b.handleRules(s, i)
	case "help":
		_ = d.SendEphemeralEmbed(s, i, ui.HelpEmbed())
	case "time":
		b.handleTime(s, i)
	case "choose":
		b.handleChoose(s, i)
	case "team-balance":
		b.handleTeamBalance(s, i)
	default:
		_ = d.SendEphemeral(s, i, "Unknown command.")
	}
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	log.Printf("[component] %s by %s", customID, d.SafeName(d.UserOf(i)))

	if id, ok := ui.ParseTakeSchedule(customID); ok {
		b.handleTakeSchedule(s, i, id)
		return
	}

	switch customID {
	case ui.DeleteSelectID:
		b.handleDeleteSelect(s, i)
	case ui.RulesEnterID, ui.RulesEditID, ui.RulesShowID:
		b.handleRulesButton(s, i, customID)
	}
}

func (b *Bot) handleModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ModalSubmitData().CustomID == ui.RulesModalID {
		b.handleRulesModal(s, i)
	}
}

// ---------------------------------------------------------------------------
// Option plumbing

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionsOf(i *discordgo.InteractionCreate) options {
	data := i.ApplicationCommandData()
	out := make(options, len(data.Options))
	for _, o := range data.Options {
		out[o.Name] = o
	}
	return out
}

func (o options) str(name string) string {
	if v, ok := o[name]; ok {
		return strings.TrimSpace(v.StringValue())
	}
	return ""
}

func (o options) integer(name string, def int) int {
	if v, ok := o[name]; ok {
		return int(v.IntValue())
	}
	return def
}

func (o options) has(name string) bool {
	_, ok := o[name]
	return ok
}

func (o options) user(s *discordgo.Session, name string) *discordgo.User {
	if v, ok := o[name]; ok {
		return v.UserValue(s)
	}
	return nil
}

// attachment resolves an attachment option against the interaction's
// resolved-data map.
func (o options) attachment(i *discordgo.InteractionCreate, name string) *discordgo.MessageAttachment {
	v, ok := o[name]
	if !ok {
		return nil
	}
	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil {
		return nil
	}
	id, ok := v.Value.(string)
	if !ok {
		return nil
	}
	return resolved.Attachments[id]
}
