// internal/app/rules.go
// The /rules command, the organizer panel buttons, and the entry modal.

package app

import (
	"log"

	"github.com/bwmarrin/discordgo"

	d "github.com/devils-spot/tourney-bot/internal/adapters/discord"
	"github.com/devils-spot/tourney-bot/internal/rules"
	"github.com/devils-spot/tourney-bot/internal/ui"
)

// handleRules shows the management panel to organizers and the plain rules
// view to everyone else.
func (b *Bot) handleRules(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.Policy.CanManageRules(i) {
		_ = d.SendEphemeralComplex(s, i,
			ui.RulesManageEmbed(b.Rules.Content(), b.Cfg.ServerName),
			ui.RulesManageComponents())
		return
	}
	b.showRules(s, i)
}

func (b *Bot) showRules(s *discordgo.Session, i *discordgo.InteractionCreate) {
	doc, ok := b.Rules.Current()
	_ = d.SendEphemeralEmbed(s, i, ui.RulesEmbed(doc, ok, b.Cfg.ServerName))
}

func (b *Bot) handleRulesButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if customID == ui.RulesShowID {
		b.showRules(s, i)
		return
	}
	if !b.Policy.CanManageRules(i) {
		_ = d.SendEphemeral(s, i, "❌ Only the head organizer can change the rules.")
		return
	}
	switch customID {
	case ui.RulesEnterID:
		_ = d.ShowModal(s, i, ui.RulesModal("Enter Tournament Rules", ""))
	case ui.RulesEditID:
		_ = d.ShowModal(s, i, ui.RulesModal("Edit Tournament Rules", b.Rules.Content()))
	}
}

func (b *Bot) handleRulesModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Policy.CanManageRules(i) {
		_ = d.SendEphemeral(s, i, "❌ Only the head organizer can change the rules.")
		return
	}
	content := modalInputValue(i, ui.RulesInputID)

	u := d.UserOf(i)
	editor := rules.Updater{UserID: "unknown", Username: "unknown"}
	if u != nil {
		editor = rules.Updater{UserID: u.ID, Username: u.Username}
	}

	if err := b.Rules.Update(content, editor); err != nil {
		log.Printf("[rules] save failed: %v", err)
		_ = d.SendEphemeral(s, i, "⚠️ Could not save the rules: "+err.Error())
		return
	}
	doc, _ := b.Rules.Current()
	log.Printf("[rules] updated to v%d by %s", doc.Version, editor.Username)
	_ = d.SendEphemeralEmbed(s, i, ui.RulesSavedEmbed(doc.Content, editor.Username))
}

// modalInputValue digs the named text input out of a modal submission.
func modalInputValue(i *discordgo.InteractionCreate, inputID string) string {
	for _, row := range i.ModalSubmitData().Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range ar.Components {
			if ti, ok := c.(*discordgo.TextInput); ok && ti.CustomID == inputID {
				return ti.Value
			}
		}
	}
	return ""
}
