// internal/adapters/discord/policy.go
// Role gates for the command surface. Administrator always passes.

package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/devils-spot/tourney-bot/pkg/config"
)

// Policy answers "may this member do X" from the configured role ids.
type Policy struct {
	cfg *config.Config
}

func NewPolicy(cfg *config.Config) *Policy {
	return &Policy{cfg: cfg}
}

func memberHasRole(m *discordgo.Member, roleIDs ...string) bool {
	if m == nil {
		return false
	}
	if m.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, have := range m.Roles {
		for _, want := range roleIDs {
			if want != "" && have == want {
				return true
			}
		}
	}
	return false
}

// CanCreateEvents gates event-create, event-delete, event-edit, and
// exchange-judge: head organizer, head helper, or helper team.
func (p *Policy) CanCreateEvents(i *discordgo.InteractionCreate) bool {
	return memberHasRole(i.Member,
		p.cfg.HeadOrganizerRoleID, p.cfg.HeadHelperRoleID, p.cfg.HelperTeamRoleID)
}

// CanPostResults gates event-result: head organizer or judge.
func (p *Policy) CanPostResults(i *discordgo.InteractionCreate) bool {
	return memberHasRole(i.Member, p.cfg.HeadOrganizerRoleID, p.cfg.JudgeRoleID)
}

// CanClaim gates the take-schedule button: head organizer or judge.
func (p *Policy) CanClaim(i *discordgo.InteractionCreate) bool {
	return memberHasRole(i.Member, p.cfg.HeadOrganizerRoleID, p.cfg.JudgeRoleID)
}

// CanManageRules gates the rules management panel: head organizer only.
func (p *Policy) CanManageRules(i *discordgo.InteractionCreate) bool {
	return memberHasRole(i.Member, p.cfg.HeadOrganizerRoleID)
}

// CanViewUnassigned is the broader read-only set: any staff or judge role.
func (p *Policy) CanViewUnassigned(i *discordgo.InteractionCreate) bool {
	return memberHasRole(i.Member,
		p.cfg.HeadOrganizerRoleID, p.cfg.HeadHelperRoleID,
		p.cfg.HelperTeamRoleID, p.cfg.JudgeRoleID)
}

// HasJudgeRole reports whether member carries the judge role itself (no
// administrator shortcut; exchange requires the literal role).
func (p *Policy) HasJudgeRole(m *discordgo.Member) bool {
	if m == nil {
		return false
	}
	for _, have := range m.Roles {
		if have == p.cfg.JudgeRoleID {
			return true
		}
	}
	return false
}
