package app

import (
	"github.com/bwmarrin/discordgo"

	disc "github.com/devils-spot/tourney-bot/internal/adapters/discord"
	"github.com/devils-spot/tourney-bot/internal/poster"
	"github.com/devils-spot/tourney-bot/internal/rules"
	"github.com/devils-spot/tourney-bot/internal/schedule"
	"github.com/devils-spot/tourney-bot/pkg/config"
)

// Bot wires the registry, scheduler, rules store, and poster renderer to the
// discord session.
type Bot struct {
	Sess   *discordgo.Session
	Cfg    *config.Config
	Reg    *schedule.Registry
	Sched  *schedule.Scheduler
	Notify *disc.Notifier
	Policy *disc.Policy
	Rules  *rules.Store
	Poster *poster.Renderer
}

func NewBot(s *discordgo.Session, cfg *config.Config, reg *schedule.Registry, rulesStore *rules.Store) *Bot {
	notify := disc.NewNotifier(s, cfg)
	return &Bot{
		Sess:   s,
		Cfg:    cfg,
		Reg:    reg,
		Sched:  schedule.NewScheduler(reg, notify),
		Notify: notify,
		Policy: disc.NewPolicy(cfg),
		Rules:  rulesStore,
		Poster: poster.New(cfg.TemplatesDir, cfg.FontsDir),
	}
}

// RegisterHandlers attaches the interaction router and registers the slash
// command set with the guild.
func (b *Bot) RegisterHandlers() error {
	b.Sess.AddHandler(b.HandleInteraction)
	return RegisterCommands(b.Sess, b.Cfg.AppID, b.Cfg.GuildID)
}
