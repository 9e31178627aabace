// Command bot starts the tournament bot process.
//
// this binary:
//  1. loads config from environment variables (.env during dev)
//  2. restores the event registry and rules document from their json files
//  3. creates a discord session and registers the app handlers
//  4. opens the gateway connection and waits for an OS signal to exit
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/devils-spot/tourney-bot/internal/app"
	"github.com/devils-spot/tourney-bot/internal/metrics"
	"github.com/devils-spot/tourney-bot/internal/rules"
	"github.com/devils-spot/tourney-bot/internal/schedule"
	"github.com/devils-spot/tourney-bot/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Restore persisted state before touching the gateway: a registry that
	// fails to load is a deployment problem, not something to limp past.
	reg := schedule.NewRegistry(cfg.EventsFile)
	if err := reg.Load(); err != nil {
		log.Fatalf("events snapshot error: %v", err)
	}
	if swept := reg.SweepStale(schedule.StaleAge); swept > 0 {
		log.Printf("swept %d stale event(s)", swept)
		if err := reg.Save(); err != nil {
			log.Printf("snapshot save after sweep failed: %v", err)
		}
	}

	rulesStore := rules.NewStore(cfg.RulesFile)
	if err := rulesStore.Load(); err != nil {
		log.Fatalf("rules file error: %v", err)
	}

	sess, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatalf("discord session error: %v", err)
	}
	// Slash commands and components arrive without extra intents; guild
	// members are needed for role checks on exchanges.
	sess.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	b := app.NewBot(sess, cfg, reg, rulesStore)
	if err := b.RegisterHandlers(); err != nil {
		log.Fatalf("command registration error: %v", err)
	}

	if err := sess.Open(); err != nil {
		log.Fatalf("open gateway error: %v", err)
	}
	defer sess.Close()

	metrics.Serve(cfg.MetricsAddr)

	log.Printf("🤖 bot ready - %s (%d event(s) live)", cfg.Redacted(), reg.Len())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	// Final snapshot on the way out; timers die with the process.
	if err := reg.Save(); err != nil {
		log.Printf("final snapshot save failed: %v", err)
	}
}
