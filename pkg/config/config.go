// Package config loads the bot configuration.
//
// Precedence (low -> high):
//  1. defaults (New)
//  2. YAML file pointed at by TOURNEY_CONFIG
//  3. environment variables with the TOURNEY_ prefix (TOURNEY_TOKEN, ...)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Token   string `koanf:"token"`
	AppID   string `koanf:"app_id"`
	GuildID string `koanf:"guild_id"`

	// Fixed guild channels the bot posts into.
	ScheduleChannelID   string `koanf:"schedule_channel_id"`   // schedule cards + Take Schedule button
	ResultsChannelID    string `koanf:"results_channel_id"`    // result embeds + screenshots
	AttendanceChannelID string `koanf:"attendance_channel_id"` // staff attendance log

	// Role gates.
	JudgeRoleID         string `koanf:"judge_role_id"`
	HeadOrganizerRoleID string `koanf:"head_organizer_role_id"`
	HeadHelperRoleID    string `koanf:"head_helper_role_id"`
	HelperTeamRoleID    string `koanf:"helper_team_role_id"`

	// MaxAssignments caps concurrent schedules per judge (3 or 7 depending
	// on the deployment).
	MaxAssignments    int `koanf:"max_assignments"`
	CleanupDelayHours int `koanf:"cleanup_delay_hours"`

	EventsFile   string `koanf:"events_file"`
	RulesFile    string `koanf:"rules_file"`
	TemplatesDir string `koanf:"templates_dir"`
	FontsDir     string `koanf:"fonts_dir"`

	// ServerName shows up in embed footers and on posters.
	ServerName string `koanf:"server_name"`

	// MetricsAddr enables the prometheus listener when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		MaxAssignments:    3,
		CleanupDelayHours: 36,
		EventsFile:        "scheduled_events.json",
		RulesFile:         "tournament_rules.json",
		TemplatesDir:      "templates",
		FontsDir:          "fonts",
		ServerName:        "The Devil's Spot",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := New()
	k := koanf.New(".")

	if path := os.Getenv("TOURNEY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	// TOURNEY_SCHEDULE_CHANNEL_ID -> schedule_channel_id (flat keys,
	// underscores preserved to match the koanf tags above).
	envProvider := env.Provider("TOURNEY_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "tourney_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Token == "" {
		return errors.New("missing TOURNEY_TOKEN")
	}
	if c.AppID == "" {
		return errors.New("missing TOURNEY_APP_ID")
	}
	if c.GuildID == "" {
		return errors.New("missing TOURNEY_GUILD_ID")
	}
	if c.ScheduleChannelID == "" {
		return errors.New("missing TOURNEY_SCHEDULE_CHANNEL_ID")
	}
	if c.MaxAssignments <= 0 {
		return fmt.Errorf("max_assignments must be positive, got %d", c.MaxAssignments)
	}
	if c.CleanupDelayHours <= 0 {
		return fmt.Errorf("cleanup_delay_hours must be positive, got %d", c.CleanupDelayHours)
	}
	return nil
}

func (c *Config) Redacted() string {
	tok := "[set]"
	if c.Token == "" {
		tok = "[empty]"
	}
	return fmt.Sprintf(
		"appID=%s guildID=%s scheduleChannelID=%s resultsChannelID=%s maxAssignments=%d cleanupDelayHours=%d token=%s",
		c.AppID, c.GuildID, c.ScheduleChannelID, c.ResultsChannelID,
		c.MaxAssignments, c.CleanupDelayHours, tok,
	)
}
