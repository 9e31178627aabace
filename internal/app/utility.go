// internal/app/utility.go
// Small helper commands: /time, /choose, /team-balance.

package app

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	d "github.com/devils-spot/tourney-bot/internal/adapters/discord"
)

// defaultChoices is the active duty map pool, used when /choose gets no
// options.
var defaultChoices = []string{
	"Mirage", "Inferno", "Nuke", "Overpass", "Vertigo", "Ancient", "Anubis",
}

// randomMatchSlot rolls a half-hour slot between 12:00 and 17:00 UTC, today
// or tomorrow, whichever is still ahead. Uses the top-level rand functions;
// handlers run concurrently and a shared rand.Rand is not goroutine-safe.
func randomMatchSlot(now time.Time) time.Time {
	hour := 12 + rand.Intn(5)   // 12..16
	minute := 30 * rand.Intn(2) // 0 or 30

	slot := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if slot.Before(now) {
		slot = slot.AddDate(0, 0, 1)
	}
	return slot
}

func (b *Bot) handleTime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	slot := randomMatchSlot(time.Now().UTC())
	_ = d.SendEphemeral(s, i, fmt.Sprintf(
		"🎲 Random match time: **%s UTC** (<t:%d:f> your time)",
		slot.Format("15:04"), slot.Unix()))
}

func (b *Bot) handleChoose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionsOf(i)

	choices := defaultChoices
	if raw := opts.str("options"); raw != "" {
		var parsed []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parsed = append(parsed, p)
			}
		}
		if len(parsed) < 2 {
			_ = d.SendEphemeral(s, i, "⚠️ Give me at least two comma-separated options.")
			return
		}
		choices = parsed
	}

	count := opts.integer("count", 1)
	if count < 1 {
		count = 1
	}
	if count > len(choices) {
		count = len(choices)
	}

	picks := make([]string, len(choices))
	copy(picks, choices)
	rand.Shuffle(len(picks), func(x, y int) { picks[x], picks[y] = picks[y], picks[x] })
	picks = picks[:count]

	if count == 1 {
		_ = d.SendEphemeral(s, i, fmt.Sprintf("🎲 Out of %d options I choose: **%s**", len(choices), picks[0]))
		return
	}
	_ = d.SendEphemeral(s, i, fmt.Sprintf("🎲 Out of %d options I choose: **%s**",
		len(choices), strings.Join(picks, "**, **")))
}

type player struct {
	name  string
	level int
}

func parsePlayers(raw string) ([]player, error) {
	parts := strings.Split(raw, ",")
	out := make([]player, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, lvl, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("%q is not name:level", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(lvl))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%q has no valid level", p)
		}
		out = append(out, player{name: strings.TrimSpace(name), level: n})
	}
	switch {
	case len(out) < 2:
		return nil, fmt.Errorf("need at least two players")
	case len(out)%2 != 0:
		return nil, fmt.Errorf("need an even number of players, got %d", len(out))
	case len(out) > 16:
		return nil, fmt.Errorf("at most 16 players, got %d", len(out))
	}
	return out, nil
}

// balanceTeams tries every split that keeps player 0 on team A (halving the
// mirrored search space) and returns the one with the smallest level gap.
func balanceTeams(players []player) (teamA, teamB []player, diff int) {
	n := len(players)
	half := n / 2
	best := -1
	var bestMask uint32

	var total int
	for _, p := range players {
		total += p.level
	}

	for mask := uint32(0); mask < 1<<uint(n); mask++ {
		if mask&1 == 0 {
			continue
		}
		if popcount(mask) != half {
			continue
		}
		sum := 0
		for idx := 0; idx < n; idx++ {
			if mask&(1<<uint(idx)) != 0 {
				sum += players[idx].level
			}
		}
		gap := total - 2*sum
		if gap < 0 {
			gap = -gap
		}
		if best < 0 || gap < best {
			best = gap
			bestMask = mask
		}
	}

	for idx := 0; idx < n; idx++ {
		if bestMask&(1<<uint(idx)) != 0 {
			teamA = append(teamA, players[idx])
		} else {
			teamB = append(teamB, players[idx])
		}
	}
	return teamA, teamB, best
}

func popcount(v uint32) int {
	c := 0
	for v != 0 {
		v &= v - 1
		c++
	}
	return c
}

func teamLine(team []player) (string, int) {
	sort.Slice(team, func(a, b int) bool { return team[a].level > team[b].level })
	names := make([]string, 0, len(team))
	sum := 0
	for _, p := range team {
		names = append(names, fmt.Sprintf("%s (%d)", p.name, p.level))
		sum += p.level
	}
	return strings.Join(names, ", "), sum
}

func (b *Bot) handleTeamBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	players, err := parsePlayers(optionsOf(i).str("players"))
	if err != nil {
		_ = d.SendEphemeral(s, i, "⚠️ "+err.Error())
		return
	}

	teamA, teamB, diff := balanceTeams(players)
	lineA, sumA := teamLine(teamA)
	lineB, sumB := teamLine(teamB)

	_ = d.SendEphemeral(s, i, fmt.Sprintf(
		"⚖️ **Balanced teams** (level gap %d)\n**Team A** (%d): %s\n**Team B** (%d): %s",
		diff, sumA, lineA, sumB, lineB))
}
