package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/devils-spot/tourney-bot/internal/schedule"
)

// Custom ids routed by the interaction handler.
const (
	TakeSchedulePrefix = "take_schedule:"
	DeleteSelectID     = "event_delete"
	RulesEnterID       = "rules_enter"
	RulesEditID        = "rules_edit"
	RulesShowID        = "rules_show"
	RulesModalID       = "rules_modal"
	RulesInputID       = "rules_content"
)

// TakeScheduleCustomID builds the claim button id for an event.
func TakeScheduleCustomID(eventID string) string {
	return TakeSchedulePrefix + eventID
}

// ParseTakeSchedule extracts the event id from a claim button custom id.
func ParseTakeSchedule(customID string) (string, bool) {
	if !strings.HasPrefix(customID, TakeSchedulePrefix) {
		return "", false
	}
	id := strings.TrimPrefix(customID, TakeSchedulePrefix)
	return id, id != ""
}

// Mention renders a user ping from an opaque id.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// refName falls back gracefully for refs lost across a restart.
func refName(u *schedule.UserRef) string {
	if u == nil || u.Name == "" {
		return "Unknown"
	}
	return u.Name
}

func refMention(u *schedule.UserRef) string {
	if u == nil {
		return "Unknown"
	}
	return Mention(u.ID)
}

// discordTime renders a native client-side timestamp: style F for full,
// R for relative.
func discordTime(t time.Time, style byte) string {
	return fmt.Sprintf("<t:%d:%c>", t.Unix(), style)
}

// utcClock formats "15:04 utc, 02/01".
func utcClock(t time.Time) string {
	return strings.ToLower(t.UTC().Format("15:04 MST")) + t.UTC().Format(", 02/01")
}
