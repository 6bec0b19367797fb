package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	unknownField = "Unknown"

	// NoMatchesMessage is published when the provider returns no matches for the day.
	NoMatchesMessage = "No matches available for today."

	fixtureSeparator = "\n---\n"
)

// Match is one game as returned by the fixtures provider. Its schema is owned
// by the provider; only a handful of fields are read.
type Match map[string]interface{}

// FixtureSource lists the matches scheduled on a UTC date (YYYY-MM-DD).
type FixtureSource interface {
	Fetch(ctx context.Context, date string) ([]Match, error)
}

// FixtureRecord is the part of a match that is republished.
type FixtureRecord struct {
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	KickoffTime string `json:"kickoff_time"`
	VenueID     string `json:"venue_id"`
}

// NewFixtureRecord maps a provider match to a FixtureRecord. Absent or null
// fields read as "Unknown".
func NewFixtureRecord(m Match) FixtureRecord {
	return FixtureRecord{
		HomeTeam:    m.field("HomeTeamName"),
		AwayTeam:    m.field("AwayTeamName"),
		KickoffTime: m.field("DateTime"),
		VenueID:     m.field("VenueId"),
	}
}

func (m Match) field(name string) string {
	v, ok := m[name]
	if !ok || v == nil {
		return unknownField
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Render formats the record as the text block sent to subscribers.
func (r FixtureRecord) Render() string {
	return fmt.Sprintf(
		"Home Team: %s\nAway Team: %s\nTime: %s\nVenue: %s\n",
		r.HomeTeam, r.AwayTeam, r.KickoffTime, r.VenueID,
	)
}

// BuildFixtureMessage joins the rendered records into a single message body.
func BuildFixtureMessage(records []FixtureRecord) string {
	if len(records) == 0 {
		return NoMatchesMessage
	}

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		blocks = append(blocks, r.Render())
	}
	return strings.Join(blocks, fixtureSeparator)
}
