package scrum

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fortuna/ceres/internal/store"
)

// One scorer entry: a player name, an optional bare occurrence count and an
// optional parenthesized list of minute markers, e.g. `Jones 2 (34, 67)`.
var reScorerEntry = regexp.MustCompile(`^([A-Za-z' -]+?)\s*([0-9]+)?\s*(?:\(([0-9, ]+)\))?\s*$`)

var validActions = map[string]bool{
	store.ActionPens:  true,
	store.ActionTries: true,
	store.ActionDrops: true,
	store.ActionCons:  true,
}

// actionTotals accumulates one player's scoring counts across the four
// event types of a single match.
type actionTotals struct {
	Tries, Cons, Pens, Drops int
}

func (t *actionTotals) add(action string, n int) {
	switch action {
	case store.ActionTries:
		t.Tries += n
	case store.ActionCons:
		t.Cons += n
	case store.ActionPens:
		t.Pens += n
	case store.ActionDrops:
		t.Drops += n
	}
}

// splitScorerEntries splits a summary on commas that do not start a
// minute list, so `Smith 2, Jones (34, 67)` yields two entries while the
// comma inside the parentheses is preserved.
func splitScorerEntries(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if i+2 < len(s) && s[i+1] == ' ' && s[i+2] >= '0' && s[i+2] <= '9' {
			continue
		}
		parts = append(parts, strings.TrimSpace(s[start:i]))
		start = i + 1
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// parseScorerSummary parses one team's free-text summary for one event
// type. Resolved entries emit one GameEvent per minute marker and add to
// the per-player tally; entries whose name cannot be resolved contribute
// nothing at all. The literal summary "none" and unsupported event labels
// short-circuit with no output.
func parseScorerSummary(matchID, teamID, action, summary string, roster Roster, tally map[string]*actionTotals) []*store.GameEvent {
	action = strings.ToLower(strings.TrimSpace(action))
	if !validActions[action] {
		zap.S().Infof("[%s] Unsupported event %q. Skipping.", matchID, action)
		return nil
	}
	if summary == "none" {
		return nil
	}

	var events []*store.GameEvent
	for _, entry := range splitScorerEntries(summary) {
		if entry == "" {
			continue
		}
		m := reScorerEntry.FindStringSubmatch(entry)
		if m == nil {
			zap.S().Warnf("[%s] (%s) Unparsable scorer entry %q. Skipping.", matchID, action, entry)
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}

		playerID, outcome := ResolvePlayer(name, roster)
		if outcome != ResolveOK {
			// Intentional information loss: without an identity the
			// entry counts for neither the player nor the team.
			zap.S().Warnf("[%s] (%s) Unable to resolve scorer %q (%s). Skipping.", matchID, action, name, outcome)
			continue
		}

		times := parseMinuteMarkers(m[3])
		for _, minute := range times {
			events = append(events, &store.GameEvent{
				PlayerID:   playerID,
				TeamID:     teamID,
				MatchID:    matchID,
				Time:       minute,
				ActionType: action,
			})
		}

		// A bare count and explicit minute markers are reconciled by
		// taking the larger; either may be the more complete signal.
		count := 1
		if m[2] != "" {
			count = atoi(m[2])
		}
		if len(times) > count {
			count = len(times)
		}

		if tally[playerID] == nil {
			tally[playerID] = &actionTotals{}
		}
		tally[playerID].add(action, count)
	}
	return events
}

func parseMinuteMarkers(list string) []int {
	if list == "" {
		return nil
	}
	var times []int
	for _, tok := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ' ' }) {
		if minute, err := strconv.Atoi(tok); err == nil {
			times = append(times, minute)
		}
	}
	return times
}

// scorerPlayerStats folds a team's tally into one partial PlayerStats
// record per player, carrying only the event types the player scored in.
func scorerPlayerStats(matchID, teamID string, tally map[string]*actionTotals) []*store.PlayerStats {
	var stats []*store.PlayerStats
	for playerID, totals := range tally {
		ps := &store.PlayerStats{
			PlayerID: playerID,
			TeamID:   teamID,
			MatchID:  matchID,
		}
		if totals.Tries > 0 {
			ps.Tries = nullInt(totals.Tries)
		}
		if totals.Cons > 0 {
			ps.Cons = nullInt(totals.Cons)
		}
		if totals.Pens > 0 {
			ps.Pens = nullInt(totals.Pens)
		}
		if totals.Drops > 0 {
			ps.Drops = nullInt(totals.Drops)
		}
		stats = append(stats, ps)
	}
	return stats
}

// scorerTeamTotals sums every player's tally into the team-wide aggregate
// for the MatchStats record.
func scorerTeamTotals(tally map[string]*actionTotals) actionTotals {
	var sum actionTotals
	for _, totals := range tally {
		sum.Tries += totals.Tries
		sum.Cons += totals.Cons
		sum.Pens += totals.Pens
		sum.Drops += totals.Drops
	}
	return sum
}
