package scrum

import (
	"database/sql"
	"strings"
)

// RosterEntry is one known player of a team for one match.
type RosterEntry struct {
	Name     string
	Position sql.NullString
	Number   sql.NullString
}

// Roster maps player id to the player's known display name for one team
// and one match.
type Roster map[string]RosterEntry

// ResolveOutcome reports why a name resolution succeeded or failed.
type ResolveOutcome int

const (
	ResolveOK ResolveOutcome = iota
	ResolveNoCandidate
	ResolveAmbiguousShort // single-token name with multiple candidates
	ResolveAmbiguous      // tie-break still left multiple candidates
)

func (o ResolveOutcome) String() string {
	switch o {
	case ResolveOK:
		return "ok"
	case ResolveNoCandidate:
		return "no_candidate"
	case ResolveAmbiguousShort:
		return "ambiguous_short_name"
	case ResolveAmbiguous:
		return "ambiguous"
	}
	return "unknown"
}

// ResolvePlayer maps a free-text player name ("Smith", "J Smith",
// "John Smith") to at most one roster id. It is a best-effort heuristic:
// ambiguous or unmatched names report a non-OK outcome and callers must
// drop the record rather than guess.
func ResolvePlayer(name string, roster Roster) (string, ResolveOutcome) {
	queried := strings.Fields(strings.ToUpper(strings.TrimSpace(name)))
	if len(queried) == 0 {
		return "", ResolveNoCandidate
	}
	queriedLast := queried[len(queried)-1]

	var potential []string
	for id, entry := range roster {
		known := strings.Fields(strings.ToUpper(strings.TrimSpace(entry.Name)))
		if len(known) == 0 {
			continue
		}
		if strings.Contains(known[len(known)-1], queriedLast) {
			potential = append(potential, id)
		}
	}

	switch {
	case len(potential) == 0:
		return "", ResolveNoCandidate
	case len(potential) == 1:
		return potential[0], ResolveOK
	case allEqual(potential):
		return potential[0], ResolveOK
	case len(queried) == 1:
		// Bare surname matching several distinct players, nothing left
		// to disambiguate on.
		return "", ResolveAmbiguousShort
	}

	// Narrow on first-token initial plus exact last-token match.
	queriedInitial := queried[0][:1]
	var final []string
	for _, id := range potential {
		known := strings.Fields(strings.ToUpper(strings.TrimSpace(roster[id].Name)))
		if len(known) == 0 {
			continue
		}
		if strings.HasPrefix(known[0], queriedInitial) && known[len(known)-1] == queriedLast {
			final = append(final, id)
		}
	}

	if len(final) == 1 || (len(final) > 1 && allEqual(final)) {
		return final[0], ResolveOK
	}
	if len(final) == 0 {
		return "", ResolveNoCandidate
	}
	return "", ResolveAmbiguous
}

// resolveAcrossTeams resolves a name against both rosters of a match.
// Exactly one of the two single-team resolutions must succeed; anything
// else means team attribution is unknown and the row must be discarded.
func resolveAcrossTeams(name string, home, away Roster) (playerID string, homeTeam bool, ok bool) {
	homeID, homeOut := ResolvePlayer(name, home)
	awayID, awayOut := ResolvePlayer(name, away)

	homeHit := homeOut == ResolveOK
	awayHit := awayOut == ResolveOK
	if homeHit == awayHit {
		return "", false, false
	}
	if homeHit {
		return homeID, true, true
	}
	return awayID, false, true
}

func allEqual(ids []string) bool {
	for _, id := range ids[1:] {
		if id != ids[0] {
			return false
		}
	}
	return true
}
