package scrum

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"github.com/fortuna/ceres/internal/store"
)

// Statsguru renders the same metric in several shapes depending on the page
// vintage. Each shape gets its own parser; a value that does not match its
// metric's shape is a normal "no data" outcome, never an error.
var (
	rePensAttempt = regexp.MustCompile(`^[0-9]+ from ([0-9]+)`)
	reDropsMissed = regexp.MustCompile(`^([0-9]+)(?: \(([0-9]+) missed\))?`)
	reWonFromInit = regexp.MustCompile(`^\s*([0-9]+) from ([0-9]+)`)
	reWonLost     = regexp.MustCompile(`^\s*([0-9]+) won, ([0-9]+) lost`)
	rePairExact   = regexp.MustCompile(`^([0-9]+)/([0-9]+)$`)
	rePairPrefix  = regexp.MustCompile(`^([0-9]+)/([0-9]+)`)
	reTripleExact = regexp.MustCompile(`^([0-9]+)/([0-9]+)/([0-9]+)$`)
)

// Row titles in the "Match stats" tab that carry a plain integer cell.
var simpleMatchStats = map[string]bool{
	"Kicks from hand":       true,
	"Passes":                true,
	"Runs":                  true,
	"Metres run with ball":  true,
	"Clean breaks":          true,
	"Defenders beaten":      true,
	"Offloads":              true,
	"Turnovers conceded":    true,
	"Penalties conceded":    true,
}

func nullInt(v int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(v), Valid: true}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// applyMatchStat parses one row value of the "Match stats" tab and sets the
// metric named by title on out. Returns false when the value does not match
// the metric's expected shape, in which case nothing is set.
func applyMatchStat(title, value string, out *store.MatchExtraStats) bool {
	switch {
	case title == "Penalty goals":
		m := rePensAttempt.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		out.PensAttempt = nullInt(atoi(m[1]))

	case title == "Dropped goals":
		m := reDropsMissed.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		missed := 0
		if m[2] != "" {
			missed = atoi(m[2])
		}
		out.DropsAttempt = nullInt(atoi(m[1]) + missed)

	case simpleMatchStats[title]:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		switch title {
		case "Kicks from hand":
			out.Kicks = nullInt(n)
		case "Passes":
			out.Passes = nullInt(n)
		case "Runs":
			out.Runs = nullInt(n)
		case "Metres run with ball":
			out.Meters = nullInt(n)
		case "Clean breaks":
			out.Breaks = nullInt(n)
		case "Defenders beaten":
			out.DefBeaten = nullInt(n)
		case "Offloads":
			out.Offloads = nullInt(n)
		case "Turnovers conceded":
			out.Turnovers = nullInt(n)
		case "Penalties conceded":
			out.PensConceded = nullInt(n)
		}

	case title == "Rucks won":
		m := reWonFromInit.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		out.RucksWon = nullInt(atoi(m[1]))
		out.RucksInit = nullInt(atoi(m[2]))

	case title == "Mauls won":
		m := reWonFromInit.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		out.MallWon = nullInt(atoi(m[1]))
		out.MallInit = nullInt(atoi(m[2]))

	case title == "Tackles made/missed":
		m := rePairExact.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		out.TacklesMade = nullInt(atoi(m[1]))
		out.TacklesMissed = nullInt(atoi(m[2]))

	case title == "Scrums on own feed":
		m := reWonLost.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		out.ScrumsWonOnFeed = nullInt(atoi(m[1]))
		out.ScrumsLostOnFeed = nullInt(atoi(m[2]))

	case title == "Lineouts on own throw":
		m := reWonLost.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		out.LineoutsWonOnThrow = nullInt(atoi(m[1]))
		out.LineoutsLostOnThrow = nullInt(atoi(m[2]))

	case title == "Yellow/red cards":
		m := rePairExact.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		out.YellowCards = nullInt(atoi(m[1]))
		out.RedCards = nullInt(atoi(m[2]))

	default:
		return false
	}
	return true
}

// parseIntCell reads a plain integer table cell.
func parseIntCell(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return n, true
}

// parsePairExact reads an "A/B" cell, rejecting trailing content.
func parsePairExact(value string) (a, b int, ok bool) {
	m := rePairExact.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, false
	}
	return atoi(m[1]), atoi(m[2]), true
}

// parsePairPrefix reads an "A/B" prefix, ignoring trailing content.
func parsePairPrefix(value string) (a, b int, ok bool) {
	m := rePairPrefix.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, false
	}
	return atoi(m[1]), atoi(m[2]), true
}

// parseTriple reads an exact "A/B/C" cell.
func parseTriple(value string) (a, b, c int, ok bool) {
	m := reTripleExact.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, 0, false
	}
	return atoi(m[1]), atoi(m[2]), atoi(m[3]), true
}
