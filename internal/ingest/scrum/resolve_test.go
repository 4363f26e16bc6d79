package scrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRoster() Roster {
	return Roster{
		"1": {Name: "John Smith"},
		"2": {Name: "Jim Smith"},
		"3": {Name: "Bob Jones"},
	}
}

func TestResolvePlayer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		wantID  string
		outcome ResolveOutcome
	}{
		{"unique surname", "Jones", "3", ResolveOK},
		{"unique surname with initial", "B Jones", "3", ResolveOK},
		{"unique surname with full first name", "Bob Jones", "3", ResolveOK},
		{"surname substring still matches", "Jone", "3", ResolveOK},
		{"shared bare surname cannot pick a player", "Smith", "", ResolveAmbiguousShort},
		{"shared surname and shared initial stay ambiguous", "J Smith", "", ResolveAmbiguous},
		{"unknown surname", "Williams", "", ResolveNoCandidate},
		{"empty name", "  ", "", ResolveNoCandidate},
		{"case insensitive", "JONES", "3", ResolveOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, outcome := ResolvePlayer(tt.query, testRoster())
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolvePlayerIsIdempotent(t *testing.T) {
	t.Parallel()

	roster := testRoster()
	firstID, firstOutcome := ResolvePlayer("Jones", roster)
	for i := 0; i < 10; i++ {
		id, outcome := ResolvePlayer("Jones", roster)
		assert.Equal(t, firstID, id)
		assert.Equal(t, firstOutcome, outcome)
	}
}

func TestResolvePlayerInitialNarrowing(t *testing.T) {
	t.Parallel()

	roster := Roster{
		"1": {Name: "John Smith"},
		"2": {Name: "Will Smith"},
	}

	id, outcome := ResolvePlayer("W Smith", roster)
	assert.Equal(t, ResolveOK, outcome)
	assert.Equal(t, "2", id)

	// The initial matches neither candidate.
	_, outcome = ResolvePlayer("T Smith", roster)
	assert.Equal(t, ResolveNoCandidate, outcome)
}

func TestResolveAcrossTeams(t *testing.T) {
	t.Parallel()

	home := Roster{"1": {Name: "John Smith"}}
	away := Roster{"2": {Name: "Bob Jones"}}

	id, isHome, ok := resolveAcrossTeams("Smith", home, away)
	assert.True(t, ok)
	assert.True(t, isHome)
	assert.Equal(t, "1", id)

	id, isHome, ok = resolveAcrossTeams("Jones", home, away)
	assert.True(t, ok)
	assert.False(t, isHome)
	assert.Equal(t, "2", id)

	// A name on both rosters has no safe attribution.
	both := Roster{"3": {Name: "Sam Smith"}}
	_, _, ok = resolveAcrossTeams("Smith", home, both)
	assert.False(t, ok)

	// A name on neither roster resolves nowhere.
	_, _, ok = resolveAcrossTeams("Nobody", home, away)
	assert.False(t, ok)
}
