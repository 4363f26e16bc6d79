package scrum

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/ceres/internal/store"
)

func fixtureMatch() *store.Match {
	return &store.Match{
		ID:         "63412",
		HomeTeamID: "500",
		AwayTeamID: "600",
		GroundID:   "123",
		MatchType:  "home",
		Won:        "won",
		Date:       "26 Mar 2022",
	}
}

func TestParseMatchPage(t *testing.T) {
	t.Parallel()

	doc := loadDocument(t, "testdata/match_page.html")
	res := ParseMatchPage(doc, fixtureMatch())
	require.NotNil(t, res)

	t.Run("headline emits both teams and mirrored scorelines", func(t *testing.T) {
		require.Len(t, res.Teams, 2)
		assert.Equal(t, &store.Team{ID: "500", Name: "England"}, res.Teams[0])
		assert.Equal(t, &store.Team{ID: "600", Name: "Australia"}, res.Teams[1])

		require.GreaterOrEqual(t, len(res.MatchStats), 2)
		home, away := res.MatchStats[0], res.MatchStats[1]
		assert.Equal(t, "500", home.TeamID)
		assert.Equal(t, 38, home.Scored)
		assert.Equal(t, 21, home.Conceded)
		assert.Equal(t, "600", away.TeamID)
		assert.Equal(t, 21, away.Scored)
		assert.Equal(t, 38, away.Conceded)
		assert.False(t, home.Tries.Valid)
	})

	t.Run("venue comes from the ground note", func(t *testing.T) {
		require.NotNil(t, res.Venue)
		assert.Equal(t, "123", res.Venue.ID)
		assert.Equal(t, "Twickenham", res.Venue.Name)
	})

	t.Run("lineups produce player stubs and partial stats", func(t *testing.T) {
		require.Len(t, res.Players, 5)
		ids := make(map[string]string)
		for _, p := range res.Players {
			ids[p.ID] = p.Name
		}
		assert.Equal(t, "Alan Smith", ids["1001"])
		assert.Equal(t, "Carl Davies", ids["1003"])
		assert.Equal(t, "David Brown", ids["2001"])

		var lineup []*store.PlayerStats
		for _, ps := range res.PlayerStats {
			if ps.FirstTeam.Valid {
				lineup = append(lineup, ps)
			}
		}
		require.Len(t, lineup, 5)
		for _, ps := range lineup {
			assert.Equal(t, "63412", ps.MatchID)
			if ps.PlayerID == "1003" {
				assert.False(t, ps.FirstTeam.Bool)
				assert.Equal(t, "16", ps.Number.String)
				assert.Equal(t, "HK", ps.Position.String)
			}
			if ps.PlayerID == "1001" {
				assert.True(t, ps.FirstTeam.Bool)
				assert.Equal(t, "500", ps.TeamID)
			}
			if ps.PlayerID == "2002" {
				assert.Equal(t, "600", ps.TeamID)
			}
		}
	})

	t.Run("scorer summaries turn into events and tallies", func(t *testing.T) {
		require.Len(t, res.GameEvents, 5)

		byPlayer := make(map[string][]*store.GameEvent)
		for _, ev := range res.GameEvents {
			byPlayer[ev.PlayerID] = append(byPlayer[ev.PlayerID], ev)
		}

		// Jones: tries at 34 and 67. Smith: conversions at 12 and 40.
		require.Len(t, byPlayer["1002"], 2)
		assert.Equal(t, store.ActionTries, byPlayer["1002"][0].ActionType)
		assert.Equal(t, 34, byPlayer["1002"][0].Time)
		require.Len(t, byPlayer["1001"], 2)
		assert.Equal(t, store.ActionCons, byPlayer["1001"][0].ActionType)
		require.Len(t, byPlayer["2001"], 1)
		assert.Equal(t, 15, byPlayer["2001"][0].Time)
		assert.Equal(t, "600", byPlayer["2001"][0].TeamID)

		// The aggregate MatchStats from the scorer stage carry counts.
		require.Len(t, res.MatchStats, 4)
		homeAgg, awayAgg := res.MatchStats[2], res.MatchStats[3]
		assert.Equal(t, "500", homeAgg.TeamID)
		assert.Equal(t, int32(4), homeAgg.Tries.Int32)
		assert.Equal(t, int32(2), homeAgg.Cons.Int32)
		assert.Equal(t, int32(0), homeAgg.Pens.Int32)
		assert.Equal(t, 38, homeAgg.Scored)
		assert.Equal(t, "600", awayAgg.TeamID)
		assert.Equal(t, int32(1), awayAgg.Tries.Int32)
		assert.Equal(t, int32(0), awayAgg.Cons.Int32)
		assert.Equal(t, 21, awayAgg.Scored)
		assert.Equal(t, 38, awayAgg.Conceded)
	})

	t.Run("scorer tallies produce partial player stats", func(t *testing.T) {
		var smith *store.PlayerStats
		for _, ps := range res.PlayerStats {
			if ps.PlayerID == "1001" && !ps.FirstTeam.Valid {
				smith = ps
			}
		}
		require.NotNil(t, smith)
		assert.Equal(t, int32(2), smith.Tries.Int32)
		assert.Equal(t, int32(2), smith.Cons.Int32)
		assert.False(t, smith.Pens.Valid)
	})

	t.Run("match stats tab fills both team records", func(t *testing.T) {
		require.Len(t, res.MatchExtraStats, 2)
		home, away := res.MatchExtraStats[0], res.MatchExtraStats[1]
		assert.Equal(t, "500", home.TeamID)
		assert.Equal(t, int32(5), home.PensAttempt.Int32)
		assert.Equal(t, int32(3), home.DropsAttempt.Int32)
		assert.Equal(t, int32(120), home.Passes.Int32)
		assert.Equal(t, int32(95), home.TacklesMade.Int32)
		assert.Equal(t, int32(97), home.RucksWon.Int32)
		assert.Equal(t, int32(102), home.RucksInit.Int32)
		assert.Equal(t, int32(7), home.ScrumsWonOnFeed.Int32)

		assert.Equal(t, "600", away.TeamID)
		assert.Equal(t, int32(2), away.PensAttempt.Int32)
		assert.Equal(t, int32(0), away.DropsAttempt.Int32)
		assert.Equal(t, int32(98), away.Passes.Int32)

		// The offloads row is missing the away value, so neither side
		// gets it.
		assert.False(t, home.Offloads.Valid)
		assert.False(t, away.Offloads.Valid)
	})

	t.Run("player stats tabs resolve names across rosters", func(t *testing.T) {
		require.Len(t, res.PlayerExtraStats, 2)
		byID := make(map[string]*store.PlayerExtraStats)
		for _, px := range res.PlayerExtraStats {
			byID[px.PlayerID] = px
		}

		smith := byID["1001"]
		require.NotNil(t, smith)
		assert.Equal(t, "500", smith.TeamID)
		assert.Equal(t, int32(1), smith.Tries.Int32)
		assert.Equal(t, int32(0), smith.Assists.Int32)
		assert.Equal(t, int32(15), smith.Points.Int32)
		assert.Equal(t, int32(2), smith.Kicks.Int32)
		assert.Equal(t, int32(10), smith.Passes.Int32)
		assert.Equal(t, int32(8), smith.Runs.Int32)
		assert.Equal(t, int32(45), smith.Meters.Int32)
		assert.Equal(t, int32(10), smith.TacklesMade.Int32)
		assert.Equal(t, int32(15), smith.TacklesMissed.Int32)
		assert.Equal(t, int32(4), smith.LineoutsWonOnThrow.Int32)
		assert.Equal(t, int32(1), smith.LineoutsStolenFromOpp.Int32)
		assert.Equal(t, int32(1), smith.YellowCards.Int32)

		brown := byID["2001"]
		require.NotNil(t, brown)
		assert.Equal(t, "600", brown.TeamID)
		assert.Equal(t, int32(88), brown.Meters.Int32)
		assert.Equal(t, int32(8), brown.TacklesMade.Int32)
	})
}

func TestParseMatchPageHeadlineFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
	}{
		{"no headline cells", `<html><body><table><tr><td>nothing</td></tr></table></body></html>`},
		{"not two segments", `<html><body><table><tr><td class="liveSubNavText1">England 38</td></tr></table></body></html>`},
		{"segment without a score", `<html><body><table><tr><td class="liveSubNavText1">England - Australia 21</td></tr></table></body></html>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Nil(t, ParseMatchPage(doc, fixtureMatch()))
		})
	}
}

func TestParseMatchPageWithoutTabs(t *testing.T) {
	t.Parallel()

	html := `<html><body><table><tr>
		<td class="liveSubNavText1">England 38 - Australia 21</td>
	</tr></table></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	// The headline stage stands on its own even when everything after
	// it is missing.
	res := ParseMatchPage(doc, fixtureMatch())
	require.NotNil(t, res)
	assert.Len(t, res.Teams, 2)
	assert.Len(t, res.MatchStats, 2)
	assert.Empty(t, res.Players)
	assert.Empty(t, res.GameEvents)
}

func TestHeadlineScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		segment string
		want    int
		ok      bool
	}{
		{"England 38", 38, true},
		{"Australia 2G 21", 21, true},
		{"Wales 19 (2G)", 19, true},
		{"England", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.segment, func(t *testing.T) {
			t.Parallel()
			got, ok := headlineScore(tt.segment)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIframeURL(t *testing.T) {
	t.Parallel()

	doc := loadDocument(t, "testdata/match_overview.html")
	src, ok := IframeURL(doc)
	require.True(t, ok)
	assert.Equal(t, "/statsguru/rugby/current/match/63412.html", src)

	empty, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	_, ok = IframeURL(empty)
	assert.False(t, ok)
}
