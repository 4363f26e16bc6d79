package scrum

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/fortuna/ceres/internal/store"
)

var (
	reHeadlineName = regexp.MustCompile(`[a-zA-Z ]+`)
	reDigits       = regexp.MustCompile(`[0-9]+`)
	reTeamStatsTab = regexp.MustCompile(`^[a-zA-Z ]+ stats$`)
)

// ParsedMatch is everything extracted from one match's detail content,
// slices ordered by extraction stage. The extractor holds no state beyond
// one match; persistence and partial-record merging happen downstream.
type ParsedMatch struct {
	Match            *store.Match
	Teams            []*store.Team
	Venue            *store.Venue
	MatchStats       []*store.MatchStats
	Players          []*store.Player
	PlayerStats      []*store.PlayerStats
	GameEvents       []*store.GameEvent
	MatchExtraStats  []*store.MatchExtraStats
	PlayerExtraStats []*store.PlayerExtraStats
}

// ParseMatchPage runs the staged extraction over a match's data document
// (the content of the #win_old iframe). Stages run strictly in sequence;
// a failed required stage aborts only the stages that depend on it, and
// entities from completed stages stand. A failed headline aborts the
// whole match: nil is returned and nothing is emitted.
func ParseMatchPage(doc *goquery.Document, match *store.Match) *ParsedMatch {
	log := zap.S()

	// Stage 1: headline. Two "name score" segments or the match is gone.
	tokens := doc.Find("td.liveSubNavText1")
	if tokens.Length() == 0 {
		log.Errorf("[%s] Can't extract headline. Skipping match.", match.ID)
		return nil
	}

	var headline strings.Builder
	tokens.Each(func(_ int, t *goquery.Selection) {
		headline.WriteString(strings.ReplaceAll(strings.TrimRight(t.Text(), " \t\n"), "\n", ""))
	})
	segments := strings.Split(headline.String(), " - ")
	if len(segments) != 2 {
		log.Errorf("[%s] Headline can't be parsed. Skipping match.", match.ID)
		return nil
	}

	res := &ParsedMatch{Match: match}
	var scored, conceded int
	for i, segment := range segments {
		teamID := match.HomeTeamID
		if i == 1 {
			teamID = match.AwayTeamID
		}
		name := strings.TrimSpace(reHeadlineName.FindString(segment))
		score, ok := headlineScore(segment)
		if name == "" || !ok {
			log.Errorf("[%s] Missing data in headline segment for team %s. Skipping match.", match.ID, teamID)
			return nil
		}
		res.Teams = append(res.Teams, &store.Team{ID: teamID, Name: name})
		if i == 0 {
			scored = score
		} else {
			conceded = score
		}
	}

	res.MatchStats = append(res.MatchStats,
		&store.MatchStats{MatchID: match.ID, TeamID: match.HomeTeamID, Scored: scored, Conceded: conceded},
		&store.MatchStats{MatchID: match.ID, TeamID: match.AwayTeamID, Scored: conceded, Conceded: scored},
	)

	// Stage 2: venue, only when exactly two note annotations exist.
	notes := doc.Find("td.liveTblNotes a")
	if notes.Length() == 2 && match.GroundID != "" {
		res.Venue = &store.Venue{ID: match.GroundID, Name: strings.TrimSpace(notes.First().Text())}
	}

	// Stage 3: teams tab. Without it there is nothing more to extract.
	tabs := tabsByTitle(doc)
	if len(tabs) == 0 {
		log.Errorf("[%s] No tabs, aborting.", match.ID)
		return res
	}
	teamsTab, ok := tabs["Teams"]
	if !ok {
		log.Errorf("[%s] No Teams tab, aborting.", match.ID)
		return res
	}

	homeRoster, awayRoster := parseLineups(res, teamsTab, match)
	if len(homeRoster) == 0 || len(awayRoster) == 0 {
		log.Errorf("[%s] Missing player data in Teams tab, aborting.", match.ID)
		return res
	}
	log.Infof("[%s] Found %d home and %d away players", match.ID, len(homeRoster), len(awayRoster))

	// Stage 4: scorer summaries.
	parseScorers(res, teamsTab, match, homeRoster, awayRoster, scored, conceded)

	// Stage 5: team-level extra stats.
	if statsTab, ok := tabs["Match stats"]; ok {
		parseMatchStatsTab(res, statsTab, match)
	}

	// Stage 6: per-team player detail tabs ("<Team> stats").
	for title, tab := range tabs {
		if title == "Match stats" || !reTeamStatsTab.MatchString(title) {
			continue
		}
		parsePlayerStatsTab(res, tab, match, homeRoster, awayRoster)
	}

	return res
}

// headlineScore finds the team score in a headline segment, skipping digit
// runs that belong to goal notation (a trailing "G").
func headlineScore(segment string) (int, bool) {
	for _, loc := range reDigits.FindAllStringIndex(segment, -1) {
		if loc[1] < len(segment) && segment[loc[1]] == 'G' {
			continue
		}
		return atoi(segment[loc[0]:loc[1]]), true
	}
	return 0, false
}

// tabsByTitle indexes the content tabs by their h2 title.
func tabsByTitle(doc *goquery.Document) map[string]*goquery.Selection {
	tabs := make(map[string]*goquery.Selection)
	doc.Find("#scrumContent .tabbertab").Each(func(_ int, tab *goquery.Selection) {
		title := strings.TrimSpace(tab.Find("h2").First().Text())
		if title != "" {
			tabs[title] = tab
		}
	})
	return tabs
}

// parseLineups walks both team line-ups (starting XV and replacements),
// emitting a Player stub and a partial PlayerStats per resolvable row and
// building the match rosters for the later resolution stages.
func parseLineups(res *ParsedMatch, teamsTab *goquery.Selection, match *store.Match) (home, away Roster) {
	home, away = Roster{}, Roster{}

	teams := teamsTab.Find("table tr:last-child .divTeams")
	if teams.Length() < 2 {
		return home, away
	}

	teams.Each(func(teamIdx int, team *goquery.Selection) {
		teamID := match.HomeTeamID
		roster := home
		if teamIdx != 0 {
			teamID = match.AwayTeamID
			roster = away
		}

		team.ChildrenFiltered("table").Each(func(groupIdx int, group *goquery.Selection) {
			rows := group.Find("tr.liveTblRowWht")
			rows.Each(func(rowIdx int, row *goquery.Selection) {
				if rowIdx == 0 {
					return // group subtitle row
				}
				anchor := row.Find(`a[class^="liveLineupText"]`).First()
				playerID := linkID(row, `a[class^="liveLineupText"]`)
				name := strings.TrimSpace(anchor.Text())
				if playerID == "" {
					return
				}

				res.Players = append(res.Players, &store.Player{ID: playerID, Name: name})

				ps := &store.PlayerStats{
					PlayerID:  playerID,
					TeamID:    teamID,
					MatchID:   match.ID,
					FirstTeam: sql.NullBool{Bool: groupIdx == 0, Valid: true},
				}
				if number := strings.TrimSpace(row.Find("td.liveTblTextGrn").First().Text()); number != "" {
					ps.Number = sql.NullString{String: number, Valid: true}
				}
				if position := strings.TrimSpace(row.Find("td.liveTblColCtr").First().Text()); position != "" {
					ps.Position = sql.NullString{String: position, Valid: true}
				}
				res.PlayerStats = append(res.PlayerStats, ps)

				if name != "" {
					roster[playerID] = RosterEntry{Name: name, Position: ps.Position, Number: ps.Number}
				}
			})
		})
	})

	return home, away
}

// parseScorers reads the per-team scorer summaries at the top of the Teams
// tab and emits GameEvents, merged per-player PlayerStats and the per-team
// MatchStats aggregates.
func parseScorers(res *ParsedMatch, teamsTab *goquery.Selection, match *store.Match, home, away Roster, scored, conceded int) {
	blocks := teamsTab.Find(".liveTblScorers")
	if blocks.Length() <= 1 {
		return
	}

	for teamIdx := 0; teamIdx < 2; teamIdx++ {
		teamID := match.HomeTeamID
		roster := home
		if teamIdx == 1 {
			teamID = match.AwayTeamID
			roster = away
		}

		tally := make(map[string]*actionTotals)
		blocks.Each(func(i int, block *goquery.Selection) {
			if i%2 != teamIdx {
				return // home and away blocks interleave
			}
			action := strings.TrimSpace(block.Find(".liveTblTextGrn").First().Text())
			data := scorerData(block)
			if action == "" || data == "" {
				zap.S().Infof("[%s] Skipping scorer block, fields missing.", match.ID)
				return
			}
			res.GameEvents = append(res.GameEvents,
				parseScorerSummary(match.ID, teamID, action, data, roster, tally)...)
		})

		res.PlayerStats = append(res.PlayerStats, scorerPlayerStats(match.ID, teamID, tally)...)

		totals := scorerTeamTotals(tally)
		ms := &store.MatchStats{
			MatchID:  match.ID,
			TeamID:   teamID,
			Scored:   scored,
			Conceded: conceded,
			Tries:    nullInt(totals.Tries),
			Cons:     nullInt(totals.Cons),
			Pens:     nullInt(totals.Pens),
			Drops:    nullInt(totals.Drops),
		}
		if teamIdx == 1 {
			ms.Scored, ms.Conceded = conceded, scored
		}
		res.MatchStats = append(res.MatchStats, ms)
	}
}

// scorerData returns the summary text of a scorer block: the first cell
// that is not the event-type label.
func scorerData(block *goquery.Selection) string {
	data := block.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
		return !td.Is(".liveTblTextGrn") && td.Find(".liveTblTextGrn").Length() == 0
	}).First().Text()
	return strings.TrimSpace(strings.ReplaceAll(data, "\n", ""))
}

// parseMatchStatsTab walks the "Match stats" table row by row, attributing
// the two value columns to home and away by position. Both records are
// emitted even when sparse; unparsable cells are skipped per team.
func parseMatchStatsTab(res *ParsedMatch, tab *goquery.Selection, match *store.Match) {
	rows := tab.Find("table tr")
	if rows.Length() == 0 {
		zap.S().Errorf("[%s] No data in Match stats tab, aborting stage.", match.ID)
		return
	}

	homeStats := &store.MatchExtraStats{MatchID: match.ID, TeamID: match.HomeTeamID}
	awayStats := &store.MatchExtraStats{MatchID: match.ID, TeamID: match.AwayTeamID}

	rows.Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find("td:nth-child(2)").First().Text())
		if title == "" {
			return
		}
		homeVal := strings.TrimSpace(row.Find("td:nth-child(1)").First().Text())
		awayVal := strings.TrimSpace(row.Find("td:nth-child(3)").First().Text())
		if homeVal == "" || awayVal == "" {
			return
		}
		applyMatchStat(title, homeVal, homeStats)
		applyMatchStat(title, awayVal, awayStats)
	})

	res.MatchExtraStats = append(res.MatchExtraStats, homeStats, awayStats)
}

// parsePlayerStatsTab extracts one PlayerExtraStats per data row of a
// "<Team> stats" tab. Team attribution comes from resolving the row's
// player name against both rosters; rows that resolve in both or neither
// are discarded rather than guessed.
func parsePlayerStatsTab(res *ParsedMatch, tab *goquery.Selection, match *store.Match, home, away Roster) {
	tab.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		stats := parsePlayerStatsRow(row, match, home, away)
		if stats != nil {
			res.PlayerExtraStats = append(res.PlayerExtraStats, stats)
		}
	})
}

func parsePlayerStatsRow(row *goquery.Selection, match *store.Match, home, away Roster) *store.PlayerExtraStats {
	name := strings.TrimSpace(row.Find("td:nth-child(2)").First().Text())
	if name == "" {
		return nil
	}

	playerID, isHome, ok := resolveAcrossTeams(name, home, away)
	if !ok {
		return nil
	}
	teamID := match.HomeTeamID
	if !isHome {
		teamID = match.AwayTeamID
	}

	stats := &store.PlayerExtraStats{MatchID: match.ID, PlayerID: playerID, TeamID: teamID}

	if a, b, ok := parsePairExact(cell(row, 3)); ok {
		stats.Tries, stats.Assists = nullInt(a), nullInt(b)
	}
	if n, ok := parseIntCell(cell(row, 4)); ok {
		stats.Points = nullInt(n)
	}
	if a, b, c, ok := parseTriple(cell(row, 5)); ok {
		stats.Kicks, stats.Passes, stats.Runs = nullInt(a), nullInt(b), nullInt(c)
	}
	if n, ok := parseIntCell(cell(row, 6)); ok {
		stats.Meters = nullInt(n)
	}
	if n, ok := parseIntCell(cell(row, 7)); ok {
		stats.Breaks = nullInt(n)
	}
	if n, ok := parseIntCell(cell(row, 8)); ok {
		stats.DefBeaten = nullInt(n)
	}
	if n, ok := parseIntCell(cell(row, 9)); ok {
		stats.Offloads = nullInt(n)
	}
	if n, ok := parseIntCell(cell(row, 10)); ok {
		stats.Turnovers = nullInt(n)
	}
	if a, b, ok := parsePairPrefix(cell(row, 11)); ok {
		stats.TacklesMade, stats.TacklesMissed = nullInt(a), nullInt(b)
	}
	if a, b, ok := parsePairExact(cell(row, 12)); ok {
		stats.LineoutsWonOnThrow, stats.LineoutsStolenFromOpp = nullInt(a), nullInt(b)
	}
	if n, ok := parseIntCell(cell(row, 13)); ok {
		stats.PensConceded = nullInt(n)
	}
	if a, b, ok := parsePairPrefix(cell(row, 14)); ok {
		stats.YellowCards, stats.RedCards = nullInt(a), nullInt(b)
	}

	return stats
}

func cell(row *goquery.Selection, n int) string {
	return strings.TrimSpace(row.Find(fmt.Sprintf("td:nth-child(%d)", n)).First().Text())
}

// IframeURL extracts the data iframe location from a match overview page.
func IframeURL(doc *goquery.Document) (string, bool) {
	return doc.Find("#win_old").First().Attr("src")
}
