package store

import (
	"database/sql"
	"time"
)

// Match action types recognised in scorer summaries.
const (
	ActionPens  = "pens"
	ActionTries = "tries"
	ActionDrops = "drops"
	ActionCons  = "cons"
)

// Match represents one harvested match reference. All identifiers are the
// opaque numeric-string ids statsguru embeds in hyperlinks.
type Match struct {
	ID         string `json:"id" db:"id"`
	HomeTeamID string `json:"home_team_id" db:"home_team_id"`
	AwayTeamID string `json:"away_team_id" db:"away_team_id"`
	GroundID   string `json:"ground_id,omitempty" db:"ground_id"`
	MatchType  string `json:"match_type" db:"match_type"` // "home" or "neutral"
	Won        string `json:"won" db:"won"`               // textual result column
	Date       string `json:"date" db:"date"`
}

// Team represents one side of a match. The same team id recurs across
// matches; deduplication happens at the store, not during extraction.
type Team struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Venue is emitted at most once per match, from the match page notes.
type Venue struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// MatchStats holds one team's scoreline for a match plus the aggregate
// score-category counts recovered from the scorer summaries. Exactly two
// records exist per match, each the mirror of the other.
type MatchStats struct {
	MatchID  string        `json:"match_id" db:"match_id"`
	TeamID   string        `json:"team_id" db:"team_id"`
	Scored   int           `json:"scored" db:"scored"`
	Conceded int           `json:"conceded" db:"conceded"`
	Tries    sql.NullInt32 `json:"tries,omitempty" db:"tries"`
	Cons     sql.NullInt32 `json:"cons,omitempty" db:"cons"`
	Pens     sql.NullInt32 `json:"pens,omitempty" db:"pens"`
	Drops    sql.NullInt32 `json:"drops,omitempty" db:"drops"`
}

// Player is created as a stub (id, name) from the Teams tab line-up and
// enriched opportunistically from the player bio page.
type Player struct {
	ID       string         `json:"id" db:"id"`
	Name     string         `json:"name" db:"name"`
	FullName sql.NullString `json:"full_name,omitempty" db:"full_name"`
	Birthday sql.NullString `json:"birthday,omitempty" db:"birthday"`
	Height   sql.NullString `json:"height,omitempty" db:"height"`
	Weight   sql.NullString `json:"weight,omitempty" db:"weight"`
}

// PlayerStats is a partial per-player-per-match record. Several partials
// may be extracted for the same (player_id, match_id) pair from different
// stages; the repository merges them on upsert.
type PlayerStats struct {
	PlayerID  string         `json:"player_id" db:"player_id"`
	TeamID    string         `json:"team_id" db:"team_id"`
	MatchID   string         `json:"match_id" db:"match_id"`
	Number    sql.NullString `json:"number,omitempty" db:"number"`
	Position  sql.NullString `json:"position,omitempty" db:"position"`
	FirstTeam sql.NullBool   `json:"first_team,omitempty" db:"first_team"`
	Tries     sql.NullInt32  `json:"tries,omitempty" db:"tries"`
	Assists   sql.NullInt32  `json:"assists,omitempty" db:"assists"`
	Cons      sql.NullInt32  `json:"cons,omitempty" db:"cons"`
	Pens      sql.NullInt32  `json:"pens,omitempty" db:"pens"`
	Drops     sql.NullInt32  `json:"drops,omitempty" db:"drops"`
}

// GameEvent is a single scoring event with a concrete minute marker.
type GameEvent struct {
	PlayerID   string `json:"player_id" db:"player_id"`
	TeamID     string `json:"team_id" db:"team_id"`
	MatchID    string `json:"match_id" db:"match_id"`
	Time       int    `json:"time" db:"time"`
	ActionType string `json:"action_type" db:"action_type"`
}

// MatchExtraStats carries the sparse per-team aggregate metrics from the
// "Match stats" tab. A metric absent from the source text is simply NULL.
type MatchExtraStats struct {
	MatchID             string        `json:"match_id" db:"match_id"`
	TeamID              string        `json:"team_id" db:"team_id"`
	Kicks               sql.NullInt32 `json:"kicks,omitempty" db:"kicks"`
	Passes              sql.NullInt32 `json:"passes,omitempty" db:"passes"`
	Runs                sql.NullInt32 `json:"runs,omitempty" db:"runs"`
	Meters              sql.NullInt32 `json:"meters,omitempty" db:"meters"`
	Breaks              sql.NullInt32 `json:"breaks,omitempty" db:"breaks"`
	DefBeaten           sql.NullInt32 `json:"def_beaten,omitempty" db:"def_beaten"`
	Offloads            sql.NullInt32 `json:"offloads,omitempty" db:"offloads"`
	Turnovers           sql.NullInt32 `json:"turnovers,omitempty" db:"turnovers"`
	PensConceded        sql.NullInt32 `json:"pens_conceded,omitempty" db:"pens_conceded"`
	PensAttempt         sql.NullInt32 `json:"pens_attempt,omitempty" db:"pens_attempt"`
	DropsAttempt        sql.NullInt32 `json:"drops_attempt,omitempty" db:"drops_attempt"`
	RucksInit           sql.NullInt32 `json:"rucks_init,omitempty" db:"rucks_init"`
	RucksWon            sql.NullInt32 `json:"rucks_won,omitempty" db:"rucks_won"`
	MallInit            sql.NullInt32 `json:"mall_init,omitempty" db:"mall_init"`
	MallWon             sql.NullInt32 `json:"mall_won,omitempty" db:"mall_won"`
	TacklesMade         sql.NullInt32 `json:"tackles_made,omitempty" db:"tackles_made"`
	TacklesMissed       sql.NullInt32 `json:"tackles_missed,omitempty" db:"tackles_missed"`
	ScrumsWonOnFeed     sql.NullInt32 `json:"scrums_won_on_feed,omitempty" db:"scrums_won_on_feed"`
	ScrumsLostOnFeed    sql.NullInt32 `json:"scrums_lost_on_feed,omitempty" db:"scrums_lost_on_feed"`
	LineoutsWonOnThrow  sql.NullInt32 `json:"lineouts_won_on_throw,omitempty" db:"lineouts_won_on_throw"`
	LineoutsLostOnThrow sql.NullInt32 `json:"lineouts_lost_on_throw,omitempty" db:"lineouts_lost_on_throw"`
	YellowCards         sql.NullInt32 `json:"yellow_cards,omitempty" db:"yellow_cards"`
	RedCards            sql.NullInt32 `json:"red_cards,omitempty" db:"red_cards"`
}

// PlayerExtraStats carries the sparse per-player metrics from the
// per-team "<Team> stats" tabs.
type PlayerExtraStats struct {
	MatchID               string        `json:"match_id" db:"match_id"`
	PlayerID              string        `json:"player_id" db:"player_id"`
	TeamID                string        `json:"team_id" db:"team_id"`
	Tries                 sql.NullInt32 `json:"tries,omitempty" db:"tries"`
	Assists               sql.NullInt32 `json:"assists,omitempty" db:"assists"`
	Points                sql.NullInt32 `json:"points,omitempty" db:"points"`
	Kicks                 sql.NullInt32 `json:"kicks,omitempty" db:"kicks"`
	Passes                sql.NullInt32 `json:"passes,omitempty" db:"passes"`
	Runs                  sql.NullInt32 `json:"runs,omitempty" db:"runs"`
	Meters                sql.NullInt32 `json:"meters,omitempty" db:"meters"`
	Breaks                sql.NullInt32 `json:"breaks,omitempty" db:"breaks"`
	DefBeaten             sql.NullInt32 `json:"def_beaten,omitempty" db:"def_beaten"`
	Offloads              sql.NullInt32 `json:"offloads,omitempty" db:"offloads"`
	Turnovers             sql.NullInt32 `json:"turnovers,omitempty" db:"turnovers"`
	TacklesMade           sql.NullInt32 `json:"tackles_made,omitempty" db:"tackles_made"`
	TacklesMissed         sql.NullInt32 `json:"tackles_missed,omitempty" db:"tackles_missed"`
	LineoutsWonOnThrow    sql.NullInt32 `json:"lineouts_won_on_throw,omitempty" db:"lineouts_won_on_throw"`
	LineoutsStolenFromOpp sql.NullInt32 `json:"lineouts_stolen_from_opp,omitempty" db:"lineouts_stolen_from_opp"`
	PensConceded          sql.NullInt32 `json:"pens_conceded,omitempty" db:"pens_conceded"`
	YellowCards           sql.NullInt32 `json:"yellow_cards,omitempty" db:"yellow_cards"`
	RedCards              sql.NullInt32 `json:"red_cards,omitempty" db:"red_cards"`
}

// HarvestRun records one end-to-end harvest for the status API.
type HarvestRun struct {
	ID         int            `json:"id" db:"id"`
	StartedAt  time.Time      `json:"started_at" db:"started_at"`
	FinishedAt sql.NullTime   `json:"finished_at,omitempty" db:"finished_at"`
	Matches    int            `json:"matches" db:"matches"`
	Failures   int            `json:"failures" db:"failures"`
	Status     string         `json:"status" db:"status"`
	LastError  sql.NullString `json:"last_error,omitempty" db:"last_error"`
}
