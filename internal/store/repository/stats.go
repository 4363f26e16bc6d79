package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/ceres/internal/store"
)

// StatsRepository handles every statistics record. The extraction stages
// emit partial records for the same keys; the upserts here merge them,
// with absent (NULL) fields never clobbering present ones.
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// UpsertMatchStats merges one team's scoreline/aggregate record.
func (r *StatsRepository) UpsertMatchStats(ctx context.Context, s *store.MatchStats) error {
	query := `
		INSERT INTO match_stats (match_id, team_id, scored, conceded, tries, cons, pens, drops)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (match_id, team_id) DO UPDATE SET
			scored = EXCLUDED.scored,
			conceded = EXCLUDED.conceded,
			tries = COALESCE(EXCLUDED.tries, match_stats.tries),
			cons = COALESCE(EXCLUDED.cons, match_stats.cons),
			pens = COALESCE(EXCLUDED.pens, match_stats.pens),
			drops = COALESCE(EXCLUDED.drops, match_stats.drops)
	`
	_, err := r.db.DB().ExecContext(ctx, query,
		s.MatchID, s.TeamID, s.Scored, s.Conceded, s.Tries, s.Cons, s.Pens, s.Drops)
	if err != nil {
		return fmt.Errorf("upserting match stats %s/%s: %w", s.MatchID, s.TeamID, err)
	}
	return nil
}

// UpsertPlayerStats merges one partial per-player-per-match record.
func (r *StatsRepository) UpsertPlayerStats(ctx context.Context, s *store.PlayerStats) error {
	query := `
		INSERT INTO player_stats (player_id, team_id, match_id, number, position,
			first_team, tries, assists, cons, pens, drops)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (player_id, match_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			number = COALESCE(EXCLUDED.number, player_stats.number),
			position = COALESCE(EXCLUDED.position, player_stats.position),
			first_team = COALESCE(EXCLUDED.first_team, player_stats.first_team),
			tries = COALESCE(EXCLUDED.tries, player_stats.tries),
			assists = COALESCE(EXCLUDED.assists, player_stats.assists),
			cons = COALESCE(EXCLUDED.cons, player_stats.cons),
			pens = COALESCE(EXCLUDED.pens, player_stats.pens),
			drops = COALESCE(EXCLUDED.drops, player_stats.drops)
	`
	_, err := r.db.DB().ExecContext(ctx, query,
		s.PlayerID, s.TeamID, s.MatchID, s.Number, s.Position, s.FirstTeam,
		s.Tries, s.Assists, s.Cons, s.Pens, s.Drops)
	if err != nil {
		return fmt.Errorf("upserting player stats %s/%s: %w", s.PlayerID, s.MatchID, err)
	}
	return nil
}

// InsertGameEvent stores one scoring event; duplicates are dropped.
func (r *StatsRepository) InsertGameEvent(ctx context.Context, e *store.GameEvent) error {
	query := `
		INSERT INTO game_events (player_id, team_id, match_id, time, action_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, player_id, action_type, time) DO NOTHING
	`
	_, err := r.db.DB().ExecContext(ctx, query,
		e.PlayerID, e.TeamID, e.MatchID, e.Time, e.ActionType)
	if err != nil {
		return fmt.Errorf("inserting game event %s/%s: %w", e.MatchID, e.PlayerID, err)
	}
	return nil
}

// UpsertMatchExtraStats merges one team's sparse aggregate metrics.
func (r *StatsRepository) UpsertMatchExtraStats(ctx context.Context, s *store.MatchExtraStats) error {
	query := `
		INSERT INTO match_extra_stats (match_id, team_id, kicks, passes, runs, meters,
			breaks, def_beaten, offloads, turnovers, pens_conceded, pens_attempt,
			drops_attempt, rucks_init, rucks_won, mall_init, mall_won, tackles_made,
			tackles_missed, scrums_won_on_feed, scrums_lost_on_feed,
			lineouts_won_on_throw, lineouts_lost_on_throw, yellow_cards, red_cards)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (match_id, team_id) DO UPDATE SET
			kicks = COALESCE(EXCLUDED.kicks, match_extra_stats.kicks),
			passes = COALESCE(EXCLUDED.passes, match_extra_stats.passes),
			runs = COALESCE(EXCLUDED.runs, match_extra_stats.runs),
			meters = COALESCE(EXCLUDED.meters, match_extra_stats.meters),
			breaks = COALESCE(EXCLUDED.breaks, match_extra_stats.breaks),
			def_beaten = COALESCE(EXCLUDED.def_beaten, match_extra_stats.def_beaten),
			offloads = COALESCE(EXCLUDED.offloads, match_extra_stats.offloads),
			turnovers = COALESCE(EXCLUDED.turnovers, match_extra_stats.turnovers),
			pens_conceded = COALESCE(EXCLUDED.pens_conceded, match_extra_stats.pens_conceded),
			pens_attempt = COALESCE(EXCLUDED.pens_attempt, match_extra_stats.pens_attempt),
			drops_attempt = COALESCE(EXCLUDED.drops_attempt, match_extra_stats.drops_attempt),
			rucks_init = COALESCE(EXCLUDED.rucks_init, match_extra_stats.rucks_init),
			rucks_won = COALESCE(EXCLUDED.rucks_won, match_extra_stats.rucks_won),
			mall_init = COALESCE(EXCLUDED.mall_init, match_extra_stats.mall_init),
			mall_won = COALESCE(EXCLUDED.mall_won, match_extra_stats.mall_won),
			tackles_made = COALESCE(EXCLUDED.tackles_made, match_extra_stats.tackles_made),
			tackles_missed = COALESCE(EXCLUDED.tackles_missed, match_extra_stats.tackles_missed),
			scrums_won_on_feed = COALESCE(EXCLUDED.scrums_won_on_feed, match_extra_stats.scrums_won_on_feed),
			scrums_lost_on_feed = COALESCE(EXCLUDED.scrums_lost_on_feed, match_extra_stats.scrums_lost_on_feed),
			lineouts_won_on_throw = COALESCE(EXCLUDED.lineouts_won_on_throw, match_extra_stats.lineouts_won_on_throw),
			lineouts_lost_on_throw = COALESCE(EXCLUDED.lineouts_lost_on_throw, match_extra_stats.lineouts_lost_on_throw),
			yellow_cards = COALESCE(EXCLUDED.yellow_cards, match_extra_stats.yellow_cards),
			red_cards = COALESCE(EXCLUDED.red_cards, match_extra_stats.red_cards)
	`
	_, err := r.db.DB().ExecContext(ctx, query,
		s.MatchID, s.TeamID, s.Kicks, s.Passes, s.Runs, s.Meters, s.Breaks,
		s.DefBeaten, s.Offloads, s.Turnovers, s.PensConceded, s.PensAttempt,
		s.DropsAttempt, s.RucksInit, s.RucksWon, s.MallInit, s.MallWon,
		s.TacklesMade, s.TacklesMissed, s.ScrumsWonOnFeed, s.ScrumsLostOnFeed,
		s.LineoutsWonOnThrow, s.LineoutsLostOnThrow, s.YellowCards, s.RedCards)
	if err != nil {
		return fmt.Errorf("upserting match extra stats %s/%s: %w", s.MatchID, s.TeamID, err)
	}
	return nil
}

// UpsertPlayerExtraStats merges one player's sparse per-match metrics.
func (r *StatsRepository) UpsertPlayerExtraStats(ctx context.Context, s *store.PlayerExtraStats) error {
	query := `
		INSERT INTO player_extra_stats (match_id, player_id, team_id, tries, assists,
			points, kicks, passes, runs, meters, breaks, def_beaten, offloads,
			turnovers, tackles_made, tackles_missed, lineouts_won_on_throw,
			lineouts_stolen_from_opp, pens_conceded, yellow_cards, red_cards)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21)
		ON CONFLICT (match_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			tries = COALESCE(EXCLUDED.tries, player_extra_stats.tries),
			assists = COALESCE(EXCLUDED.assists, player_extra_stats.assists),
			points = COALESCE(EXCLUDED.points, player_extra_stats.points),
			kicks = COALESCE(EXCLUDED.kicks, player_extra_stats.kicks),
			passes = COALESCE(EXCLUDED.passes, player_extra_stats.passes),
			runs = COALESCE(EXCLUDED.runs, player_extra_stats.runs),
			meters = COALESCE(EXCLUDED.meters, player_extra_stats.meters),
			breaks = COALESCE(EXCLUDED.breaks, player_extra_stats.breaks),
			def_beaten = COALESCE(EXCLUDED.def_beaten, player_extra_stats.def_beaten),
			offloads = COALESCE(EXCLUDED.offloads, player_extra_stats.offloads),
			turnovers = COALESCE(EXCLUDED.turnovers, player_extra_stats.turnovers),
			tackles_made = COALESCE(EXCLUDED.tackles_made, player_extra_stats.tackles_made),
			tackles_missed = COALESCE(EXCLUDED.tackles_missed, player_extra_stats.tackles_missed),
			lineouts_won_on_throw = COALESCE(EXCLUDED.lineouts_won_on_throw, player_extra_stats.lineouts_won_on_throw),
			lineouts_stolen_from_opp = COALESCE(EXCLUDED.lineouts_stolen_from_opp, player_extra_stats.lineouts_stolen_from_opp),
			pens_conceded = COALESCE(EXCLUDED.pens_conceded, player_extra_stats.pens_conceded),
			yellow_cards = COALESCE(EXCLUDED.yellow_cards, player_extra_stats.yellow_cards),
			red_cards = COALESCE(EXCLUDED.red_cards, player_extra_stats.red_cards)
	`
	_, err := r.db.DB().ExecContext(ctx, query,
		s.MatchID, s.PlayerID, s.TeamID, s.Tries, s.Assists, s.Points, s.Kicks,
		s.Passes, s.Runs, s.Meters, s.Breaks, s.DefBeaten, s.Offloads,
		s.Turnovers, s.TacklesMade, s.TacklesMissed, s.LineoutsWonOnThrow,
		s.LineoutsStolenFromOpp, s.PensConceded, s.YellowCards, s.RedCards)
	if err != nil {
		return fmt.Errorf("upserting player extra stats %s/%s: %w", s.MatchID, s.PlayerID, err)
	}
	return nil
}

// CountGameEvents returns the number of stored scoring events.
func (r *StatsRepository) CountGameEvents(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM game_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting game events: %w", err)
	}
	return count, nil
}
