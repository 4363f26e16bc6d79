package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/ceres/internal/store"
)

// MatchRepository handles match and venue data access.
type MatchRepository struct {
	db *store.Database
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *store.Database) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert stores a match reference, refreshing its fields on re-harvest.
func (r *MatchRepository) Upsert(ctx context.Context, m *store.Match) error {
	query := `
		INSERT INTO matches (id, home_team_id, away_team_id, ground_id, match_type, won, date)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			ground_id = COALESCE(EXCLUDED.ground_id, matches.ground_id),
			match_type = EXCLUDED.match_type,
			won = EXCLUDED.won,
			date = EXCLUDED.date
	`
	_, err := r.db.DB().ExecContext(ctx, query,
		m.ID, m.HomeTeamID, m.AwayTeamID, m.GroundID, m.MatchType, m.Won, m.Date)
	if err != nil {
		return fmt.Errorf("upserting match %s: %w", m.ID, err)
	}
	return nil
}

// GetByID finds a match by id.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*store.Match, error) {
	query := `
		SELECT id, home_team_id, away_team_id, COALESCE(ground_id, ''), match_type, won, date
		FROM matches
		WHERE id = $1
	`
	m := &store.Match{}
	err := r.db.DB().QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.GroundID, &m.MatchType, &m.Won, &m.Date)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("querying match: %w", err)
	}
	return m, nil
}

// Count returns the number of harvested matches.
func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM matches").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	return count, nil
}

// UpsertVenue stores a venue, keeping the latest name.
func (r *MatchRepository) UpsertVenue(ctx context.Context, v *store.Venue) error {
	query := `
		INSERT INTO venues (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := r.db.DB().ExecContext(ctx, query, v.ID, v.Name); err != nil {
		return fmt.Errorf("upserting venue %s: %w", v.ID, err)
	}
	return nil
}

// StartRun records the beginning of a harvest run and returns its id.
func (r *MatchRepository) StartRun(ctx context.Context) (int, error) {
	var id int
	err := r.db.DB().QueryRowContext(ctx,
		"INSERT INTO harvest_runs (status) VALUES ('running') RETURNING id").Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("starting harvest run: %w", err)
	}
	return id, nil
}

// FinishRun closes a harvest run with its final counters.
func (r *MatchRepository) FinishRun(ctx context.Context, id int, matches, failures int, status, lastError string) error {
	query := `
		UPDATE harvest_runs
		SET finished_at = NOW(), matches = $2, failures = $3, status = $4,
			last_error = NULLIF($5, '')
		WHERE id = $1
	`
	if _, err := r.db.DB().ExecContext(ctx, query, id, matches, failures, status, lastError); err != nil {
		return fmt.Errorf("finishing harvest run %d: %w", id, err)
	}
	return nil
}

// LatestRun returns the most recent harvest run, if any.
func (r *MatchRepository) LatestRun(ctx context.Context) (*store.HarvestRun, error) {
	query := `
		SELECT id, started_at, finished_at, matches, failures, status, last_error
		FROM harvest_runs
		ORDER BY started_at DESC
		LIMIT 1
	`
	run := &store.HarvestRun{}
	err := r.db.DB().QueryRowContext(ctx, query).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Matches, &run.Failures,
		&run.Status, &run.LastError)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying harvest runs: %w", err)
	}
	return run, nil
}
