package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/ceres/internal/store"
)

// TeamRepository handles team data access. Teams are extracted twice per
// match and recur across matches, so the upsert is the dedup point.
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// Upsert stores a team, keeping the latest harvested name.
func (r *TeamRepository) Upsert(ctx context.Context, t *store.Team) error {
	query := `
		INSERT INTO teams (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := r.db.DB().ExecContext(ctx, query, t.ID, t.Name); err != nil {
		return fmt.Errorf("upserting team %s: %w", t.ID, err)
	}
	return nil
}

// GetAll returns every known team ordered by name.
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	rows, err := r.db.DB().QueryContext(ctx, "SELECT id, name FROM teams ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		t := &store.Team{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
