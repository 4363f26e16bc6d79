package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/ceres/internal/store"
)

// PlayerRepository handles player data access.
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// UpsertStub stores the (id, name) stub extracted from a line-up without
// touching bio fields a previous enrichment may already have filled.
func (r *PlayerRepository) UpsertStub(ctx context.Context, p *store.Player) error {
	query := `
		INSERT INTO players (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := r.db.DB().ExecContext(ctx, query, p.ID, p.Name); err != nil {
		return fmt.Errorf("upserting player %s: %w", p.ID, err)
	}
	return nil
}

// UpdateBio merges the optional bio fields onto an existing player row;
// absent fields never overwrite present ones.
func (r *PlayerRepository) UpdateBio(ctx context.Context, p *store.Player) error {
	query := `
		UPDATE players
		SET full_name = COALESCE($2, full_name),
			birthday = COALESCE($3, birthday),
			height = COALESCE($4, height),
			weight = COALESCE($5, weight)
		WHERE id = $1
	`
	_, err := r.db.DB().ExecContext(ctx, query,
		p.ID, p.FullName, p.Birthday, p.Height, p.Weight)
	if err != nil {
		return fmt.Errorf("updating player bio %s: %w", p.ID, err)
	}
	return nil
}

// GetByID finds a player by id.
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*store.Player, error) {
	query := `
		SELECT id, name, full_name, birthday, height, weight
		FROM players
		WHERE id = $1
	`
	p := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.FullName, &p.Birthday, &p.Height, &p.Weight)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %s: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}
	return p, nil
}

// Count returns the number of known players.
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting players: %w", err)
	}
	return count, nil
}
