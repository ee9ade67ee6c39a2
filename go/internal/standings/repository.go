package standings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RecordResult bumps the winner's and loser's records on tx, in the same
// transaction that persisted the game.
func (r *Repository) RecordResult(ctx context.Context, tx *sql.Tx, seasonID, winnerID, loserID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE standings SET wins = wins + 1
		WHERE season_id = $1 AND team_id = $2
	`, seasonID, winnerID); err != nil {
		return fmt.Errorf("failed to record win for %s: %w", winnerID, err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE standings SET losses = losses + 1
		WHERE season_id = $1 AND team_id = $2
	`, seasonID, loserID); err != nil {
		return fmt.Errorf("failed to record loss for %s: %w", loserID, err)
	}
	return nil
}

// InitSeason inserts a zeroed standings row per team for the season.
func (r *Repository) InitSeason(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, teams []models.Team) error {
	for _, t := range teams {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO standings (season_id, team_id, conference, wins, losses)
			VALUES ($1, $2, $3, 0, 0)
			ON CONFLICT (season_id, team_id) DO NOTHING
		`, seasonID, t.ID, t.Conference); err != nil {
			return fmt.Errorf("failed to init standings for team %s: %w", t.ID, err)
		}
	}
	return nil
}

// ConferenceSeeds returns a conference's standings ordered best record
// first, with Seed filled in 1..n. Ties break on wins, then team id, so
// the order is stable across reads.
func (r *Repository) ConferenceSeeds(ctx context.Context, seasonID uuid.UUID, conf models.Conference) ([]models.Standing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT season_id, team_id, conference, wins, losses
		FROM standings
		WHERE season_id = $1 AND conference = $2
		ORDER BY (wins::float / GREATEST(wins + losses, 1)) DESC, wins DESC, team_id
	`, seasonID, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s seeds: %w", conf, err)
	}
	defer rows.Close()

	var out []models.Standing
	for rows.Next() {
		var s models.Standing
		if err := rows.Scan(&s.SeasonID, &s.TeamID, &s.Conference, &s.Wins, &s.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		s.Seed = len(out) + 1
		out = append(out, s)
	}
	return out, rows.Err()
}

// LeagueWorstFirst returns all standings ordered worst record first, the
// ordering the lottery and draft consume.
func (r *Repository) LeagueWorstFirst(ctx context.Context, seasonID uuid.UUID) ([]models.Standing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT season_id, team_id, conference, wins, losses
		FROM standings
		WHERE season_id = $1
		ORDER BY (wins::float / GREATEST(wins + losses, 1)) ASC, wins ASC, team_id
	`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get league standings: %w", err)
	}
	defer rows.Close()

	var out []models.Standing
	for rows.Next() {
		var s models.Standing
		if err := rows.Scan(&s.SeasonID, &s.TeamID, &s.Conference, &s.Wins, &s.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetStanding returns one team's record.
func (r *Repository) GetStanding(ctx context.Context, seasonID, teamID uuid.UUID) (*models.Standing, error) {
	var s models.Standing
	err := r.db.QueryRowContext(ctx, `
		SELECT season_id, team_id, conference, wins, losses
		FROM standings
		WHERE season_id = $1 AND team_id = $2
	`, seasonID, teamID).Scan(&s.SeasonID, &s.TeamID, &s.Conference, &s.Wins, &s.Losses)
	if err != nil {
		return nil, fmt.Errorf("failed to get standing for team %s: %w", teamID, err)
	}
	return &s, nil
}

// Count returns how many teams have a standings row for the season. The
// playoff bracket refuses to generate until this reaches the full league.
func (r *Repository) Count(ctx context.Context, seasonID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM standings WHERE season_id = $1
	`, seasonID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count standings: %w", err)
	}
	return n, nil
}
