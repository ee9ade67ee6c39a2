package games

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertGame persists a played game on tx, so the game row and whatever
// series or standings credit it carries commit atomically.
func (r *Repository) InsertGame(ctx context.Context, tx *sql.Tx, g models.Game) error {
	var seriesID uuid.NullUUID
	if g.SeriesID != nil {
		seriesID = uuid.NullUUID{UUID: *g.SeriesID, Valid: true}
	}
	boxStats := pqtype.NullRawMessage{RawMessage: g.BoxStats, Valid: g.BoxStats != nil}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO games (id, season_id, series_id, day, home_team_id, away_team_id,
			home_score, away_score, winner_id, box_stats, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, g.ID, g.SeasonID, seriesID, g.Day, g.HomeTeamID, g.AwayTeamID,
		g.HomeScore, g.AwayScore, g.WinnerID, boxStats, g.PlayedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

// CountByDay returns how many games exist for a season day, used to tell
// whether the day's slate has already been simulated.
func (r *Repository) CountByDay(ctx context.Context, seasonID uuid.UUID, day int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM games WHERE season_id = $1 AND day = $2 AND series_id IS NULL
	`, seasonID, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count games for day %d: %w", day, err)
	}
	return n, nil
}

// RunTx exposes the scoped-transaction helper.
func (r *Repository) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return sqlutil.Run(ctx, r.db, fn)
}
