package playoffs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const seriesColumns = `id, season_id, round, conference, bracket_slot, higher_seed_id, lower_seed_id,
	higher_seed, lower_seed, higher_seed_wins, lower_seed_wins, status, winner_id,
	created_at, updated_at`

// CreateSeries inserts a batch of series rows on tx.
func (r *Repository) CreateSeries(ctx context.Context, tx *sql.Tx, series []models.PlayoffSeries) error {
	for _, s := range series {
		var conf sql.NullString
		if s.Conference != nil {
			conf = sql.NullString{String: string(*s.Conference), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO playoff_series (id, season_id, round, conference, bracket_slot,
				higher_seed_id, lower_seed_id, higher_seed, lower_seed,
				higher_seed_wins, lower_seed_wins, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10)
		`, s.ID, s.SeasonID, s.Round, conf, s.BracketSlot, s.HigherSeedID, s.LowerSeedID,
			s.HigherSeed, s.LowerSeed, models.SeriesStatusScheduled)
		if err != nil {
			return fmt.Errorf("failed to create series %s: %w", s.ID, err)
		}
	}
	return nil
}

func (r *Repository) GetSeries(ctx context.Context, id uuid.UUID) (*models.PlayoffSeries, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM playoff_series WHERE id = $1`, id)
	s, err := scanSeries(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("series %s: %w", id, ErrSeriesNotFound)
		}
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	return s, nil
}

// GetSeriesForUpdate reads a series under a row-level exclusive lock on
// tx, serializing concurrent game recordings on the same series.
func (r *Repository) GetSeriesForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.PlayoffSeries, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM playoff_series WHERE id = $1 FOR UPDATE`, id)
	s, err := scanSeries(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("series %s: %w", id, ErrSeriesNotFound)
		}
		return nil, fmt.Errorf("failed to lock series: %w", err)
	}
	return s, nil
}

// ListByRound returns a round's series in bracket order. Adjacent slots
// per conference feed one next-round series, which NextRoundMatchups
// depends on.
func (r *Repository) ListByRound(ctx context.Context, seasonID uuid.UUID, round int) ([]models.PlayoffSeries, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+seriesColumns+` FROM playoff_series
		WHERE season_id = $1 AND round = $2
		ORDER BY conference, bracket_slot
	`, seasonID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to list round %d series: %w", round, err)
	}
	defer rows.Close()

	var out []models.PlayoffSeries
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan series: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// RoundExists reports on tx whether any series exist for a round. Called
// under the round-advance advisory lock so two concurrent advancement
// attempts cannot both see false.
func (r *Repository) RoundExists(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, round int) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM playoff_series WHERE season_id = $1 AND round = $2
	`, seasonID, round).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check round %d: %w", round, err)
	}
	return n > 0, nil
}

// ApplyGameResult writes a game's series credit on tx: increments the
// winning side, flips status, and stamps the winner when the series ends.
// The status guard makes the write conditional; zero rows means the
// series completed under a concurrent writer and this result must be
// discarded by rolling back the enclosing transaction.
func (r *Repository) ApplyGameResult(ctx context.Context, tx *sql.Tx, id uuid.UUID, higherSeedWon bool, completed bool, winnerID *uuid.UUID) (*models.PlayoffSeries, error) {
	status := models.SeriesStatusInProgress
	if completed {
		status = models.SeriesStatusCompleted
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE playoff_series
		SET higher_seed_wins = higher_seed_wins + CASE WHEN $2 THEN 1 ELSE 0 END,
		    lower_seed_wins  = lower_seed_wins  + CASE WHEN $2 THEN 0 ELSE 1 END,
		    status = $3,
		    winner_id = $4,
		    updated_at = $5
		WHERE id = $1 AND status != 'COMPLETED'
		RETURNING `+seriesColumns+`
	`, id, higherSeedWon, status, sqlutil.ToNullUUID(winnerID), time.Now())

	s, err := scanSeries(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesCompleted
		}
		return nil, fmt.Errorf("failed to apply game result to series %s: %w", id, err)
	}
	return s, nil
}

// RunTx exposes the scoped-transaction helper for app-layer use.
func (r *Repository) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return sqlutil.Run(ctx, r.db, fn)
}

// RunLocked runs fn in a transaction holding the advisory lock for key.
func (r *Repository) RunLocked(ctx context.Context, key sqlutil.LockKey, fn func(tx *sql.Tx) error) error {
	return sqlutil.RunLocked(ctx, r.db, key, fn)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeries(row rowScanner) (*models.PlayoffSeries, error) {
	var s models.PlayoffSeries
	var conf sql.NullString
	var winner uuid.NullUUID
	err := row.Scan(&s.ID, &s.SeasonID, &s.Round, &conf, &s.BracketSlot, &s.HigherSeedID, &s.LowerSeedID,
		&s.HigherSeed, &s.LowerSeed, &s.HigherSeedWins, &s.LowerSeedWins, &s.Status, &winner,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if conf.Valid {
		c := models.Conference(conf.String)
		s.Conference = &c
	}
	s.WinnerID = sqlutil.FromNullUUID(winner)
	return &s, nil
}
