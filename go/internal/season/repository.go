package season

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

const seasonColumns = `id, sequence_number, status, trade_deadline_day,
	all_star_day, schedule_games, champion_team_id, created_at, updated_at`

const franchiseColumns = `id, user_id, team_id, season_id, phase,
	offseason_phase, current_day, is_active, created_at, updated_at`

func (r *Repository) CreateSeason(ctx context.Context, tx *sql.Tx, s *models.Season) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO seasons (id, sequence_number, status, trade_deadline_day,
			all_star_day, schedule_games, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.SequenceNumber, s.Status, s.TradeDeadlineDay, s.AllStarDay,
		s.ScheduleGames, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create season: %w", err)
	}
	return nil
}

func (r *Repository) GetSeason(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+seasonColumns+` FROM seasons WHERE id = $1`, id)
	s, err := scanSeason(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return s, nil
}

// UpdateSeasonStatus writes the season status on tx, so it commits
// atomically with the franchise phase write it accompanies.
func (r *Repository) UpdateSeasonStatus(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, status models.SeasonStatus) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE seasons SET status = $2, updated_at = $3 WHERE id = $1
	`, seasonID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update season status: %w", err)
	}
	return nil
}

// SetChampion records the champion only while none is set, and reports
// whether this call did the write. A second crowning attempt sees zero
// rows and leaves the original champion in place.
func (r *Repository) SetChampion(ctx context.Context, tx *sql.Tx, seasonID, teamID uuid.UUID) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE seasons SET champion_team_id = $2, updated_at = $3
		WHERE id = $1 AND champion_team_id IS NULL
	`, seasonID, teamID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to set champion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to set champion: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) CreateFranchise(ctx context.Context, tx *sql.Tx, f *models.Franchise) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO franchises (id, user_id, team_id, season_id, phase,
			offseason_phase, current_day, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, f.ID, f.UserID, f.TeamID, f.SeasonID, f.Phase, offseasonValue(f.OffseasonPhase),
		f.CurrentDay, f.IsActive, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create franchise: %w", err)
	}
	return nil
}

func (r *Repository) GetFranchise(ctx context.Context, id uuid.UUID) (*models.Franchise, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+franchiseColumns+` FROM franchises WHERE id = $1`, id)
	f, err := scanFranchise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFranchiseNotFound
		}
		return nil, fmt.Errorf("failed to get franchise: %w", err)
	}
	return f, nil
}

// GetFranchiseForUpdate row-locks the franchise inside a phase
// transition.
func (r *Repository) GetFranchiseForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Franchise, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+franchiseColumns+` FROM franchises WHERE id = $1 FOR UPDATE`, id)
	f, err := scanFranchise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFranchiseNotFound
		}
		return nil, fmt.Errorf("failed to get franchise: %w", err)
	}
	return f, nil
}

// FranchiseForSeason returns the human franchise bound to a season.
func (r *Repository) FranchiseForSeason(ctx context.Context, seasonID uuid.UUID) (*models.Franchise, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+franchiseColumns+` FROM franchises WHERE season_id = $1`, seasonID)
	f, err := scanFranchise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFranchiseNotFound
		}
		return nil, fmt.Errorf("failed to get franchise for season: %w", err)
	}
	return f, nil
}

// ActiveFranchiseForUser returns the user's single active franchise.
func (r *Repository) ActiveFranchiseForUser(ctx context.Context, userID uuid.UUID) (*models.Franchise, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+franchiseColumns+` FROM franchises
		WHERE user_id = $1 AND is_active = true
	`, userID)
	f, err := scanFranchise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFranchiseNotFound
		}
		return nil, fmt.Errorf("failed to get active franchise: %w", err)
	}
	return f, nil
}

// ActivateFranchise flips the user's active franchise on tx. Clearing
// and setting in one transaction preserves the one-active invariant.
func (r *Repository) ActivateFranchise(ctx context.Context, tx *sql.Tx, userID, franchiseID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE franchises SET is_active = false, updated_at = $2
		WHERE user_id = $1 AND is_active = true
	`, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to deactivate franchises: %w", err)
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE franchises SET is_active = true, updated_at = $3
		WHERE id = $1 AND user_id = $2
	`, franchiseID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to activate franchise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to activate franchise: %w", err)
	}
	if n == 0 {
		return ErrFranchiseNotFound
	}
	return nil
}

func (r *Repository) DeleteFranchise(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM franchises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete franchise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete franchise: %w", err)
	}
	if n == 0 {
		return ErrFranchiseNotFound
	}
	return nil
}

// UpdateProgress writes phase, offseason sub-phase and day in one
// statement. Callers run it on the same tx as any season-status change
// so the calendar never half-advances.
func (r *Repository) UpdateProgress(ctx context.Context, tx *sql.Tx, franchiseID uuid.UUID, phase models.FranchisePhase, offseason *models.OffseasonPhase, day int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE franchises
		SET phase = $2, offseason_phase = $3, current_day = $4, updated_at = $5
		WHERE id = $1
	`, franchiseID, phase, offseasonValue(offseason), day, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update franchise progress: %w", err)
	}
	return nil
}

// RebindFranchise moves a franchise onto the next season during
// rollover.
func (r *Repository) RebindFranchise(ctx context.Context, tx *sql.Tx, franchiseID, seasonID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE franchises SET season_id = $2, updated_at = $3 WHERE id = $1
	`, franchiseID, seasonID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to rebind franchise: %w", err)
	}
	return nil
}

// NextSequenceNumber returns 1 + the highest existing season sequence.
func (r *Repository) NextSequenceNumber(ctx context.Context, tx *sql.Tx) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM seasons
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to get next season sequence: %w", err)
	}
	return n, nil
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

func scanSeason(row rowScanner) (*models.Season, error) {
	var s models.Season
	var champion uuid.NullUUID
	err := row.Scan(&s.ID, &s.SequenceNumber, &s.Status, &s.TradeDeadlineDay,
		&s.AllStarDay, &s.ScheduleGames, &champion, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ChampionTeamID = sqlutil.FromNullUUID(champion)
	return &s, nil
}

func scanFranchise(row rowScanner) (*models.Franchise, error) {
	var f models.Franchise
	var offseason sql.NullString
	err := row.Scan(&f.ID, &f.UserID, &f.TeamID, &f.SeasonID, &f.Phase,
		&offseason, &f.CurrentDay, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if offseason.Valid {
		p := models.OffseasonPhase(offseason.String)
		f.OffseasonPhase = &p
	}
	return &f, nil
}

func offseasonValue(p *models.OffseasonPhase) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}
