package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/claim"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const entryColumns = "id, season_id, team_id, pre_lottery_position, odds, post_lottery_position, lottery_win, created_at"
const pickColumns = "id, season_id, round, pick_number, original_team_id, current_team_id, player_id, picked_at, created_at"
const prospectColumns = `id, season_id, full_name, position, age,
	overall, inside, outside, playmake, defense, rebound, stamina, potential,
	is_drafted, drafted_by_team_id, created_at`

// CreateLotteryEntries writes the 14 lottery rows on tx. Written once
// per season per team.
func (r *Repository) CreateLotteryEntries(ctx context.Context, tx *sql.Tx, entries []models.LotteryEntry) error {
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO draft_lottery (id, season_id, team_id, pre_lottery_position, odds, lottery_win)
			VALUES ($1, $2, $3, $4, $5, false)
		`, e.ID, e.SeasonID, e.TeamID, e.PreLotteryPosition, e.Odds)
		if err != nil {
			return fmt.Errorf("failed to create lottery entry for team %s: %w", e.TeamID, err)
		}
	}
	return nil
}

// ListLotteryEntries returns a season's entries in pre-lottery order.
func (r *Repository) ListLotteryEntries(ctx context.Context, seasonID uuid.UUID) ([]models.LotteryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM draft_lottery
		WHERE season_id = $1 ORDER BY pre_lottery_position
	`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lottery entries: %w", err)
	}
	defer rows.Close()

	var out []models.LotteryEntry
	for rows.Next() {
		var e models.LotteryEntry
		var post sql.NullInt32
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.TeamID, &e.PreLotteryPosition, &e.Odds, &post, &e.LotteryWin, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lottery entry: %w", err)
		}
		e.PostLotteryPosition = sqlutil.FromSqlInt32(post)
		out = append(out, e)
	}
	return out, rows.Err()
}

// LotteryAlreadyRun reports on tx whether any post-lottery positions
// exist: the idempotency check for run-lottery.
func (r *Repository) LotteryAlreadyRun(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM draft_lottery
		WHERE season_id = $1 AND post_lottery_position IS NOT NULL
	`, seasonID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check lottery state: %w", err)
	}
	return n > 0, nil
}

// ApplyLotteryResults stamps post-lottery positions on tx.
func (r *Repository) ApplyLotteryResults(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, results []LotteryResult) error {
	for _, res := range results {
		_, err := tx.ExecContext(ctx, `
			UPDATE draft_lottery
			SET post_lottery_position = $3, lottery_win = $4
			WHERE season_id = $1 AND team_id = $2
		`, seasonID, res.TeamID, res.PostLotteryPosition, res.LotteryWin)
		if err != nil {
			return fmt.Errorf("failed to apply lottery result for team %s: %w", res.TeamID, err)
		}
	}
	return nil
}

// CreatePicks materializes the 60 pick rows on tx.
func (r *Repository) CreatePicks(ctx context.Context, tx *sql.Tx, picks []models.DraftPick) error {
	for _, p := range picks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO draft_picks (id, season_id, round, pick_number, original_team_id, current_team_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, p.SeasonID, p.Round, p.PickNumber, p.OriginalTeamID, p.CurrentTeamID)
		if err != nil {
			return fmt.Errorf("failed to create pick %d: %w", p.PickNumber, err)
		}
	}
	return nil
}

// GetPick returns one pick.
func (r *Repository) GetPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pickColumns+` FROM draft_picks WHERE id = $1`, id)
	p, err := scanPick(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}
	return p, nil
}

// ListPicks returns a season's picks in board order.
func (r *Repository) ListPicks(ctx context.Context, seasonID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pickColumns+` FROM draft_picks
		WHERE season_id = $1 ORDER BY pick_number
	`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var out []models.DraftPick
	for rows.Next() {
		p, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// NextUnusedPickForUpdate locks and returns the sequencer's current
// pick: the lowest-numbered pick with no player. The cursor is derived
// from row state on every call, never stored. ErrDraftComplete when the
// board is exhausted.
func (r *Repository) NextUnusedPickForUpdate(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID) (*models.DraftPick, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+pickColumns+` FROM draft_picks
		WHERE season_id = $1 AND player_id IS NULL
		ORDER BY pick_number
		LIMIT 1
		FOR UPDATE
	`, seasonID)
	p, err := scanPick(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftComplete
		}
		return nil, fmt.Errorf("failed to get next pick: %w", err)
	}
	return p, nil
}

// NextUnusedPick is the read-only flavor used outside the pick
// transaction.
func (r *Repository) NextUnusedPick(ctx context.Context, seasonID uuid.UUID) (*models.DraftPick, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pickColumns+` FROM draft_picks
		WHERE season_id = $1 AND player_id IS NULL
		ORDER BY pick_number
		LIMIT 1
	`, seasonID)
	p, err := scanPick(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftComplete
		}
		return nil, fmt.Errorf("failed to get next pick: %w", err)
	}
	return p, nil
}

// StampPick records the drafted player on the pick slot. Conditional on
// the slot being unused; zero rows means a concurrent pick got the slot
// and the enclosing transaction must roll back.
func (r *Repository) StampPick(ctx context.Context, tx *sql.Tx, pickID, playerID uuid.UUID) (claim.Outcome[uuid.UUID], error) {
	row := tx.QueryRowContext(ctx, `
		UPDATE draft_picks
		SET player_id = $2, picked_at = $3
		WHERE id = $1 AND player_id IS NULL
		RETURNING id
	`, pickID, playerID, time.Now())

	var id uuid.UUID
	err := row.Scan(&id)
	outcome, err := claim.FromRow(id, err)
	if err != nil {
		var zero claim.Outcome[uuid.UUID]
		return zero, fmt.Errorf("failed to stamp pick %s: %w", pickID, err)
	}
	return outcome, nil
}

// TransferPick moves pick ownership as part of a trade. The fromTeam
// guard rejects stale proposals; used picks never move.
func (r *Repository) TransferPick(ctx context.Context, tx *sql.Tx, pickID, fromTeamID, toTeamID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE draft_picks SET current_team_id = $3
		WHERE id = $1 AND current_team_id = $2 AND player_id IS NULL
	`, pickID, fromTeamID, toTeamID)
	if err != nil {
		return fmt.Errorf("failed to transfer pick %s: %w", pickID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to transfer pick %s: %w", pickID, err)
	}
	if n == 0 {
		return fmt.Errorf("pick %s not transferable from team %s", pickID, fromTeamID)
	}
	return nil
}

// CreateProspects writes a season's draft class on tx.
func (r *Repository) CreateProspects(ctx context.Context, tx *sql.Tx, prospects []models.DraftProspect) error {
	for _, p := range prospects {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO draft_prospects (id, season_id, full_name, position, age,
				overall, inside, outside, playmake, defense, rebound, stamina, potential,
				is_drafted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, false)
		`, p.ID, p.SeasonID, p.FullName, p.Position, p.Age,
			p.Ratings.Overall, p.Ratings.Inside, p.Ratings.Outside,
			p.Ratings.Playmake, p.Ratings.Defense, p.Ratings.Rebound,
			p.Ratings.Stamina, p.Ratings.Potential)
		if err != nil {
			return fmt.Errorf("failed to create prospect %s: %w", p.FullName, err)
		}
	}
	return nil
}

// ProspectCount reports on tx how many prospects exist for the season,
// the idempotency check for class generation.
func (r *Repository) ProspectCount(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM draft_prospects WHERE season_id = $1
	`, seasonID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count prospects: %w", err)
	}
	return n, nil
}

// GetProspect returns one prospect.
func (r *Repository) GetProspect(ctx context.Context, id uuid.UUID) (*models.DraftProspect, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+prospectColumns+` FROM draft_prospects WHERE id = $1`, id)
	p, err := scanProspect(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProspectNotFound
		}
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return p, nil
}

// ListAvailableProspects returns undrafted prospects, best overall first.
func (r *Repository) ListAvailableProspects(ctx context.Context, seasonID uuid.UUID) ([]models.DraftProspect, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+prospectColumns+` FROM draft_prospects
		WHERE season_id = $1 AND is_drafted = false
		ORDER BY overall DESC, id
	`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer rows.Close()

	var out []models.DraftProspect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ClaimProspect flips is_drafted through the claim protocol on tx. The
// flip succeeds only while the prospect is undrafted and never reverts.
func (r *Repository) ClaimProspect(ctx context.Context, tx *sql.Tx, prospectID, teamID uuid.UUID) (claim.Outcome[*models.DraftProspect], error) {
	row := tx.QueryRowContext(ctx, `
		UPDATE draft_prospects
		SET is_drafted = true, drafted_by_team_id = $2
		WHERE id = $1 AND is_drafted = false
		RETURNING `+prospectColumns+`
	`, prospectID, teamID)

	p, err := scanProspect(row)
	outcome, err := claim.FromRow(p, err)
	if err != nil {
		var zero claim.Outcome[*models.DraftProspect]
		return zero, fmt.Errorf("failed to claim prospect %s: %w", prospectID, err)
	}
	return outcome, nil
}

// AdvisoryLock takes an additional advisory lock inside an open
// transaction, used to fence a prospect while the pick-sequence lock is
// already held.
func (r *Repository) AdvisoryLock(ctx context.Context, tx *sql.Tx, key sqlutil.LockKey) error {
	return sqlutil.AdvisoryLock(ctx, tx, key)
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

func scanPick(row rowScanner) (*models.DraftPick, error) {
	var p models.DraftPick
	var playerID uuid.NullUUID
	var pickedAt sql.NullTime
	err := row.Scan(&p.ID, &p.SeasonID, &p.Round, &p.PickNumber, &p.OriginalTeamID,
		&p.CurrentTeamID, &playerID, &pickedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.PlayerID = sqlutil.FromNullUUID(playerID)
	p.PickedAt = sqlutil.FromSqlTime(pickedAt)
	return &p, nil
}

func scanProspect(row rowScanner) (*models.DraftProspect, error) {
	var p models.DraftProspect
	var draftedBy uuid.NullUUID
	err := row.Scan(&p.ID, &p.SeasonID, &p.FullName, &p.Position, &p.Age,
		&p.Ratings.Overall, &p.Ratings.Inside, &p.Ratings.Outside,
		&p.Ratings.Playmake, &p.Ratings.Defense, &p.Ratings.Rebound,
		&p.Ratings.Stamina, &p.Ratings.Potential,
		&p.IsDrafted, &draftedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.DraftedByTeamID = sqlutil.FromNullUUID(draftedBy)
	return &p, nil
}
