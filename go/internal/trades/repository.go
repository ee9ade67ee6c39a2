package trades

import (
	"context"
	"database/sql"
	"encoding/json"
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

const proposalColumns = `id, season_id, from_team_id, to_team_id,
	from_assets, to_assets, status, resolved_by_id, created_at, resolved_at`

// CreateProposal inserts a new PENDING proposal. Asset lists go in as
// JSONB.
func (r *Repository) CreateProposal(ctx context.Context, p *models.TradeProposal) error {
	fromAssets, err := json.Marshal(p.FromAssets)
	if err != nil {
		return fmt.Errorf("failed to encode trade assets: %w", err)
	}
	toAssets, err := json.Marshal(p.ToAssets)
	if err != nil {
		return fmt.Errorf("failed to encode trade assets: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trade_proposals (id, season_id, from_team_id, to_team_id,
			from_assets, to_assets, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.SeasonID, p.FromTeamID, p.ToTeamID, fromAssets, toAssets, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trade proposal: %w", err)
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, id uuid.UUID) (*models.TradeProposal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM trade_proposals WHERE id = $1`, id)
	p, err := scanProposal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTradeNotFound
		}
		return nil, fmt.Errorf("failed to get trade proposal: %w", err)
	}
	return p, nil
}

// ListPendingForTeam returns proposals awaiting a decision where the
// team is the recipient.
func (r *Repository) ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.TradeProposal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+proposalColumns+` FROM trade_proposals
		WHERE to_team_id = $1 AND status = $2
		ORDER BY created_at
	`, teamID, models.TradeStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending trades for team %s: %w", teamID, err)
	}
	defer rows.Close()

	var out []models.TradeProposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade proposal: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ClaimResolve moves a proposal out of PENDING on tx. Only one resolver
// ever gets rows back; a concurrent accept and reject cannot both land.
func (r *Repository) ClaimResolve(ctx context.Context, tx *sql.Tx, tradeID uuid.UUID, status models.TradeStatus, resolvedBy uuid.UUID) (claim.Outcome[*models.TradeProposal], error) {
	row := tx.QueryRowContext(ctx, `
		UPDATE trade_proposals
		SET status = $2, resolved_by_id = $3, resolved_at = $4
		WHERE id = $1 AND status = $5
		RETURNING `+proposalColumns,
		tradeID, status, resolvedBy, time.Now(), models.TradeStatusPending)

	p, err := scanProposal(row)
	outcome, err := claim.FromRow(p, err)
	if err != nil {
		var zero claim.Outcome[*models.TradeProposal]
		return zero, fmt.Errorf("failed to resolve trade %s: %w", tradeID, err)
	}
	return outcome, nil
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

func scanProposal(row rowScanner) (*models.TradeProposal, error) {
	var p models.TradeProposal
	var fromAssets, toAssets []byte
	var resolvedBy uuid.NullUUID
	var resolvedAt sql.NullTime
	err := row.Scan(&p.ID, &p.SeasonID, &p.FromTeamID, &p.ToTeamID,
		&fromAssets, &toAssets, &p.Status, &resolvedBy, &p.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fromAssets, &p.FromAssets); err != nil {
		return nil, fmt.Errorf("failed to decode trade assets: %w", err)
	}
	if err := json.Unmarshal(toAssets, &p.ToAssets); err != nil {
		return nil, fmt.Errorf("failed to decode trade assets: %w", err)
	}
	p.ResolvedByID = sqlutil.FromNullUUID(resolvedBy)
	p.ResolvedAt = sqlutil.FromSqlTime(resolvedAt)
	return &p, nil
}
