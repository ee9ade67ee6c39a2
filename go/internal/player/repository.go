package player

import (
	"context"
	"database/sql"
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

const playerColumns = `id, full_name, position, age, team_id,
	overall, inside, outside, playmake, defense, rebound, stamina, potential,
	contract_years, salary, created_at`

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetTeamRoster returns a team's current players, best overall first.
func (r *Repository) GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE team_id = $1
		ORDER BY overall DESC
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for team %s: %w", teamID, err)
	}
	defer rows.Close()
	return collectPlayers(rows)
}

// ListFreeAgents returns unsigned players, best overall first.
func (r *Repository) ListFreeAgents(ctx context.Context, limit int) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE team_id IS NULL
		ORDER BY overall DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list free agents: %w", err)
	}
	defer rows.Close()
	return collectPlayers(rows)
}

// ClaimFreeAgent attempts the claim-protocol signing update on tx: the
// team_id write succeeds only while the player is still unsigned. Zero
// rows back means a concurrent signing won; that is an outcome, not an
// error.
func (r *Repository) ClaimFreeAgent(ctx context.Context, tx *sql.Tx, playerID, teamID uuid.UUID, years int, salary int64) (claim.Outcome[*models.Player], error) {
	row := tx.QueryRowContext(ctx, `
		UPDATE players
		SET team_id = $2, contract_years = $3, salary = $4
		WHERE id = $1 AND team_id IS NULL
		RETURNING `+playerColumns+`
	`, playerID, teamID, years, salary)

	p, err := scanPlayer(row)
	outcome, err := claim.FromRow(p, err)
	if err != nil {
		var zero claim.Outcome[*models.Player]
		return zero, fmt.Errorf("failed to claim free agent %s: %w", playerID, err)
	}
	return outcome, nil
}

// ReleasePlayer clears team_id for a player currently on teamID. Zero
// rows means the player was not on that team.
func (r *Repository) ReleasePlayer(ctx context.Context, tx *sql.Tx, playerID, teamID uuid.UUID) (claim.Outcome[*models.Player], error) {
	row := tx.QueryRowContext(ctx, `
		UPDATE players
		SET team_id = NULL, contract_years = 0, salary = 0
		WHERE id = $1 AND team_id = $2
		RETURNING `+playerColumns+`
	`, playerID, teamID)

	p, err := scanPlayer(row)
	outcome, err := claim.FromRow(p, err)
	if err != nil {
		var zero claim.Outcome[*models.Player]
		return zero, fmt.Errorf("failed to release player %s: %w", playerID, err)
	}
	return outcome, nil
}

// CreateFromProspect materializes a drafted prospect as a player on the
// drafting team, copying the prospect's attribute sheet. Runs on the
// draft transaction.
func (r *Repository) CreateFromProspect(ctx context.Context, tx *sql.Tx, prospect *models.DraftProspect, teamID uuid.UUID, rookieSalary int64) (*models.Player, error) {
	id := uuid.New()
	row := tx.QueryRowContext(ctx, `
		INSERT INTO players (id, full_name, position, age, team_id,
			overall, inside, outside, playmake, defense, rebound, stamina, potential,
			contract_years, salary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+playerColumns+`
	`, id, prospect.FullName, prospect.Position, prospect.Age, teamID,
		prospect.Ratings.Overall, prospect.Ratings.Inside, prospect.Ratings.Outside,
		prospect.Ratings.Playmake, prospect.Ratings.Defense, prospect.Ratings.Rebound,
		prospect.Ratings.Stamina, prospect.Ratings.Potential,
		2, rookieSalary, time.Now())

	p, err := scanPlayer(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create player from prospect %s: %w", prospect.ID, err)
	}
	return p, nil
}

// TransferPlayer moves a player between teams as part of an accepted
// trade. The fromTeam guard catches stale proposals whose player has
// already moved.
func (r *Repository) TransferPlayer(ctx context.Context, tx *sql.Tx, playerID, fromTeamID, toTeamID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE players SET team_id = $3
		WHERE id = $1 AND team_id = $2
	`, playerID, fromTeamID, toTeamID)
	if err != nil {
		return fmt.Errorf("failed to transfer player %s: %w", playerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to transfer player %s: %w", playerID, err)
	}
	if n == 0 {
		return fmt.Errorf("player %s is no longer on team %s: %w", playerID, fromTeamID, ErrPlayerMoved)
	}
	return nil
}

// RunTx exposes the scoped-transaction helper for app-layer use.
func (r *Repository) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return sqlutil.Run(ctx, r.db, fn)
}

// RunLocked runs fn in a transaction holding the advisory lock for key.
func (r *Repository) RunLocked(ctx context.Context, key sqlutil.LockKey, fn func(tx *sql.Tx) error) error {
	return sqlutil.RunLocked(ctx, r.db, key, fn)
}

func collectPlayers(rows *sql.Rows) ([]models.Player, error) {
	var out []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var teamID uuid.NullUUID
	err := row.Scan(&p.ID, &p.FullName, &p.Position, &p.Age, &teamID,
		&p.Ratings.Overall, &p.Ratings.Inside, &p.Ratings.Outside,
		&p.Ratings.Playmake, &p.Ratings.Defense, &p.Ratings.Rebound,
		&p.Ratings.Stamina, &p.Ratings.Potential,
		&p.ContractYears, &p.Salary, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.TeamID = sqlutil.FromNullUUID(teamID)
	return &p, nil
}
