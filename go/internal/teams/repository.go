package teams

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

const teamColumns = "id, name, code, city, conference, created_at"

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+teamColumns+` FROM teams WHERE id = $1
	`, id)
	team, err := scanTeam(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+teamColumns+` FROM teams ORDER BY conference, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var out []models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		out = append(out, *team)
	}
	return out, rows.Err()
}

func (r *Repository) ListTeamsByConference(ctx context.Context, conf models.Conference) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+teamColumns+` FROM teams WHERE conference = $1 ORDER BY name
	`, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s teams: %w", conf, err)
	}
	defer rows.Close()

	var out []models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		out = append(out, *team)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.Name, &t.Code, &t.City, &t.Conference, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
