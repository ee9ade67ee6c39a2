package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
)

// Repository persists outbox rows. Insert runs on the caller's
// transaction so the event commits or rolls back together with the state
// change it describes.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes one outbox event on tx.
func (r *Repository) Insert(ctx context.Context, tx *sql.Tx, seasonID uuid.UUID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO league_outbox (id, season_id, event_type, payload)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), seasonID, eventType, body)
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// FetchUnsent locks and returns up to limit unsent events on tx. The
// FOR UPDATE SKIP LOCKED keeps two relay workers from publishing the
// same batch twice.
func (r *Repository) FetchUnsent(ctx context.Context, tx *sql.Tx, limit int32) ([]Event, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, season_id, event_type, payload, created_at
		FROM league_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.SeasonID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// MarkSent stamps sent_at for the given events on tx.
func (r *Repository) MarkSent(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE league_outbox SET sent_at = $1 WHERE id = ANY($2)
	`, time.Now(), pq.Array(strIDs))
	if err != nil {
		return fmt.Errorf("failed to mark outbox events sent: %w", err)
	}
	return nil
}

// RunTx exposes the scoped-transaction helper for worker use.
func (r *Repository) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return sqlutil.Run(ctx, r.db, fn)
}
