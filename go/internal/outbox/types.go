package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event represents an outbox row for the application layer. Rows are
// written in the same transaction as the state change they describe and
// relayed to NATS by the worker.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	SeasonID  uuid.UUID       `json:"season_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}
