package gateway

import (
	"net/http"

	"github.com/google/uuid"
)

// Handler upgrades /ws requests. Clients pass season_id and user_id as
// query parameters.
type Handler struct {
	manager *ConnectionManager
}

func NewHandler(manager *ConnectionManager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	seasonID, err := uuid.Parse(r.URL.Query().Get("season_id"))
	if err != nil {
		http.Error(w, "invalid season_id", http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	if err := h.manager.UpgradeConnection(w, r, userID, seasonID); err != nil {
		// Upgrade already wrote the error response.
		return
	}
}
