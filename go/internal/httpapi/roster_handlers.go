package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleSignFreeAgent(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID uuid.UUID `json:"player_id"`
		TeamID   uuid.UUID `json:"team_id"`
		Years    int       `json:"years"`
		Salary   int64     `json:"salary"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.seasons.CheckSigningAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	result, err := s.freeagency.SignFreeAgent(r.Context(), seasonID, req.PlayerID, req.TeamID, req.Years, req.Salary)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if result.AlreadySigned {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}

func (s *Server) handleReleasePlayer(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID uuid.UUID `json:"player_id"`
		TeamID   uuid.UUID `json:"team_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.freeagency.ReleasePlayer(r.Context(), seasonID, req.PlayerID, req.TeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if result.NotOnTeam {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}
