package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/models"
)

func (s *Server) handleProposeTrade(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		FromTeamID uuid.UUID          `json:"from_team_id"`
		ToTeamID   uuid.UUID          `json:"to_team_id"`
		FromAssets models.TradeAssets `json:"from_assets"`
		ToAssets   models.TradeAssets `json:"to_assets"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	proposal, err := s.trades.ProposeTrade(r.Context(), seasonID, req.FromTeamID, req.ToTeamID, req.FromAssets, req.ToAssets)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, proposal)
}

func (s *Server) handleAcceptTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		TeamID uuid.UUID `json:"team_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.trades.AcceptTrade(r.Context(), tradeID, req.TeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if result.AlreadyResolved {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}

func (s *Server) handleRejectTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		TeamID uuid.UUID `json:"team_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.trades.RejectTrade(r.Context(), tradeID, req.TeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if result.AlreadyResolved {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, ok := pathID(w, r)
	if !ok {
		return
	}
	proposal, err := s.trades.GetTrade(r.Context(), tradeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposal)
}

func (s *Server) handleListPendingTrades(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r)
	if !ok {
		return
	}
	proposals, err := s.trades.ListPendingForTeam(r.Context(), teamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposals)
}
