package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleRunLottery(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.seasons.CheckDraftAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	summary, err := s.draft.RunLottery(r.Context(), seasonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleLotteryOdds(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	entries, err := s.draft.LotteryOdds(r.Context(), seasonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleMakeDraftPick(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		ProspectID uuid.UUID `json:"prospect_id"`
		TeamID     uuid.UUID `json:"team_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.seasons.CheckDraftAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	result, err := s.draft.MakeDraftPick(r.Context(), seasonID, req.ProspectID, req.TeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAIMakePick(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.seasons.CheckDraftAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	result, err := s.draft.AIMakePick(r.Context(), seasonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimToNextHumanPick(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		HumanTeamID uuid.UUID `json:"human_team_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.seasons.CheckDraftAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	summary, err := s.draft.SimToNextHumanPick(r.Context(), seasonID, req.HumanTeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAutoDraftRemaining(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.seasons.CheckDraftAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	summary, err := s.draft.AutoDraftRemaining(r.Context(), seasonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
