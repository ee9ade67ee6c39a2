package httpapi

import (
	"net/http"
)

func (s *Server) handleStartPlayoffs(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.seasons.CheckPlayoffsAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	series, err := s.playoffs.StartPlayoffs(r.Context(), seasonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, series)
}

func (s *Server) handleSimulateSeriesGame(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := pathID(w, r)
	if !ok {
		return
	}
	outcome, err := s.playoffs.SimulateSeriesGame(r.Context(), seriesID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleSimulateSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := pathID(w, r)
	if !ok {
		return
	}
	outcome, err := s.playoffs.SimulateSeries(r.Context(), seriesID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleSimulateRound(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.seasons.CheckPlayoffsAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	summary, err := s.playoffs.SimulateRound(r.Context(), seasonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSimulateAll(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.seasons.CheckPlayoffsAllowed(r.Context(), seasonID); err != nil {
		respondError(w, err)
		return
	}
	summary, err := s.playoffs.SimulateAll(r.Context(), seasonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
