package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hardwoodgm/hardwood/go/internal/draft"
	"github.com/hardwoodgm/hardwood/go/internal/freeagency"
	"github.com/hardwoodgm/hardwood/go/internal/playoffs"
	"github.com/hardwoodgm/hardwood/go/internal/season"
	"github.com/hardwoodgm/hardwood/go/internal/trades"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError maps domain sentinels onto HTTP statuses: precondition
// violations are 409, missing resources 404, bad input 400, everything
// else 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, season.ErrSeasonNotFound),
		errors.Is(err, season.ErrFranchiseNotFound),
		errors.Is(err, trades.ErrTradeNotFound),
		errors.Is(err, playoffs.ErrSeriesNotFound),
		errors.Is(err, draft.ErrProspectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, season.ErrWrongPhase),
		errors.Is(err, season.ErrTradeDeadlinePassed),
		errors.Is(err, season.ErrScheduleNotComplete),
		errors.Is(err, season.ErrScheduleComplete),
		errors.Is(err, season.ErrChampionNotCrowned),
		errors.Is(err, season.ErrStandingsIncomplete),
		errors.Is(err, playoffs.ErrStandingsIncomplete),
		errors.Is(err, playoffs.ErrRoundNotComplete),
		errors.Is(err, playoffs.ErrPlayoffsNotStarted),
		errors.Is(err, draft.ErrLotteryAlreadyRun),
		errors.Is(err, draft.ErrLotteryNotRun),
		errors.Is(err, draft.ErrDraftComplete),
		errors.Is(err, draft.ErrOutOfTurn),
		errors.Is(err, freeagency.ErrRosterFull):
		status = http.StatusConflict
	case errors.Is(err, trades.ErrSameTeam),
		errors.Is(err, trades.ErrEmptyTrade),
		errors.Is(err, trades.ErrAssetNotOwned):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}
