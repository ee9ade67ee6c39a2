// Package httpapi exposes the league engine as a JSON API. Every
// mutating endpoint first asks the phase controller whether the action
// is legal for the current calendar phase, then delegates to the domain
// app.
package httpapi

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/hardwoodgm/hardwood/go/internal/draft"
	"github.com/hardwoodgm/hardwood/go/internal/freeagency"
	"github.com/hardwoodgm/hardwood/go/internal/playoffs"
	"github.com/hardwoodgm/hardwood/go/internal/season"
	"github.com/hardwoodgm/hardwood/go/internal/trades"
)

// Server routes requests to the domain apps.
type Server struct {
	seasons    *season.App
	playoffs   *playoffs.App
	draft      *draft.App
	freeagency *freeagency.App
	trades     *trades.App
	ws         http.Handler
}

func NewServer(seasons *season.App, playoffsApp *playoffs.App, draftApp *draft.App, freeagencyApp *freeagency.App, tradesApp *trades.App, ws http.Handler) *Server {
	return &Server{
		seasons:    seasons,
		playoffs:   playoffsApp,
		draft:      draftApp,
		freeagency: freeagencyApp,
		trades:     tradesApp,
		ws:         ws,
	}
}

// Handler builds the full route table wrapped with CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /dynasty", s.handleStartDynasty)
	mux.HandleFunc("GET /franchises/{id}", s.handleGetFranchise)
	mux.HandleFunc("POST /franchises/{id}/advance-day", s.handleAdvanceDay)
	mux.HandleFunc("POST /franchises/{id}/advance-phase", s.handleAdvancePhase)
	mux.HandleFunc("POST /franchises/{id}/activate", s.handleSwitchFranchise)
	mux.HandleFunc("DELETE /franchises/{id}", s.handleDeleteFranchise)
	mux.HandleFunc("GET /seasons/{id}", s.handleGetSeason)

	mux.HandleFunc("POST /seasons/{id}/playoffs/start", s.handleStartPlayoffs)
	mux.HandleFunc("POST /series/{id}/simulate-game", s.handleSimulateSeriesGame)
	mux.HandleFunc("POST /series/{id}/simulate", s.handleSimulateSeries)
	mux.HandleFunc("POST /seasons/{id}/playoffs/simulate-round", s.handleSimulateRound)
	mux.HandleFunc("POST /seasons/{id}/playoffs/simulate-all", s.handleSimulateAll)

	mux.HandleFunc("POST /seasons/{id}/lottery", s.handleRunLottery)
	mux.HandleFunc("GET /seasons/{id}/lottery", s.handleLotteryOdds)
	mux.HandleFunc("POST /seasons/{id}/draft/pick", s.handleMakeDraftPick)
	mux.HandleFunc("POST /seasons/{id}/draft/ai-pick", s.handleAIMakePick)
	mux.HandleFunc("POST /seasons/{id}/draft/sim-to-pick", s.handleSimToNextHumanPick)
	mux.HandleFunc("POST /seasons/{id}/draft/auto-complete", s.handleAutoDraftRemaining)

	mux.HandleFunc("POST /seasons/{id}/free-agents/sign", s.handleSignFreeAgent)
	mux.HandleFunc("POST /seasons/{id}/players/release", s.handleReleasePlayer)

	mux.HandleFunc("POST /seasons/{id}/trades", s.handleProposeTrade)
	mux.HandleFunc("POST /trades/{id}/accept", s.handleAcceptTrade)
	mux.HandleFunc("POST /trades/{id}/reject", s.handleRejectTrade)
	mux.HandleFunc("GET /trades/{id}", s.handleGetTrade)
	mux.HandleFunc("GET /teams/{id}/trades", s.handleListPendingTrades)

	if s.ws != nil {
		mux.Handle("GET /ws", s.ws)
	}
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}
