package main

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hardwoodgm/hardwood/go/internal/cpu"
	"github.com/hardwoodgm/hardwood/go/internal/draft"
	"github.com/hardwoodgm/hardwood/go/internal/freeagency"
	"github.com/hardwoodgm/hardwood/go/internal/games"
	"github.com/hardwoodgm/hardwood/go/internal/outbox"
	"github.com/hardwoodgm/hardwood/go/internal/player"
	"github.com/hardwoodgm/hardwood/go/internal/playoffs"
	"github.com/hardwoodgm/hardwood/go/internal/season"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
	"github.com/hardwoodgm/hardwood/go/internal/standings"
	"github.com/hardwoodgm/hardwood/go/internal/teams"
	"github.com/hardwoodgm/hardwood/go/internal/trades"
)

type Services struct {
	Seasons    *season.App
	Playoffs   *playoffs.App
	Draft      *draft.App
	FreeAgency *freeagency.App
	Trades     *trades.App
	Outbox     *outbox.Repository
}

func setupServices(database *sql.DB, config *Config) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer

	teamsRepo := teams.NewRepository(database)
	playerRepo := player.NewRepository(database)
	standingsRepo := standings.NewRepository(database)
	gamesRepo := games.NewRepository(database)
	seriesRepo := playoffs.NewRepository(database)
	draftRepo := draft.NewRepository(database)
	tradesRepo := trades.NewRepository(database)
	seasonRepo := season.NewRepository(database)
	outboxRepo := outbox.NewRepository(database)

	simulator := sim.NewRatingSimulator()
	oracle := sim.NewHeuristicOracle()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	seasonApp := season.NewApp(seasonRepo, teamsRepo, standingsRepo, gamesRepo,
		playerRepo, draftRepo, outboxRepo, simulator, clockwork.NewRealClock(), rng,
		config.seasonConfig())
	playoffsApp := playoffs.NewApp(seriesRepo, standingsRepo, playerRepo,
		gamesRepo, seasonRepo, outboxRepo, simulator)
	draftApp := draft.NewApp(draftRepo, playerRepo, standingsRepo, outboxRepo,
		oracle, config.lotteryOdds(), rng)
	freeAgencyApp := freeagency.NewApp(playerRepo, outboxRepo, oracle)
	tradesApp := trades.NewApp(tradesRepo, playerRepo, draftRepo, seasonApp,
		outboxRepo, oracle)

	// The director is built on the apps above, so it attaches after the
	// controller exists.
	seasonApp.SetCPUDirector(cpu.NewDirector(freeAgencyApp, tradesApp,
		teamsRepo, standingsRepo, playerRepo, oracle))

	return &Services{
		Seasons:    seasonApp,
		Playoffs:   playoffsApp,
		Draft:      draftApp,
		FreeAgency: freeAgencyApp,
		Trades:     tradesApp,
		Outbox:     outboxRepo,
	}
}
