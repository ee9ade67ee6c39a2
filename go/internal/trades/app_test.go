package trades_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hardwoodgm/hardwood/go/internal/claim"
	"github.com/hardwoodgm/hardwood/go/internal/events"
	"github.com/hardwoodgm/hardwood/go/internal/models"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
	"github.com/hardwoodgm/hardwood/go/internal/sqlutil"
	"github.com/hardwoodgm/hardwood/go/internal/trades"
)

// fakeTradeStore backs all three asset repositories from one in-memory
// state so RunLocked can emulate transaction semantics: it snapshots
// the state before the callback and restores it when the callback
// errors, the way a rolled-back transaction would.
type fakeTradeStore struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]*models.TradeProposal
	players   map[uuid.UUID]*models.Player
	picks     map[uuid.UUID]*models.DraftPick
}

func newFakeTradeStore() *fakeTradeStore {
	return &fakeTradeStore{
		proposals: make(map[uuid.UUID]*models.TradeProposal),
		players:   make(map[uuid.UUID]*models.Player),
		picks:     make(map[uuid.UUID]*models.DraftPick),
	}
}

func (s *fakeTradeStore) addPlayer(teamID uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := teamID
	p := &models.Player{
		ID:       uuid.New(),
		FullName: "Trade Piece",
		Position: "PF",
		Age:      26,
		TeamID:   &id,
		Ratings:  models.PlayerRatings{Overall: 78},
	}
	s.players[p.ID] = p
	return p.ID
}

func (s *fakeTradeStore) addPick(teamID uuid.UUID, number int) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.DraftPick{
		ID:             uuid.New(),
		SeasonID:       uuid.New(),
		Round:          1,
		PickNumber:     number,
		OriginalTeamID: teamID,
		CurrentTeamID:  teamID,
	}
	s.picks[p.ID] = p
	return p.ID
}

func (s *fakeTradeStore) snapshot() (map[uuid.UUID]models.TradeProposal, map[uuid.UUID]models.Player, map[uuid.UUID]models.DraftPick) {
	proposals := make(map[uuid.UUID]models.TradeProposal, len(s.proposals))
	for k, v := range s.proposals {
		proposals[k] = *v
	}
	players := make(map[uuid.UUID]models.Player, len(s.players))
	for k, v := range s.players {
		players[k] = *v
	}
	picks := make(map[uuid.UUID]models.DraftPick, len(s.picks))
	for k, v := range s.picks {
		picks[k] = *v
	}
	return proposals, players, picks
}

func (s *fakeTradeStore) restore(proposals map[uuid.UUID]models.TradeProposal, players map[uuid.UUID]models.Player, picks map[uuid.UUID]models.DraftPick) {
	s.proposals = make(map[uuid.UUID]*models.TradeProposal, len(proposals))
	for k, v := range proposals {
		cp := v
		s.proposals[k] = &cp
	}
	s.players = make(map[uuid.UUID]*models.Player, len(players))
	for k, v := range players {
		cp := v
		s.players[k] = &cp
	}
	s.picks = make(map[uuid.UUID]*models.DraftPick, len(picks))
	for k, v := range picks {
		cp := v
		s.picks[k] = &cp
	}
}

// TradeRepository

func (s *fakeTradeStore) CreateProposal(_ context.Context, p *models.TradeProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.proposals[p.ID] = &cp
	return nil
}

func (s *fakeTradeStore) GetProposal(_ context.Context, id uuid.UUID) (*models.TradeProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, trades.ErrTradeNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeTradeStore) ListPendingForTeam(_ context.Context, teamID uuid.UUID) ([]models.TradeProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TradeProposal
	for _, p := range s.proposals {
		if p.ToTeamID == teamID && p.Status == models.TradeStatusPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeTradeStore) ClaimResolve(_ context.Context, _ *sql.Tx, tradeID uuid.UUID, status models.TradeStatus, resolvedBy uuid.UUID) (claim.Outcome[*models.TradeProposal], error) {
	p, ok := s.proposals[tradeID]
	if !ok {
		return claim.Outcome[*models.TradeProposal]{}, trades.ErrTradeNotFound
	}
	if p.Status != models.TradeStatusPending {
		return claim.AlreadyTaken[*models.TradeProposal](), nil
	}
	now := time.Now()
	p.Status = status
	p.ResolvedByID = &resolvedBy
	p.ResolvedAt = &now
	cp := *p
	return claim.Claimed(&cp), nil
}

func (s *fakeTradeStore) RunLocked(_ context.Context, _ sqlutil.LockKey, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposals, players, picks := s.snapshot()
	if err := fn(nil); err != nil {
		s.restore(proposals, players, picks)
		return err
	}
	return nil
}

// PlayerRepository

func (s *fakeTradeStore) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, errors.New("player not found")
	}
	cp := *p
	return &cp, nil
}

func (s *fakeTradeStore) GetTeamRoster(_ context.Context, teamID uuid.UUID) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Player
	for _, p := range s.players {
		if p.TeamID != nil && *p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeTradeStore) TransferPlayer(_ context.Context, _ *sql.Tx, playerID, fromTeamID, toTeamID uuid.UUID) error {
	p, ok := s.players[playerID]
	if !ok {
		return errors.New("player not found")
	}
	if p.TeamID == nil || *p.TeamID != fromTeamID {
		return trades.ErrAssetNotOwned
	}
	id := toTeamID
	p.TeamID = &id
	return nil
}

// PickRepository

func (s *fakeTradeStore) GetPick(_ context.Context, id uuid.UUID) (*models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.picks[id]
	if !ok {
		return nil, errors.New("pick not found")
	}
	cp := *p
	return &cp, nil
}

func (s *fakeTradeStore) TransferPick(_ context.Context, _ *sql.Tx, pickID, fromTeamID, toTeamID uuid.UUID) error {
	p, ok := s.picks[pickID]
	if !ok {
		return errors.New("pick not found")
	}
	if p.CurrentTeamID != fromTeamID || p.PlayerID != nil {
		return trades.ErrAssetNotOwned
	}
	p.CurrentTeamID = toTeamID
	return nil
}

// openGate allows trading; closedGate simulates a shut window.
type fakeGate struct {
	err error
}

func (g *fakeGate) CheckTradeWindow(_ context.Context, _ uuid.UUID) error {
	return g.err
}

type fakeTradeOutbox struct {
	mu     sync.Mutex
	events []string
}

func (o *fakeTradeOutbox) Insert(_ context.Context, _ *sql.Tx, _ uuid.UUID, eventType string, _ any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, eventType)
	return nil
}

func (o *fakeTradeOutbox) count(eventType string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, e := range o.events {
		if e == eventType {
			n++
		}
	}
	return n
}

// verdictOracle resolves every incoming trade the same way.
type verdictOracle struct {
	accept bool
}

func (o verdictOracle) DetermineTeamStrategy(models.Standing, []models.Player) sim.TeamStrategy {
	return sim.StrategyRetool
}

func (o verdictOracle) EvaluateIncomingTrade(models.TradeProposal, []models.Player) sim.TradeEvaluation {
	return sim.TradeEvaluation{Accept: o.accept}
}

func (o verdictOracle) EvaluateFreeAgentTarget(models.Player, []models.Player) sim.FreeAgentEvaluation {
	return sim.FreeAgentEvaluation{}
}

func (o verdictOracle) SelectDraftPick(_ []models.Player, prospects []models.DraftProspect, _ int) uuid.UUID {
	return prospects[0].ID
}

type tradeFixture struct {
	app      *trades.App
	store    *fakeTradeStore
	gate     *fakeGate
	outbox   *fakeTradeOutbox
	seasonID uuid.UUID
	teamA    uuid.UUID
	teamB    uuid.UUID
}

func newTradeFixture(t *testing.T, accept bool) *tradeFixture {
	t.Helper()
	f := &tradeFixture{
		store:    newFakeTradeStore(),
		gate:     &fakeGate{},
		outbox:   &fakeTradeOutbox{},
		seasonID: uuid.New(),
		teamA:    uuid.New(),
		teamB:    uuid.New(),
	}
	f.app = trades.NewApp(f.store, f.store, f.store, f.gate, f.outbox, verdictOracle{accept: accept})
	return f
}

func (f *tradeFixture) propose(t *testing.T, fromAssets, toAssets models.TradeAssets) *models.TradeProposal {
	t.Helper()
	proposal, err := f.app.ProposeTrade(context.Background(), f.seasonID, f.teamA, f.teamB, fromAssets, toAssets)
	if err != nil {
		t.Fatalf("ProposeTrade failed: %v", err)
	}
	return proposal
}

// TestProposeTrade stores a validated proposal as PENDING.
func TestProposeTrade(t *testing.T) {
	f := newTradeFixture(t, false)
	playerA := f.store.addPlayer(f.teamA)
	pickB := f.store.addPick(f.teamB, 12)

	proposal := f.propose(t,
		models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}},
		models.TradeAssets{PickIDs: []uuid.UUID{pickB}})

	if proposal.Status != models.TradeStatusPending {
		t.Errorf("proposal stored as %s, want PENDING", proposal.Status)
	}
	stored, err := f.app.GetTrade(context.Background(), proposal.ID)
	if err != nil {
		t.Fatalf("GetTrade failed: %v", err)
	}
	if stored.FromTeamID != f.teamA || stored.ToTeamID != f.teamB {
		t.Error("stored proposal has the wrong teams")
	}
}

func TestProposeTrade_Validation(t *testing.T) {
	f := newTradeFixture(t, false)
	ctx := context.Background()
	playerA := f.store.addPlayer(f.teamA)
	assets := models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}}

	if _, err := f.app.ProposeTrade(ctx, f.seasonID, f.teamA, f.teamA, assets, models.TradeAssets{}); !errors.Is(err, trades.ErrSameTeam) {
		t.Errorf("same-team proposal: got %v, want ErrSameTeam", err)
	}
	if _, err := f.app.ProposeTrade(ctx, f.seasonID, f.teamA, f.teamB, models.TradeAssets{}, models.TradeAssets{}); !errors.Is(err, trades.ErrEmptyTrade) {
		t.Errorf("empty proposal: got %v, want ErrEmptyTrade", err)
	}

	// Offering another team's player.
	stranger := f.store.addPlayer(uuid.New())
	if _, err := f.app.ProposeTrade(ctx, f.seasonID, f.teamA, f.teamB,
		models.TradeAssets{PlayerIDs: []uuid.UUID{stranger}}, models.TradeAssets{}); !errors.Is(err, trades.ErrAssetNotOwned) {
		t.Errorf("unowned asset: got %v, want ErrAssetNotOwned", err)
	}

	// A used pick cannot be traded.
	pickB := f.store.addPick(f.teamB, 3)
	usedBy := uuid.New()
	f.store.picks[pickB].PlayerID = &usedBy
	if _, err := f.app.ProposeTrade(ctx, f.seasonID, f.teamA, f.teamB,
		assets, models.TradeAssets{PickIDs: []uuid.UUID{pickB}}); !errors.Is(err, trades.ErrAssetNotOwned) {
		t.Errorf("used pick: got %v, want ErrAssetNotOwned", err)
	}
}

// TestProposeTrade_WindowClosed rejects proposals outside the trade
// window.
func TestProposeTrade_WindowClosed(t *testing.T) {
	f := newTradeFixture(t, false)
	playerA := f.store.addPlayer(f.teamA)
	windowErr := errors.New("trade window closed")
	f.gate.err = windowErr

	_, err := f.app.ProposeTrade(context.Background(), f.seasonID, f.teamA, f.teamB,
		models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}}, models.TradeAssets{})
	if !errors.Is(err, windowErr) {
		t.Fatalf("got %v, want the gate error", err)
	}
}

// TestAcceptTrade swaps every asset in both directions.
func TestAcceptTrade(t *testing.T) {
	f := newTradeFixture(t, false)
	ctx := context.Background()
	playerA := f.store.addPlayer(f.teamA)
	playerB := f.store.addPlayer(f.teamB)
	pickA := f.store.addPick(f.teamA, 20)

	proposal := f.propose(t,
		models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}, PickIDs: []uuid.UUID{pickA}},
		models.TradeAssets{PlayerIDs: []uuid.UUID{playerB}})

	result, err := f.app.AcceptTrade(ctx, proposal.ID, f.teamB)
	if err != nil {
		t.Fatalf("AcceptTrade failed: %v", err)
	}
	if result.AlreadyResolved {
		t.Fatal("uncontested accept reported AlreadyResolved")
	}
	if result.Proposal.Status != models.TradeStatusAccepted {
		t.Errorf("proposal resolved to %s, want ACCEPTED", result.Proposal.Status)
	}

	gotA, _ := f.store.GetPlayer(ctx, playerA)
	if gotA.TeamID == nil || *gotA.TeamID != f.teamB {
		t.Error("outgoing player did not move")
	}
	gotB, _ := f.store.GetPlayer(ctx, playerB)
	if gotB.TeamID == nil || *gotB.TeamID != f.teamA {
		t.Error("incoming player did not move")
	}
	gotPick, _ := f.store.GetPick(ctx, pickA)
	if gotPick.CurrentTeamID != f.teamB {
		t.Error("pick did not move")
	}
	if gotPick.OriginalTeamID != f.teamA {
		t.Error("pick lost its original owner")
	}
	if got := f.outbox.count(events.TypeTradeExecuted); got != 1 {
		t.Errorf("TradeExecuted emitted %d times, want 1", got)
	}
}

// TestAcceptTrade_AlreadyResolved verifies a second resolution is
// benign and moves nothing.
func TestAcceptTrade_AlreadyResolved(t *testing.T) {
	f := newTradeFixture(t, false)
	ctx := context.Background()
	playerA := f.store.addPlayer(f.teamA)
	proposal := f.propose(t, models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}}, models.TradeAssets{})

	if _, err := f.app.RejectTrade(ctx, proposal.ID, f.teamB); err != nil {
		t.Fatalf("RejectTrade failed: %v", err)
	}
	result, err := f.app.AcceptTrade(ctx, proposal.ID, f.teamB)
	if err != nil {
		t.Fatalf("AcceptTrade failed: %v", err)
	}
	if !result.AlreadyResolved {
		t.Fatal("accept after reject did not report AlreadyResolved")
	}
	got, _ := f.store.GetPlayer(ctx, playerA)
	if got.TeamID == nil || *got.TeamID != f.teamA {
		t.Error("rejected trade still moved the player")
	}
	if got := f.outbox.count(events.TypeTradeExecuted); got != 0 {
		t.Errorf("TradeExecuted emitted %d times, want 0", got)
	}
}

// TestAcceptTrade_StaleAsset verifies a stale asset rolls the whole
// accept back: the proposal stays PENDING and nothing moves.
func TestAcceptTrade_StaleAsset(t *testing.T) {
	f := newTradeFixture(t, false)
	ctx := context.Background()
	playerA := f.store.addPlayer(f.teamA)
	playerB := f.store.addPlayer(f.teamB)
	proposal := f.propose(t,
		models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}},
		models.TradeAssets{PlayerIDs: []uuid.UUID{playerB}})

	// The offered player leaves teamA before the accept lands.
	elsewhere := uuid.New()
	id := elsewhere
	f.store.players[playerA].TeamID = &id

	_, err := f.app.AcceptTrade(ctx, proposal.ID, f.teamB)
	if !errors.Is(err, trades.ErrAssetNotOwned) {
		t.Fatalf("got %v, want ErrAssetNotOwned", err)
	}

	stored, err := f.app.GetTrade(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("GetTrade failed: %v", err)
	}
	if stored.Status != models.TradeStatusPending {
		t.Errorf("proposal resolved to %s after a failed accept, want PENDING", stored.Status)
	}
	gotB, _ := f.store.GetPlayer(ctx, playerB)
	if gotB.TeamID == nil || *gotB.TeamID != f.teamB {
		t.Error("failed accept still moved the counterparty's player")
	}
}

// TestResolve_Concurrent races an accept against a reject; exactly one
// resolution wins.
func TestResolve_Concurrent(t *testing.T) {
	f := newTradeFixture(t, false)
	ctx := context.Background()
	playerA := f.store.addPlayer(f.teamA)
	proposal := f.propose(t, models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}}, models.TradeAssets{})

	var wg sync.WaitGroup
	var mu sync.Mutex
	resolutions := 0
	record := func(r *trades.ResolveResult, err error) {
		if err != nil {
			t.Errorf("resolve failed: %v", err)
			return
		}
		if !r.AlreadyResolved {
			mu.Lock()
			resolutions++
			mu.Unlock()
		}
	}
	wg.Add(2)
	go func() {
		defer wg.Done()
		record(f.app.AcceptTrade(ctx, proposal.ID, f.teamB))
	}()
	go func() {
		defer wg.Done()
		record(f.app.RejectTrade(ctx, proposal.ID, f.teamB))
	}()
	wg.Wait()

	if resolutions != 1 {
		t.Errorf("%d resolutions won, want exactly 1", resolutions)
	}
	stored, err := f.app.GetTrade(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("GetTrade failed: %v", err)
	}
	if stored.Status == models.TradeStatusPending {
		t.Error("proposal still PENDING after a resolution won")
	}
}

// TestCPURespondPending resolves each pending proposal per the oracle's
// verdict.
func TestCPURespondPending(t *testing.T) {
	f := newTradeFixture(t, true)
	ctx := context.Background()
	playerA := f.store.addPlayer(f.teamA)
	playerA2 := f.store.addPlayer(f.teamA)
	f.propose(t, models.TradeAssets{PlayerIDs: []uuid.UUID{playerA}}, models.TradeAssets{})
	f.propose(t, models.TradeAssets{PlayerIDs: []uuid.UUID{playerA2}}, models.TradeAssets{})

	resolved, err := f.app.CPURespondPending(ctx, f.teamB, f.teamB)
	if err != nil {
		t.Fatalf("CPURespondPending failed: %v", err)
	}
	if resolved != 2 {
		t.Errorf("resolved %d proposals, want 2", resolved)
	}
	pending, err := f.app.ListPendingForTeam(ctx, f.teamB)
	if err != nil {
		t.Fatalf("ListPendingForTeam failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("%d proposals left pending", len(pending))
	}
	if got := f.outbox.count(events.TypeTradeExecuted); got != 2 {
		t.Errorf("TradeExecuted emitted %d times, want 2", got)
	}
}
