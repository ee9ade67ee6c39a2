package events

import (
	"time"
)

// Event payload types shared between the domain packages, the outbox
// relay and the gateway.

// Event type names as stored in the outbox and used as NATS subjects.
const (
	TypeSeriesCompleted  = "series_completed"
	TypeChampionCrowned  = "champion_crowned"
	TypeLotteryCompleted = "lottery_completed"
	TypePickMade         = "pick_made"
	TypePlayerSigned     = "player_signed"
	TypePlayerReleased   = "player_released"
	TypeTradeExecuted    = "trade_executed"
	TypePhaseAdvanced    = "phase_advanced"
)

// SeriesCompletedPayload is the payload for a SeriesCompleted event
type SeriesCompletedPayload struct {
	SeriesID   string    `json:"series_id"`
	Round      int       `json:"round"`
	WinnerID   string    `json:"winner_id"`
	LoserID    string    `json:"loser_id"`
	FinalScore string    `json:"final_score"` // e.g. "4-2"
	EndedAt    time.Time `json:"ended_at"`
}

// ChampionCrownedPayload is the payload for a ChampionCrowned event
type ChampionCrownedPayload struct {
	SeasonID  string    `json:"season_id"`
	TeamID    string    `json:"team_id"`
	CrownedAt time.Time `json:"crowned_at"`
}

// LotteryCompletedPayload is the payload for a LotteryCompleted event
type LotteryCompletedPayload struct {
	SeasonID    string    `json:"season_id"`
	FirstPickID string    `json:"first_pick_team_id"`
	RanAt       time.Time `json:"ran_at"`
	JumpedTeams []string  `json:"jumped_team_ids"` // teams that moved up
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID       string    `json:"pick_id"`
	Round        int       `json:"round"`
	PickNumber   int       `json:"pick_number"`
	TeamID       string    `json:"team_id"`
	ProspectID   string    `json:"prospect_id"`
	ProspectName string    `json:"prospect_name"`
	MadeAt       time.Time `json:"made_at"`
}

// PlayerSignedPayload is the payload for a PlayerSigned event
type PlayerSignedPayload struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TeamID     string    `json:"team_id"`
	Years      int       `json:"years"`
	Salary     int64     `json:"salary"`
	SignedAt   time.Time `json:"signed_at"`
}

// PlayerReleasedPayload is the payload for a PlayerReleased event
type PlayerReleasedPayload struct {
	PlayerID   string    `json:"player_id"`
	TeamID     string    `json:"team_id"`
	ReleasedAt time.Time `json:"released_at"`
}

// TradeExecutedPayload is the payload for a TradeExecuted event
type TradeExecutedPayload struct {
	TradeID    string    `json:"trade_id"`
	FromTeamID string    `json:"from_team_id"`
	ToTeamID   string    `json:"to_team_id"`
	ExecutedAt time.Time `json:"executed_at"`
}

// PhaseAdvancedPayload is the payload for a PhaseAdvanced event
type PhaseAdvancedPayload struct {
	FranchiseID    string    `json:"franchise_id"`
	SeasonID       string    `json:"season_id"`
	Phase          string    `json:"phase"`
	OffseasonPhase string    `json:"offseason_phase,omitempty"`
	Day            int       `json:"day"`
	AdvancedAt     time.Time `json:"advanced_at"`
}
