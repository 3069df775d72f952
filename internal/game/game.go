// Package game implements the blind-tasting game core: the entities, the
// phase state machine, setup validation, ranking-based scoring, the
// leaderboard, and the gambit bonus round. Persistence is behind the
// Repository interface; HTTP lives elsewhere.
package game

import "time"

// Status is the phase of a game. Transitions are owned by Service:
// setup → lobby → in_round ⇄ reveal → gambit → final, with final
// reachable early from any active phase via FinishGame.
type Status string

const (
	StatusSetup   Status = "setup"
	StatusLobby   Status = "lobby"
	StatusInRound Status = "in_round"
	StatusReveal  Status = "reveal"
	StatusGambit  Status = "gambit"
	StatusFinal   Status = "final"
)

type PlayerStatus string

const (
	PlayerActive PlayerStatus = "active"
	PlayerKicked PlayerStatus = "kicked"
)

// Config holds the six setup parameters. They are set together or not at
// all: a Game carries either a nil *Config or a fully populated one.
type Config struct {
	MaxPlayers                int     `json:"maxPlayers"`
	TotalBottles              int     `json:"totalBottles"`
	TotalRounds               int     `json:"totalRounds"`
	BottlesPerRound           int     `json:"bottlesPerRound"`
	BottleEquivalentPerPerson float64 `json:"bottleEquivalentPerPerson"`
	OuncesPerPersonPerBottle  float64 `json:"ouncesPerPersonPerBottle"`
}

// Game is one tasting session. ID doubles as the human-shareable join code.
// CurrentRound is 1-based while playing and 0 before the first round.
type Game struct {
	ID           string
	Status       Status
	CurrentRound int
	HostToken    string
	Config       *Config
	CreatedAt    time.Time
}

// Bottle is one wine entry. The price stays concealed from players until
// its round is revealed. RoundIndex is nil until rounds are organized.
type Bottle struct {
	ID         string
	GameID     string
	LabelName  string
	FunName    string
	PriceCents int64
	RoundIndex *int
	OrderIndex int
}

type Player struct {
	ID          string
	GameID      string
	DisplayName string
	Score       int
	IsHost      bool
	Status      PlayerStatus
	JoinedAt    time.Time
}

// Round is one tasting flight. BottleIDs is ordered and has length
// bottlesPerRound; rounds of a game partition its bottle set.
type Round struct {
	ID        string
	GameID    string
	Index     int
	BottleIDs []string
	Revealed  bool
}

// Submission is one player's answer for one round. Ranking lists the
// round's bottle ids most expensive first. Locked is a one-way flag:
// once set the submission is immutable and eligible for scoring.
type Submission struct {
	ID           string
	GameID       string
	PlayerID     string
	RoundIndex   int
	TastingNotes map[string]string
	Ranking      []string
	Locked       bool
	Points       int
}

// GambitSubmission is a player's bonus-round prediction. FavoriteID is
// informational only and never scored.
type GambitSubmission struct {
	ID               string
	GameID           string
	PlayerID         string
	MostExpensiveID  string
	LeastExpensiveID string
	FavoriteID       string
	Points           int
}
