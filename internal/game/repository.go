package game

import "context"

// Repository persists game entities. Pure CRUD, no game rules. Lookups
// return ErrNotFound for unknown ids; list methods return entities in a
// stable order (bottles by orderIndex, rounds by index, players by join
// time).
//
// InTx runs fn against a repository view whose writes commit together or
// not at all, and serializes concurrent mutations of the same database.
// The service wraps every state-changing operation in InTx so that, for
// example, two simultaneous round closes cannot double-score.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	CreateGame(ctx context.Context, g *Game) error
	GetGame(ctx context.Context, id string) (*Game, error)
	UpdateGame(ctx context.Context, g *Game) error
	DeleteGame(ctx context.Context, id string) error

	CreateBottle(ctx context.Context, b *Bottle) error
	UpdateBottle(ctx context.Context, b *Bottle) error
	ListBottles(ctx context.Context, gameID string) ([]Bottle, error)

	CreatePlayer(ctx context.Context, p *Player) error
	UpdatePlayer(ctx context.Context, p *Player) error
	GetPlayer(ctx context.Context, id string) (*Player, error)
	ListPlayers(ctx context.Context, gameID string) ([]Player, error)

	CreateRound(ctx context.Context, r *Round) error
	UpdateRound(ctx context.Context, r *Round) error
	ListRounds(ctx context.Context, gameID string) ([]Round, error)

	UpsertSubmission(ctx context.Context, s *Submission) error
	GetSubmission(ctx context.Context, gameID, playerID string, roundIndex int) (*Submission, error)
	ListSubmissions(ctx context.Context, gameID string, roundIndex int) ([]Submission, error)

	UpsertGambit(ctx context.Context, g *GambitSubmission) error
	GetGambit(ctx context.Context, gameID, playerID string) (*GambitSubmission, error)
	ListGambits(ctx context.Context, gameID string) ([]GambitSubmission, error)
}
