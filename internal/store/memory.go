// Package store provides the game.Repository implementations: SQLite for
// real deployments and an in-memory store for tests and throwaway games.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cellarparty/winegambit/internal/game"
)

// Memory is a mutex-guarded in-memory game.Repository. InTx serializes
// all transactions behind one lock, which is what the service relies on
// for check-then-write safety; the service validates before writing, so
// the writes inside a transaction cannot fail halfway. Reads outside a
// transaction may interleave, matching the weaker read isolation the
// game tolerates.
type Memory struct {
	txMu    sync.Mutex
	mu      sync.RWMutex
	games   map[string]game.Game
	bottles map[string]game.Bottle
	players map[string]game.Player
	rounds  map[string]game.Round
	subs    map[string]game.Submission
	gambits map[string]game.GambitSubmission
}

func NewMemory() *Memory {
	return &Memory{
		games:   make(map[string]game.Game),
		bottles: make(map[string]game.Bottle),
		players: make(map[string]game.Player),
		rounds:  make(map[string]game.Round),
		subs:    make(map[string]game.Submission),
		gambits: make(map[string]game.GambitSubmission),
	}
}

func (m *Memory) InTx(ctx context.Context, fn func(game.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(m)
}

func (m *Memory) lock() func() {
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Memory) rlock() func() {
	m.mu.RLock()
	return m.mu.RUnlock
}

func (m *Memory) CreateGame(ctx context.Context, g *game.Game) error {
	defer m.lock()()
	if _, ok := m.games[g.ID]; ok {
		return fmt.Errorf("game %s exists: %w", g.ID, game.ErrConflict)
	}
	m.games[g.ID] = cloneGame(*g)
	return nil
}

func (m *Memory) GetGame(ctx context.Context, id string) (*game.Game, error) {
	defer m.rlock()()
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
	}
	g = cloneGame(g)
	return &g, nil
}

func (m *Memory) UpdateGame(ctx context.Context, g *game.Game) error {
	defer m.lock()()
	if _, ok := m.games[g.ID]; !ok {
		return fmt.Errorf("game %s: %w", g.ID, game.ErrNotFound)
	}
	m.games[g.ID] = cloneGame(*g)
	return nil
}

func (m *Memory) DeleteGame(ctx context.Context, id string) error {
	defer m.lock()()
	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("game %s: %w", id, game.ErrNotFound)
	}
	delete(m.games, id)
	for k, b := range m.bottles {
		if b.GameID == id {
			delete(m.bottles, k)
		}
	}
	for k, p := range m.players {
		if p.GameID == id {
			delete(m.players, k)
		}
	}
	for k, r := range m.rounds {
		if r.GameID == id {
			delete(m.rounds, k)
		}
	}
	for k, s := range m.subs {
		if s.GameID == id {
			delete(m.subs, k)
		}
	}
	for k, gs := range m.gambits {
		if gs.GameID == id {
			delete(m.gambits, k)
		}
	}
	return nil
}

func (m *Memory) CreateBottle(ctx context.Context, b *game.Bottle) error {
	defer m.lock()()
	m.bottles[b.ID] = cloneBottle(*b)
	return nil
}

func (m *Memory) UpdateBottle(ctx context.Context, b *game.Bottle) error {
	defer m.lock()()
	if _, ok := m.bottles[b.ID]; !ok {
		return fmt.Errorf("bottle %s: %w", b.ID, game.ErrNotFound)
	}
	m.bottles[b.ID] = cloneBottle(*b)
	return nil
}

func (m *Memory) ListBottles(ctx context.Context, gameID string) ([]game.Bottle, error) {
	defer m.rlock()()
	var out []game.Bottle
	for _, b := range m.bottles {
		if b.GameID == gameID {
			out = append(out, cloneBottle(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *Memory) CreatePlayer(ctx context.Context, p *game.Player) error {
	defer m.lock()()
	m.players[p.ID] = *p
	return nil
}

func (m *Memory) UpdatePlayer(ctx context.Context, p *game.Player) error {
	defer m.lock()()
	if _, ok := m.players[p.ID]; !ok {
		return fmt.Errorf("player %s: %w", p.ID, game.ErrNotFound)
	}
	m.players[p.ID] = *p
	return nil
}

func (m *Memory) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	defer m.rlock()()
	p, ok := m.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, game.ErrNotFound)
	}
	return &p, nil
}

func (m *Memory) ListPlayers(ctx context.Context, gameID string) ([]game.Player, error) {
	defer m.rlock()()
	var out []game.Player
	for _, p := range m.players {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) CreateRound(ctx context.Context, r *game.Round) error {
	defer m.lock()()
	m.rounds[r.ID] = cloneRound(*r)
	return nil
}

func (m *Memory) UpdateRound(ctx context.Context, r *game.Round) error {
	defer m.lock()()
	if _, ok := m.rounds[r.ID]; !ok {
		return fmt.Errorf("round %s: %w", r.ID, game.ErrNotFound)
	}
	m.rounds[r.ID] = cloneRound(*r)
	return nil
}

func (m *Memory) ListRounds(ctx context.Context, gameID string) ([]game.Round, error) {
	defer m.rlock()()
	var out []game.Round
	for _, r := range m.rounds {
		if r.GameID == gameID {
			out = append(out, cloneRound(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (m *Memory) UpsertSubmission(ctx context.Context, s *game.Submission) error {
	defer m.lock()()
	m.subs[s.ID] = cloneSubmission(*s)
	return nil
}

func (m *Memory) GetSubmission(ctx context.Context, gameID, playerID string, roundIndex int) (*game.Submission, error) {
	defer m.rlock()()
	for _, s := range m.subs {
		if s.GameID == gameID && s.PlayerID == playerID && s.RoundIndex == roundIndex {
			s = cloneSubmission(s)
			return &s, nil
		}
	}
	return nil, fmt.Errorf("submission: %w", game.ErrNotFound)
}

func (m *Memory) ListSubmissions(ctx context.Context, gameID string, roundIndex int) ([]game.Submission, error) {
	defer m.rlock()()
	var out []game.Submission
	for _, s := range m.subs {
		if s.GameID == gameID && s.RoundIndex == roundIndex {
			out = append(out, cloneSubmission(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpsertGambit(ctx context.Context, g *game.GambitSubmission) error {
	defer m.lock()()
	m.gambits[g.ID] = *g
	return nil
}

func (m *Memory) GetGambit(ctx context.Context, gameID, playerID string) (*game.GambitSubmission, error) {
	defer m.rlock()()
	for _, g := range m.gambits {
		if g.GameID == gameID && g.PlayerID == playerID {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("gambit submission: %w", game.ErrNotFound)
}

func (m *Memory) ListGambits(ctx context.Context, gameID string) ([]game.GambitSubmission, error) {
	defer m.rlock()()
	var out []game.GambitSubmission
	for _, g := range m.gambits {
		if g.GameID == gameID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneGame(g game.Game) game.Game {
	if g.Config != nil {
		cfg := *g.Config
		g.Config = &cfg
	}
	return g
}

func cloneBottle(b game.Bottle) game.Bottle {
	if b.RoundIndex != nil {
		idx := *b.RoundIndex
		b.RoundIndex = &idx
	}
	return b
}

func cloneRound(r game.Round) game.Round {
	r.BottleIDs = append([]string(nil), r.BottleIDs...)
	return r
}

func cloneSubmission(s game.Submission) game.Submission {
	s.Ranking = append([]string(nil), s.Ranking...)
	if s.TastingNotes != nil {
		notes := make(map[string]string, len(s.TastingNotes))
		for k, v := range s.TastingNotes {
			notes[k] = v
		}
		s.TastingNotes = notes
	}
	return s
}
