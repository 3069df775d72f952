package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Service owns the game state machine. Every state-changing method runs
// inside a single repository transaction: validation happens first, and
// either every write commits or none do.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateGameResult bundles what a new host needs to keep: the game (with
// its host token) and their own player record.
type CreateGameResult struct {
	Game       *Game
	HostPlayer *Player
}

// CreateGame allocates a fresh game in setup phase with the caller as its
// host player.
func (s *Service) CreateGame(ctx context.Context, hostDisplayName string) (*CreateGameResult, error) {
	hostDisplayName = strings.TrimSpace(hostDisplayName)
	if v := validateDisplayName(hostDisplayName); len(v) > 0 {
		return nil, newValidationError(v...)
	}

	g := &Game{
		ID:        NewGameCode(),
		Status:    StatusSetup,
		HostToken: NewHostToken(),
		CreatedAt: s.now(),
	}
	host := &Player{
		ID:          newID(),
		GameID:      g.ID,
		DisplayName: hostDisplayName,
		IsHost:      true,
		Status:      PlayerActive,
		JoinedAt:    s.now(),
	}

	err := s.repo.InTx(ctx, func(r Repository) error {
		if err := r.CreateGame(ctx, g); err != nil {
			return err
		}
		return r.CreatePlayer(ctx, host)
	})
	if err != nil {
		return nil, err
	}
	return &CreateGameResult{Game: g, HostPlayer: host}, nil
}

// JoinGame adds a player to a game still in setup or lobby. An empty
// display name means the caller is a spectator: the game is checked but
// no player record is created and nil is returned.
func (s *Service) JoinGame(ctx context.Context, gameID, displayName string) (*Player, error) {
	displayName = strings.TrimSpace(displayName)

	var player *Player
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := r.GetGame(ctx, gameID)
		if err != nil {
			return err
		}

		// Spectators only need the game to exist.
		if displayName == "" {
			return nil
		}

		if g.Status != StatusSetup && g.Status != StatusLobby {
			return fmt.Errorf("game already started: %w", ErrInvalidState)
		}
		if v := validateDisplayName(displayName); len(v) > 0 {
			return newValidationError(v...)
		}

		players, err := r.ListPlayers(ctx, gameID)
		if err != nil {
			return err
		}
		active := 0
		for _, p := range players {
			if strings.EqualFold(p.DisplayName, displayName) {
				return fmt.Errorf("display name %q is taken: %w", displayName, ErrConflict)
			}
			if p.Status == PlayerActive {
				active++
			}
		}
		if g.Config != nil && active >= g.Config.MaxPlayers {
			return fmt.Errorf("game is full: %w", ErrConflict)
		}

		player = &Player{
			ID:          newID(),
			GameID:      gameID,
			DisplayName: displayName,
			Status:      PlayerActive,
			JoinedAt:    s.now(),
		}
		return r.CreatePlayer(ctx, player)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// SetConfiguration sets all six configuration fields atomically. Only
// legal during setup.
func (s *Service) SetConfiguration(ctx context.Context, gameID, hostToken string, cfg Config) (*Game, error) {
	var out *Game
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}
		if g.Status != StatusSetup {
			return fmt.Errorf("configuration can only change during setup: %w", ErrInvalidState)
		}
		if v := ValidateConfig(cfg); len(v) > 0 {
			return newValidationError(v...)
		}
		g.Config = &cfg
		if err := r.UpdateGame(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

// BottleInput is one wine entry supplied by the host during setup.
type BottleInput struct {
	LabelName  string
	FunName    string
	PriceCents int64
}

// AddBottles appends bottles to the game, validating the combined set so
// new entries cannot collide with existing labels or prices. Returns the
// full bottle set on success.
func (s *Service) AddBottles(ctx context.Context, gameID, hostToken string, inputs []BottleInput) ([]Bottle, error) {
	var out []Bottle
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}
		if g.Status != StatusSetup {
			return fmt.Errorf("bottles can only be added during setup: %w", ErrInvalidState)
		}

		existing, err := r.ListBottles(ctx, gameID)
		if err != nil {
			return err
		}

		combined := make([]Bottle, 0, len(existing)+len(inputs))
		combined = append(combined, existing...)
		added := make([]Bottle, 0, len(inputs))
		for i, in := range inputs {
			b := Bottle{
				ID:         newID(),
				GameID:     gameID,
				LabelName:  strings.TrimSpace(in.LabelName),
				FunName:    strings.TrimSpace(in.FunName),
				PriceCents: in.PriceCents,
				OrderIndex: len(existing) + i,
			}
			combined = append(combined, b)
			added = append(added, b)
		}

		violations := ValidateBottleSet(combined)
		if g.Config != nil && len(combined) > g.Config.TotalBottles {
			violations = append(violations, fmt.Sprintf("game allows %d bottles, would have %d", g.Config.TotalBottles, len(combined)))
		}
		if len(violations) > 0 {
			return newValidationError(violations...)
		}

		for i := range added {
			if err := r.CreateBottle(ctx, &added[i]); err != nil {
				return err
			}
		}
		out = combined
		return nil
	})
	return out, err
}

// RoundAssignment maps one bottle to a round. A slice rather than a map
// so duplicate bottle ids from a buggy client are caught, not collapsed.
type RoundAssignment struct {
	BottleID   string `json:"bottleId"`
	RoundIndex int    `json:"roundIndex"`
}

// OrganizeRounds applies a full bottle-to-round assignment. Partial or
// unbalanced assignments are rejected with every violation reported.
func (s *Service) OrganizeRounds(ctx context.Context, gameID, hostToken string, assignment []RoundAssignment) error {
	return s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}
		if g.Status != StatusSetup {
			return fmt.Errorf("rounds can only be organized during setup: %w", ErrInvalidState)
		}
		if g.Config == nil {
			return newValidationError("configuration must be set before organizing rounds")
		}

		bottles, err := r.ListBottles(ctx, gameID)
		if err != nil {
			return err
		}
		byID := make(map[string]*Bottle, len(bottles))
		for i := range bottles {
			bottles[i].RoundIndex = nil
			byID[bottles[i].ID] = &bottles[i]
		}

		var violations []string
		seen := make(map[string]bool, len(assignment))
		for _, a := range assignment {
			if seen[a.BottleID] {
				violations = append(violations, fmt.Sprintf("bottle %s appears in the assignment more than once", a.BottleID))
				continue
			}
			seen[a.BottleID] = true
			b, ok := byID[a.BottleID]
			if !ok {
				violations = append(violations, fmt.Sprintf("bottle %s does not belong to this game", a.BottleID))
				continue
			}
			idx := a.RoundIndex
			b.RoundIndex = &idx
		}
		violations = append(violations, ValidateRoundAssignment(bottles, g.Config.TotalRounds, g.Config.BottlesPerRound)...)
		if len(violations) > 0 {
			return newValidationError(violations...)
		}

		for i := range bottles {
			if err := r.UpdateBottle(ctx, &bottles[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// StartGame validates the full setup and moves the game to the lobby,
// creating every Round entity. When no bottle has a round yet the
// assignment is derived from the deterministic shuffle keyed on the game
// id; a partially assigned set is rejected. All violations are collected
// and reported together.
func (s *Service) StartGame(ctx context.Context, gameID, hostToken string) ([]Round, error) {
	var out []Round
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}
		if g.Status != StatusSetup {
			return fmt.Errorf("game already started: %w", ErrInvalidState)
		}
		if g.Config == nil {
			return newValidationError("configuration must be completed before starting")
		}
		cfg := *g.Config

		bottles, err := r.ListBottles(ctx, gameID)
		if err != nil {
			return err
		}

		var violations []string
		if len(bottles) != cfg.TotalBottles {
			violations = append(violations, fmt.Sprintf("game needs %d bottles, has %d", cfg.TotalBottles, len(bottles)))
		}
		violations = append(violations, ValidateBottleSet(bottles)...)

		assigned := 0
		for _, b := range bottles {
			if b.RoundIndex != nil {
				assigned++
			}
		}

		roundBottles := make([][]string, cfg.TotalRounds)
		autoAssign := assigned == 0
		if autoAssign {
			if len(violations) == 0 {
				ids := make([]string, len(bottles))
				for i, b := range bottles {
					ids[i] = b.ID
				}
				shuffled := ShuffleIDs(gameID, ids)
				for i, id := range shuffled {
					roundBottles[i/cfg.BottlesPerRound] = append(roundBottles[i/cfg.BottlesPerRound], id)
				}
			}
		} else {
			violations = append(violations, ValidateRoundAssignment(bottles, cfg.TotalRounds, cfg.BottlesPerRound)...)
			if len(violations) == 0 {
				for _, b := range bottles {
					idx := *b.RoundIndex
					roundBottles[idx] = append(roundBottles[idx], b.ID)
				}
			}
		}
		if len(violations) > 0 {
			return newValidationError(violations...)
		}

		if autoAssign {
			byID := make(map[string]*Bottle, len(bottles))
			for i := range bottles {
				byID[bottles[i].ID] = &bottles[i]
			}
			for roundIdx, ids := range roundBottles {
				for _, id := range ids {
					idx := roundIdx
					byID[id].RoundIndex = &idx
				}
			}
			for i := range bottles {
				if err := r.UpdateBottle(ctx, &bottles[i]); err != nil {
					return err
				}
			}
		}

		rounds := make([]Round, cfg.TotalRounds)
		for i := range rounds {
			rounds[i] = Round{
				ID:        newID(),
				GameID:    gameID,
				Index:     i,
				BottleIDs: roundBottles[i],
			}
			if err := r.CreateRound(ctx, &rounds[i]); err != nil {
				return err
			}
		}

		g.Status = StatusLobby
		if err := r.UpdateGame(ctx, g); err != nil {
			return err
		}
		out = rounds
		return nil
	})
	return out, err
}

// BeginRound starts the first tasting round from the lobby.
func (s *Service) BeginRound(ctx context.Context, gameID, hostToken string) (*Game, error) {
	var out *Game
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}
		if g.Status != StatusLobby {
			return fmt.Errorf("tasting can only begin from the lobby: %w", ErrInvalidState)
		}
		g.Status = StatusInRound
		g.CurrentRound = 1
		if err := r.UpdateGame(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

// CloseRound reveals the round: it computes the correct price order,
// scores every locked submission, and adds the points to each player's
// running total. Closing an already-revealed round is a no-op that
// returns the same correct order without scoring anything twice.
func (s *Service) CloseRound(ctx context.Context, gameID, hostToken string, roundIndex int) ([]string, error) {
	var correctOrder []string
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}

		rounds, err := r.ListRounds(ctx, gameID)
		if err != nil {
			return err
		}
		var round *Round
		for i := range rounds {
			if rounds[i].Index == roundIndex {
				round = &rounds[i]
				break
			}
		}
		if round == nil {
			return fmt.Errorf("round %d: %w", roundIndex, ErrNotFound)
		}

		bottles, err := r.ListBottles(ctx, gameID)
		if err != nil {
			return err
		}
		correctOrder = CorrectOrder(filterBottles(bottles, round.BottleIDs))

		// Safe retry: an already-revealed round is never scored again.
		if round.Revealed {
			return nil
		}
		if g.Status != StatusInRound || g.CurrentRound-1 != roundIndex {
			return fmt.Errorf("round %d is not the active round: %w", roundIndex+1, ErrInvalidState)
		}

		subs, err := r.ListSubmissions(ctx, gameID, roundIndex)
		if err != nil {
			return err
		}
		for i := range subs {
			if !subs[i].Locked {
				continue
			}
			points := Score(correctOrder, subs[i].Ranking)
			subs[i].Points = points
			if err := r.UpsertSubmission(ctx, &subs[i]); err != nil {
				return err
			}
			p, err := r.GetPlayer(ctx, subs[i].PlayerID)
			if err != nil {
				return err
			}
			p.Score += points
			if err := r.UpdatePlayer(ctx, p); err != nil {
				return err
			}
		}

		round.Revealed = true
		if err := r.UpdateRound(ctx, round); err != nil {
			return err
		}
		g.Status = StatusReveal
		return r.UpdateGame(ctx, g)
	})
	if err != nil {
		return nil, err
	}
	return correctOrder, nil
}

// AdvanceRound moves from a reveal to the next round, or to the gambit
// phase after the last round.
func (s *Service) AdvanceRound(ctx context.Context, gameID, hostToken string) (*Game, error) {
	var out *Game
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}
		if g.Status != StatusReveal {
			return fmt.Errorf("can only advance from a reveal: %w", ErrInvalidState)
		}
		if g.Config != nil && g.CurrentRound < g.Config.TotalRounds {
			g.Status = StatusInRound
			g.CurrentRound++
		} else {
			g.Status = StatusGambit
		}
		if err := r.UpdateGame(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

// SaveTastingDraft upserts an unlocked work-in-progress submission.
// Notes and ranking may be partial; entries must still belong to the
// round. Drafts are never scored.
func (s *Service) SaveTastingDraft(ctx context.Context, gameID string, roundIndex int, playerID string, notes map[string]string, ranking []string) (*Submission, error) {
	return s.upsertTasting(ctx, gameID, roundIndex, playerID, notes, ranking, false)
}

// SubmitTasting validates and locks a player's final answer for the
// active round. Every bottle needs a tasting note of at least 10
// characters and the ranking must be a permutation of the round's
// bottles; anything less rejects the submission wholesale. A locked
// submission can never be resubmitted.
func (s *Service) SubmitTasting(ctx context.Context, gameID string, roundIndex int, playerID string, notes map[string]string, ranking []string) (*Submission, error) {
	return s.upsertTasting(ctx, gameID, roundIndex, playerID, notes, ranking, true)
}

const minNoteRunes = 10

func (s *Service) upsertTasting(ctx context.Context, gameID string, roundIndex int, playerID string, notes map[string]string, ranking []string, lock bool) (*Submission, error) {
	var out *Submission
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := r.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		p, err := r.GetPlayer(ctx, playerID)
		if err != nil || p.GameID != gameID {
			return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
		}
		if p.Status != PlayerActive {
			return fmt.Errorf("player was removed from the game: %w", ErrUnauthorized)
		}
		if g.Status != StatusInRound || g.CurrentRound-1 != roundIndex {
			return fmt.Errorf("round %d is not open for submissions: %w", roundIndex+1, ErrInvalidState)
		}

		rounds, err := r.ListRounds(ctx, gameID)
		if err != nil {
			return err
		}
		var round *Round
		for i := range rounds {
			if rounds[i].Index == roundIndex {
				round = &rounds[i]
				break
			}
		}
		if round == nil {
			return fmt.Errorf("round %d: %w", roundIndex, ErrNotFound)
		}

		existing, err := r.GetSubmission(ctx, gameID, playerID, roundIndex)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if existing != nil && existing.Locked {
			return ErrAlreadySubmitted
		}

		bottles, err := r.ListBottles(ctx, gameID)
		if err != nil {
			return err
		}
		labels := make(map[string]string, len(round.BottleIDs))
		for _, b := range filterBottles(bottles, round.BottleIDs) {
			labels[b.ID] = b.LabelName
		}

		if v := validateTasting(labels, notes, ranking, lock); len(v) > 0 {
			return newValidationError(v...)
		}

		sub := existing
		if sub == nil {
			sub = &Submission{
				ID:         newID(),
				GameID:     gameID,
				PlayerID:   playerID,
				RoundIndex: roundIndex,
			}
		}
		sub.TastingNotes = notes
		sub.Ranking = ranking
		sub.Locked = lock
		sub.Points = 0
		if err := r.UpsertSubmission(ctx, sub); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// validateTasting checks a submission against its round's bottle set.
// Drafts (final=false) only need entries to belong to the round; a final
// submission needs a long-enough note per bottle and a full ranking.
func validateTasting(labels map[string]string, notes map[string]string, ranking []string, final bool) []string {
	var violations []string

	for id := range notes {
		if _, ok := labels[id]; !ok {
			violations = append(violations, fmt.Sprintf("tasting note for bottle %s which is not in this round", id))
		}
	}
	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if _, ok := labels[id]; !ok {
			violations = append(violations, fmt.Sprintf("ranking includes bottle %s which is not in this round", id))
			continue
		}
		if seen[id] {
			violations = append(violations, fmt.Sprintf("ranking includes bottle %q more than once", labels[id]))
		}
		seen[id] = true
	}

	if !final {
		return violations
	}

	for id, label := range labels {
		note := strings.TrimSpace(notes[id])
		if utf8.RuneCountInString(note) < minNoteRunes {
			violations = append(violations, fmt.Sprintf("tasting note for %q must be at least %d characters", label, minNoteRunes))
		}
		if !seen[id] {
			violations = append(violations, fmt.Sprintf("ranking is missing bottle %q", label))
		}
	}
	if len(ranking) != len(labels) {
		violations = append(violations, fmt.Sprintf("ranking must list exactly %d bottles, got %d", len(labels), len(ranking)))
	}
	return violations
}

// SubmitGambit records a player's bonus-round prediction. Gambit
// submissions stay upsertable until the host finishes the game; unlike
// round submissions they never lock.
func (s *Service) SubmitGambit(ctx context.Context, gameID, playerID, mostID, leastID, favoriteID string) (*GambitSubmission, error) {
	var out *GambitSubmission
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := r.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		p, err := r.GetPlayer(ctx, playerID)
		if err != nil || p.GameID != gameID {
			return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
		}
		if p.Status != PlayerActive {
			return fmt.Errorf("player was removed from the game: %w", ErrUnauthorized)
		}
		if g.Status != StatusGambit {
			return fmt.Errorf("gambit predictions are only open during the gambit phase: %w", ErrInvalidState)
		}

		var violations []string
		if mostID == leastID {
			violations = append(violations, "most and least expensive picks must be different bottles")
		}
		bottles, err := r.ListBottles(ctx, gameID)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(bottles))
		for _, b := range bottles {
			known[b.ID] = true
		}
		for name, id := range map[string]string{"mostExpensive": mostID, "leastExpensive": leastID, "favorite": favoriteID} {
			if !known[id] {
				violations = append(violations, fmt.Sprintf("%s pick %s is not a bottle in this game", name, id))
			}
		}
		if len(violations) > 0 {
			return newValidationError(violations...)
		}

		sub, err := r.GetGambit(ctx, gameID, playerID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if sub == nil {
			sub = &GambitSubmission{
				ID:       newID(),
				GameID:   gameID,
				PlayerID: playerID,
			}
		}
		sub.MostExpensiveID = mostID
		sub.LeastExpensiveID = leastID
		sub.FavoriteID = favoriteID
		sub.Points = 0
		if err := r.UpsertGambit(ctx, sub); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FinishGame ends the session from any active phase. Gambit submissions
// are scored exactly once, here; rounds the host skipped stay unscored by
// design. The final status is terminal, so a second call fails rather
// than double-scoring.
func (s *Service) FinishGame(ctx context.Context, gameID, hostToken string) (*Game, error) {
	var out *Game
	err := s.repo.InTx(ctx, func(r Repository) error {
		g, err := hostGame(ctx, r, gameID, hostToken)
		if err != nil {
			return err
		}
		switch g.Status {
		case StatusInRound, StatusReveal, StatusGambit:
		default:
			return fmt.Errorf("game cannot be finished from %s: %w", g.Status, ErrInvalidState)
		}

		gambits, err := r.ListGambits(ctx, gameID)
		if err != nil {
			return err
		}
		if len(gambits) > 0 {
			bottles, err := r.ListBottles(ctx, gameID)
			if err != nil {
				return err
			}
			mostID, leastID := GambitExtremes(bottles)
			for i := range gambits {
				points := ScoreGambit(gambits[i], mostID, leastID)
				gambits[i].Points = points
				if err := r.UpsertGambit(ctx, &gambits[i]); err != nil {
					return err
				}
				if points == 0 {
					continue
				}
				p, err := r.GetPlayer(ctx, gambits[i].PlayerID)
				if err != nil {
					return err
				}
				p.Score += points
				if err := r.UpdatePlayer(ctx, p); err != nil {
					return err
				}
			}
		}

		g.Status = StatusFinal
		if err := r.UpdateGame(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

// KickPlayer removes a player from the game. Kicked players keep their
// record but cannot submit and drop off the leaderboard. The host cannot
// be kicked.
func (s *Service) KickPlayer(ctx context.Context, gameID, hostToken, playerID string) error {
	return s.repo.InTx(ctx, func(r Repository) error {
		if _, err := hostGame(ctx, r, gameID, hostToken); err != nil {
			return err
		}
		p, err := r.GetPlayer(ctx, playerID)
		if err != nil || p.GameID != gameID {
			return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
		}
		if p.IsHost {
			return fmt.Errorf("the host cannot be kicked: %w", ErrConflict)
		}
		p.Status = PlayerKicked
		return r.UpdatePlayer(ctx, p)
	})
}

// DeleteGame removes the game and everything it owns. Administrative;
// not part of the normal phase flow.
func (s *Service) DeleteGame(ctx context.Context, gameID, hostToken string) error {
	return s.repo.InTx(ctx, func(r Repository) error {
		if _, err := hostGame(ctx, r, gameID, hostToken); err != nil {
			return err
		}
		return r.DeleteGame(ctx, gameID)
	})
}

// GetLeaderboard returns active players ordered by score, ties broken by
// display name.
func (s *Service) GetLeaderboard(ctx context.Context, gameID string) ([]Standing, error) {
	if _, err := s.repo.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	players, err := s.repo.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return Leaderboard(players), nil
}

// Snapshot is a consistent read of everything a polling client renders.
type Snapshot struct {
	Game    *Game
	Players []Player
	Bottles []Bottle
	Rounds  []Round
}

// GetSnapshot reads the game and its entities. Plain reads; clients
// re-poll, so no transaction is needed.
func (s *Service) GetSnapshot(ctx context.Context, gameID string) (*Snapshot, error) {
	g, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := s.repo.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	bottles, err := s.repo.ListBottles(ctx, gameID)
	if err != nil {
		return nil, err
	}
	rounds, err := s.repo.ListRounds(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Game: g, Players: players, Bottles: bottles, Rounds: rounds}, nil
}

// PlayerSubmission returns the caller's own submission for a round, or
// ErrNotFound when none exists.
func (s *Service) PlayerSubmission(ctx context.Context, gameID, playerID string, roundIndex int) (*Submission, error) {
	return s.repo.GetSubmission(ctx, gameID, playerID, roundIndex)
}

// hostGame loads the game and checks the caller holds its host token.
func hostGame(ctx context.Context, r Repository, gameID, hostToken string) (*Game, error) {
	g, err := r.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if hostToken == "" || g.HostToken != hostToken {
		return nil, ErrUnauthorized
	}
	return g, nil
}

func filterBottles(bottles []Bottle, ids []string) []Bottle {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]Bottle, 0, len(ids))
	for _, b := range bottles {
		if want[b.ID] {
			out = append(out, b)
		}
	}
	return out
}
