package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cellarparty/winegambit/internal/game"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLite implements game.Repository on a SQLite database. All methods
// run raw SQL; InTx reissues them on a transaction so a state-machine
// operation commits atomically.
type SQLite struct {
	db *sql.DB
	q  querier
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, q: db}
}

func (s *SQLite) InTx(ctx context.Context, fn func(game.Repository) error) error {
	if s.db == nil {
		// Already inside a transaction; SQLite has no nesting to add.
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&SQLite{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) CreateGame(ctx context.Context, g *game.Game) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO games (id, status, current_round, host_token, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, g.ID, string(g.Status), g.CurrentRound, g.HostToken, g.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLite) GetGame(ctx context.Context, id string) (*game.Game, error) {
	var g game.Game
	var status, createdAt string
	var maxPlayers, totalBottles, totalRounds, bottlesPerRound sql.NullInt64
	var bottleEquiv, ounces sql.NullFloat64
	err := s.q.QueryRowContext(ctx, `
		SELECT id, status, current_round, host_token,
			max_players, total_bottles, total_rounds, bottles_per_round,
			bottle_equivalent_per_person, ounces_per_person_per_bottle,
			created_at
		FROM games WHERE id = ?
	`, id).Scan(&g.ID, &status, &g.CurrentRound, &g.HostToken,
		&maxPlayers, &totalBottles, &totalRounds, &bottlesPerRound,
		&bottleEquiv, &ounces, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	g.Status = game.Status(status)
	g.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	// Configuration fields are set together or not at all.
	if totalBottles.Valid {
		g.Config = &game.Config{
			MaxPlayers:                int(maxPlayers.Int64),
			TotalBottles:              int(totalBottles.Int64),
			TotalRounds:               int(totalRounds.Int64),
			BottlesPerRound:           int(bottlesPerRound.Int64),
			BottleEquivalentPerPerson: bottleEquiv.Float64,
			OuncesPerPersonPerBottle:  ounces.Float64,
		}
	}
	return &g, nil
}

func (s *SQLite) UpdateGame(ctx context.Context, g *game.Game) error {
	var maxPlayers, totalBottles, totalRounds, bottlesPerRound any
	var bottleEquiv, ounces any
	if g.Config != nil {
		maxPlayers = g.Config.MaxPlayers
		totalBottles = g.Config.TotalBottles
		totalRounds = g.Config.TotalRounds
		bottlesPerRound = g.Config.BottlesPerRound
		bottleEquiv = g.Config.BottleEquivalentPerPerson
		ounces = g.Config.OuncesPerPersonPerBottle
	}
	res, err := s.q.ExecContext(ctx, `
		UPDATE games SET status = ?, current_round = ?,
			max_players = ?, total_bottles = ?, total_rounds = ?, bottles_per_round = ?,
			bottle_equivalent_per_person = ?, ounces_per_person_per_bottle = ?
		WHERE id = ?
	`, string(g.Status), g.CurrentRound,
		maxPlayers, totalBottles, totalRounds, bottlesPerRound,
		bottleEquiv, ounces, g.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "game "+g.ID)
}

func (s *SQLite) DeleteGame(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "game "+id)
}

func (s *SQLite) CreateBottle(ctx context.Context, b *game.Bottle) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO bottles (id, game_id, label_name, fun_name, price_cents, round_index, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.GameID, b.LabelName, b.FunName, b.PriceCents, nullableInt(b.RoundIndex), b.OrderIndex)
	return err
}

func (s *SQLite) UpdateBottle(ctx context.Context, b *game.Bottle) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE bottles SET label_name = ?, fun_name = ?, price_cents = ?, round_index = ?, order_index = ?
		WHERE id = ?
	`, b.LabelName, b.FunName, b.PriceCents, nullableInt(b.RoundIndex), b.OrderIndex, b.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "bottle "+b.ID)
}

func (s *SQLite) ListBottles(ctx context.Context, gameID string) ([]game.Bottle, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, game_id, label_name, fun_name, price_cents, round_index, order_index
		FROM bottles WHERE game_id = ? ORDER BY order_index
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bottles []game.Bottle
	for rows.Next() {
		var b game.Bottle
		var roundIndex sql.NullInt64
		if err := rows.Scan(&b.ID, &b.GameID, &b.LabelName, &b.FunName, &b.PriceCents, &roundIndex, &b.OrderIndex); err != nil {
			return nil, err
		}
		if roundIndex.Valid {
			idx := int(roundIndex.Int64)
			b.RoundIndex = &idx
		}
		bottles = append(bottles, b)
	}
	return bottles, rows.Err()
}

func (s *SQLite) CreatePlayer(ctx context.Context, p *game.Player) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO players (id, game_id, display_name, score, is_host, status, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.GameID, p.DisplayName, p.Score, boolInt(p.IsHost), string(p.Status), p.JoinedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLite) UpdatePlayer(ctx context.Context, p *game.Player) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE players SET display_name = ?, score = ?, status = ? WHERE id = ?
	`, p.DisplayName, p.Score, string(p.Status), p.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "player "+p.ID)
}

func (s *SQLite) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	var p game.Player
	var isHost int
	var status, joinedAt string
	err := s.q.QueryRowContext(ctx, `
		SELECT id, game_id, display_name, score, is_host, status, joined_at
		FROM players WHERE id = ?
	`, id).Scan(&p.ID, &p.GameID, &p.DisplayName, &p.Score, &isHost, &status, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.IsHost = isHost != 0
	p.Status = game.PlayerStatus(status)
	p.JoinedAt, _ = time.Parse(time.RFC3339Nano, joinedAt)
	return &p, nil
}

func (s *SQLite) ListPlayers(ctx context.Context, gameID string) ([]game.Player, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, game_id, display_name, score, is_host, status, joined_at
		FROM players WHERE game_id = ? ORDER BY joined_at, id
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []game.Player
	for rows.Next() {
		var p game.Player
		var isHost int
		var status, joinedAt string
		if err := rows.Scan(&p.ID, &p.GameID, &p.DisplayName, &p.Score, &isHost, &status, &joinedAt); err != nil {
			return nil, err
		}
		p.IsHost = isHost != 0
		p.Status = game.PlayerStatus(status)
		p.JoinedAt, _ = time.Parse(time.RFC3339Nano, joinedAt)
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLite) CreateRound(ctx context.Context, r *game.Round) error {
	bottleIDs, err := json.Marshal(r.BottleIDs)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO rounds (id, game_id, round_index, bottle_ids, revealed)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, r.GameID, r.Index, string(bottleIDs), boolInt(r.Revealed))
	return err
}

func (s *SQLite) UpdateRound(ctx context.Context, r *game.Round) error {
	bottleIDs, err := json.Marshal(r.BottleIDs)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, `
		UPDATE rounds SET bottle_ids = ?, revealed = ? WHERE id = ?
	`, string(bottleIDs), boolInt(r.Revealed), r.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "round "+r.ID)
}

func (s *SQLite) ListRounds(ctx context.Context, gameID string) ([]game.Round, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, game_id, round_index, bottle_ids, revealed
		FROM rounds WHERE game_id = ? ORDER BY round_index
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []game.Round
	for rows.Next() {
		var r game.Round
		var bottleIDs string
		var revealed int
		if err := rows.Scan(&r.ID, &r.GameID, &r.Index, &bottleIDs, &revealed); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bottleIDs), &r.BottleIDs); err != nil {
			return nil, fmt.Errorf("decoding bottle ids for round %s: %w", r.ID, err)
		}
		r.Revealed = revealed != 0
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

func (s *SQLite) UpsertSubmission(ctx context.Context, sub *game.Submission) error {
	notes, err := json.Marshal(sub.TastingNotes)
	if err != nil {
		return err
	}
	ranking, err := json.Marshal(sub.Ranking)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO submissions (id, game_id, player_id, round_index, tasting_notes, ranking, locked, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id, round_index) DO UPDATE SET
			tasting_notes = excluded.tasting_notes,
			ranking = excluded.ranking,
			locked = excluded.locked,
			points = excluded.points
	`, sub.ID, sub.GameID, sub.PlayerID, sub.RoundIndex, string(notes), string(ranking), boolInt(sub.Locked), sub.Points)
	return err
}

func (s *SQLite) GetSubmission(ctx context.Context, gameID, playerID string, roundIndex int) (*game.Submission, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, game_id, player_id, round_index, tasting_notes, ranking, locked, points
		FROM submissions WHERE game_id = ? AND player_id = ? AND round_index = ?
	`, gameID, playerID, roundIndex)
	sub, err := scanSubmission(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission: %w", game.ErrNotFound)
	}
	return sub, err
}

func (s *SQLite) ListSubmissions(ctx context.Context, gameID string, roundIndex int) ([]game.Submission, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, game_id, player_id, round_index, tasting_notes, ranking, locked, points
		FROM submissions WHERE game_id = ? AND round_index = ? ORDER BY id
	`, gameID, roundIndex)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []game.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func scanSubmission(scan func(...any) error) (*game.Submission, error) {
	var sub game.Submission
	var notes, ranking string
	var locked int
	if err := scan(&sub.ID, &sub.GameID, &sub.PlayerID, &sub.RoundIndex, &notes, &ranking, &locked, &sub.Points); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(notes), &sub.TastingNotes); err != nil {
		return nil, fmt.Errorf("decoding tasting notes: %w", err)
	}
	if err := json.Unmarshal([]byte(ranking), &sub.Ranking); err != nil {
		return nil, fmt.Errorf("decoding ranking: %w", err)
	}
	sub.Locked = locked != 0
	return &sub, nil
}

func (s *SQLite) UpsertGambit(ctx context.Context, g *game.GambitSubmission) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO gambit_submissions (id, game_id, player_id, most_expensive_id, least_expensive_id, favorite_id, points)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			most_expensive_id = excluded.most_expensive_id,
			least_expensive_id = excluded.least_expensive_id,
			favorite_id = excluded.favorite_id,
			points = excluded.points
	`, g.ID, g.GameID, g.PlayerID, g.MostExpensiveID, g.LeastExpensiveID, g.FavoriteID, g.Points)
	return err
}

func (s *SQLite) GetGambit(ctx context.Context, gameID, playerID string) (*game.GambitSubmission, error) {
	var g game.GambitSubmission
	err := s.q.QueryRowContext(ctx, `
		SELECT id, game_id, player_id, most_expensive_id, least_expensive_id, favorite_id, points
		FROM gambit_submissions WHERE game_id = ? AND player_id = ?
	`, gameID, playerID).Scan(&g.ID, &g.GameID, &g.PlayerID, &g.MostExpensiveID, &g.LeastExpensiveID, &g.FavoriteID, &g.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("gambit submission: %w", game.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *SQLite) ListGambits(ctx context.Context, gameID string) ([]game.GambitSubmission, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, game_id, player_id, most_expensive_id, least_expensive_id, favorite_id, points
		FROM gambit_submissions WHERE game_id = ? ORDER BY id
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gambits []game.GambitSubmission
	for rows.Next() {
		var g game.GambitSubmission
		if err := rows.Scan(&g.ID, &g.GameID, &g.PlayerID, &g.MostExpensiveID, &g.LeastExpensiveID, &g.FavoriteID, &g.Points); err != nil {
			return nil, err
		}
		gambits = append(gambits, g)
	}
	return gambits, rows.Err()
}

func mustAffect(res sql.Result, what string) error {
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%s: %w", what, game.ErrNotFound)
	}
	return nil
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
