package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cellarparty/winegambit/internal/game"
)

type GameInfo struct {
	ID           string       `json:"id"`
	Status       string       `json:"status"`
	CurrentRound int          `json:"currentRound"`
	Config       *game.Config `json:"config,omitempty"`
}

type PlayerInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	IsHost      bool   `json:"isHost"`
	Status      string `json:"status"`
}

// BottleInfo is the player-facing view of a bottle. PriceCents is only
// present once the bottle's round has been revealed, the game is final,
// or the caller proved they are the host.
type BottleInfo struct {
	ID         string `json:"id"`
	LabelName  string `json:"labelName"`
	FunName    string `json:"funName,omitempty"`
	RoundIndex *int   `json:"roundIndex,omitempty"`
	OrderIndex int    `json:"orderIndex"`
	PriceCents *int64 `json:"priceCents,omitempty"`
}

type RoundInfo struct {
	Index     int      `json:"index"`
	BottleIDs []string `json:"bottleIds"`
	Revealed  bool     `json:"revealed"`
}

type GameStateResponse struct {
	Game    GameInfo     `json:"game"`
	Players []PlayerInfo `json:"players"`
	Bottles []BottleInfo `json:"bottles"`
	Rounds  []RoundInfo  `json:"rounds"`
}

func gameInfo(g *game.Game) GameInfo {
	return GameInfo{
		ID:           g.ID,
		Status:       string(g.Status),
		CurrentRound: g.CurrentRound,
		Config:       g.Config,
	}
}

func bottleInfo(b game.Bottle, showPrice bool) BottleInfo {
	info := BottleInfo{
		ID:         b.ID,
		LabelName:  b.LabelName,
		FunName:    b.FunName,
		RoundIndex: b.RoundIndex,
		OrderIndex: b.OrderIndex,
	}
	if showPrice {
		price := b.PriceCents
		info.PriceCents = &price
	}
	return info
}

func roundInfo(r game.Round) RoundInfo {
	return RoundInfo{
		Index:     r.Index,
		BottleIDs: r.BottleIDs,
		Revealed:  r.Revealed,
	}
}

// handleGameState is the polling endpoint: one read returning everything
// a client renders. Prices stay concealed until their round is revealed.
func handleGameState(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.GetSnapshot(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeGameError(w, err)
			return
		}

		isHost := hostToken(r) != "" && hostToken(r) == snap.Game.HostToken
		final := snap.Game.Status == game.StatusFinal

		revealed := make(map[int]bool, len(snap.Rounds))
		for _, rd := range snap.Rounds {
			revealed[rd.Index] = rd.Revealed
		}

		resp := GameStateResponse{
			Game:    gameInfo(snap.Game),
			Players: make([]PlayerInfo, 0, len(snap.Players)),
			Bottles: make([]BottleInfo, 0, len(snap.Bottles)),
			Rounds:  make([]RoundInfo, 0, len(snap.Rounds)),
		}
		for _, p := range snap.Players {
			resp.Players = append(resp.Players, PlayerInfo{
				ID:          p.ID,
				DisplayName: p.DisplayName,
				Score:       p.Score,
				IsHost:      p.IsHost,
				Status:      string(p.Status),
			})
		}
		for _, b := range snap.Bottles {
			show := isHost || final || (b.RoundIndex != nil && revealed[*b.RoundIndex])
			resp.Bottles = append(resp.Bottles, bottleInfo(b, show))
		}
		for _, rd := range snap.Rounds {
			resp.Rounds = append(resp.Rounds, roundInfo(rd))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleLeaderboard(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := svc.GetLeaderboard(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		if standings == nil {
			standings = []game.Standing{}
		}
		writeJSON(w, http.StatusOK, standings)
	}
}
