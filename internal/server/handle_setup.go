package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cellarparty/winegambit/internal/game"
)

func handleSetConfiguration(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg game.Config
		if err := readJSON(r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		g, err := svc.SetConfiguration(r.Context(), chi.URLParam(r, "code"), hostToken(r), cfg)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, gameInfo(g))
	}
}

type BottleEntry struct {
	LabelName  string `json:"labelName"`
	FunName    string `json:"funName,omitempty"`
	PriceCents int64  `json:"priceCents"`
}

type AddBottlesRequest struct {
	Bottles []BottleEntry `json:"bottles"`
}

type AddBottlesResponse struct {
	Bottles []BottleInfo `json:"bottles"`
}

func handleAddBottles(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddBottlesRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Bottles) == 0 {
			writeError(w, http.StatusBadRequest, "bottles are required")
			return
		}

		inputs := make([]game.BottleInput, len(req.Bottles))
		for i, b := range req.Bottles {
			inputs[i] = game.BottleInput{
				LabelName:  b.LabelName,
				FunName:    b.FunName,
				PriceCents: b.PriceCents,
			}
		}

		bottles, err := svc.AddBottles(r.Context(), chi.URLParam(r, "code"), hostToken(r), inputs)
		if err != nil {
			writeGameError(w, err)
			return
		}

		// Host-only endpoint, so prices are not concealed here.
		resp := AddBottlesResponse{Bottles: make([]BottleInfo, len(bottles))}
		for i, b := range bottles {
			resp.Bottles[i] = bottleInfo(b, true)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type OrganizeRoundsRequest struct {
	Assignment []game.RoundAssignment `json:"assignment"`
}

func handleOrganizeRounds(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrganizeRoundsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.OrganizeRounds(r.Context(), chi.URLParam(r, "code"), hostToken(r), req.Assignment); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

type StartGameResponse struct {
	Rounds []RoundInfo `json:"rounds"`
}

func handleStartGame(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		rounds, err := svc.StartGame(r.Context(), code, hostToken(r))
		if err != nil {
			writeGameError(w, err)
			return
		}

		broker.Publish(code, SSEEvent{Type: "game_started"})

		resp := StartGameResponse{Rounds: make([]RoundInfo, len(rounds))}
		for i, rd := range rounds {
			resp.Rounds[i] = roundInfo(rd)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
