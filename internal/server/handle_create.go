package server

import (
	"net/http"

	"github.com/cellarparty/winegambit/internal/game"
)

type CreateGameRequest struct {
	HostDisplayName string `json:"hostDisplayName"`
}

type CreateGameResponse struct {
	GameID       string `json:"gameId"`
	HostToken    string `json:"hostToken"`
	HostPlayerID string `json:"hostPlayerId"`
}

func handleCreateGame(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := svc.CreateGame(r.Context(), req.HostDisplayName)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateGameResponse{
			GameID:       res.Game.ID,
			HostToken:    res.Game.HostToken,
			HostPlayerID: res.HostPlayer.ID,
		})
	}
}
