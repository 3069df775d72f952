package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cellarparty/winegambit/internal/game"
)

type JoinRequest struct {
	DisplayName string `json:"displayName"`
}

type JoinResponse struct {
	Spectator bool   `json:"spectator,omitempty"`
	PlayerID  string `json:"playerId,omitempty"`
}

func handleJoin(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		code := chi.URLParam(r, "code")
		player, err := svc.JoinGame(r.Context(), code, req.DisplayName)
		if err != nil {
			writeGameError(w, err)
			return
		}

		// A nameless join is a spectator: no player record exists.
		if player == nil {
			writeJSON(w, http.StatusOK, JoinResponse{Spectator: true})
			return
		}

		broker.Publish(code, SSEEvent{
			Type:       "player_joined",
			PlayerName: player.DisplayName,
		})
		writeJSON(w, http.StatusOK, JoinResponse{PlayerID: player.ID})
	}
}
