package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cellarparty/winegambit/internal/game"
)

// roundIndex parses the 0-based round index from the URL.
func roundIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "round"))
	return idx, err == nil && idx >= 0
}

func handleBeginRound(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		g, err := svc.BeginRound(r.Context(), code, hostToken(r))
		if err != nil {
			writeGameError(w, err)
			return
		}
		broker.Publish(code, SSEEvent{Type: "round_started", Round: g.CurrentRound})
		writeJSON(w, http.StatusOK, gameInfo(g))
	}
}

type CloseRoundResponse struct {
	CorrectOrder []string `json:"correctOrder"`
}

func handleCloseRound(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, ok := roundIndex(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid round index")
			return
		}

		code := chi.URLParam(r, "code")
		correctOrder, err := svc.CloseRound(r.Context(), code, hostToken(r), idx)
		if err != nil {
			writeGameError(w, err)
			return
		}

		broker.Publish(code, SSEEvent{Type: "round_revealed", Round: idx + 1})
		writeJSON(w, http.StatusOK, CloseRoundResponse{CorrectOrder: correctOrder})
	}
}

func handleAdvanceRound(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		g, err := svc.AdvanceRound(r.Context(), code, hostToken(r))
		if err != nil {
			writeGameError(w, err)
			return
		}

		if g.Status == game.StatusGambit {
			broker.Publish(code, SSEEvent{Type: "gambit_started"})
		} else {
			broker.Publish(code, SSEEvent{Type: "round_started", Round: g.CurrentRound})
		}
		writeJSON(w, http.StatusOK, gameInfo(g))
	}
}

func handleFinishGame(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		g, err := svc.FinishGame(r.Context(), code, hostToken(r))
		if err != nil {
			writeGameError(w, err)
			return
		}
		broker.Publish(code, SSEEvent{Type: "game_finished"})
		writeJSON(w, http.StatusOK, gameInfo(g))
	}
}

func handleDeleteGame(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteGame(r.Context(), chi.URLParam(r, "code"), hostToken(r)); err != nil {
			writeGameError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleKickPlayer(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		err := svc.KickPlayer(r.Context(), code, hostToken(r), chi.URLParam(r, "playerID"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		broker.Publish(code, SSEEvent{Type: "player_kicked"})
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
