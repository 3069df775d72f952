package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cellarparty/winegambit/internal/game"
)

type SubmissionRequest struct {
	TastingNotes map[string]string `json:"tastingNotes"`
	Ranking      []string          `json:"ranking"`
}

type SubmissionResponse struct {
	ID           string            `json:"id"`
	RoundIndex   int               `json:"roundIndex"`
	TastingNotes map[string]string `json:"tastingNotes"`
	Ranking      []string          `json:"ranking"`
	Locked       bool              `json:"locked"`
	Points       int               `json:"points"`
}

func submissionResponse(s *game.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           s.ID,
		RoundIndex:   s.RoundIndex,
		TastingNotes: s.TastingNotes,
		Ranking:      s.Ranking,
		Locked:       s.Locked,
		Points:       s.Points,
	}
}

// handleSaveDraft upserts a work-in-progress submission. Drafts accept
// partial notes and rankings and are never scored.
func handleSaveDraft(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid := playerID(r)
		if pid == "" {
			writeError(w, http.StatusUnauthorized, "X-Player-Id header required")
			return
		}
		idx, ok := roundIndex(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid round index")
			return
		}
		var req SubmissionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sub, err := svc.SaveTastingDraft(r.Context(), chi.URLParam(r, "code"), idx, pid, req.TastingNotes, req.Ranking)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, submissionResponse(sub))
	}
}

// handleSubmitTasting locks the player's final answer for the round.
func handleSubmitTasting(svc *game.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid := playerID(r)
		if pid == "" {
			writeError(w, http.StatusUnauthorized, "X-Player-Id header required")
			return
		}
		idx, ok := roundIndex(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid round index")
			return
		}
		var req SubmissionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		code := chi.URLParam(r, "code")
		sub, err := svc.SubmitTasting(r.Context(), code, idx, pid, req.TastingNotes, req.Ranking)
		if err != nil {
			writeGameError(w, err)
			return
		}

		broker.Publish(code, SSEEvent{Type: "submission_locked", Round: idx + 1})
		writeJSON(w, http.StatusOK, submissionResponse(sub))
	}
}

func handleGetSubmission(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid := playerID(r)
		if pid == "" {
			writeError(w, http.StatusUnauthorized, "X-Player-Id header required")
			return
		}
		idx, ok := roundIndex(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid round index")
			return
		}

		sub, err := svc.PlayerSubmission(r.Context(), chi.URLParam(r, "code"), pid, idx)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, submissionResponse(sub))
	}
}

type GambitRequest struct {
	MostExpensiveBottleID  string `json:"mostExpensiveBottleId"`
	LeastExpensiveBottleID string `json:"leastExpensiveBottleId"`
	FavoriteBottleID       string `json:"favoriteBottleId"`
}

type GambitResponse struct {
	ID                     string `json:"id"`
	MostExpensiveBottleID  string `json:"mostExpensiveBottleId"`
	LeastExpensiveBottleID string `json:"leastExpensiveBottleId"`
	FavoriteBottleID       string `json:"favoriteBottleId"`
	Points                 int    `json:"points"`
}

func handleSubmitGambit(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid := playerID(r)
		if pid == "" {
			writeError(w, http.StatusUnauthorized, "X-Player-Id header required")
			return
		}
		var req GambitRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sub, err := svc.SubmitGambit(r.Context(), chi.URLParam(r, "code"), pid,
			req.MostExpensiveBottleID, req.LeastExpensiveBottleID, req.FavoriteBottleID)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, GambitResponse{
			ID:                     sub.ID,
			MostExpensiveBottleID:  sub.MostExpensiveID,
			LeastExpensiveBottleID: sub.LeastExpensiveID,
			FavoriteBottleID:       sub.FavoriteID,
			Points:                 sub.Points,
		})
	}
}
