package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cellarparty/winegambit/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ValidationResponse is the 400 body: every violated rule, not just the
// first one found.
type ValidationResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations"`
}

// writeGameError maps the core's error taxonomy onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	if ve, ok := game.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, ValidationResponse{
			Error:      "validation failed",
			Violations: ve.Violations,
		})
		return
	}
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, game.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, game.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "submission already locked")
	case errors.Is(err, game.ErrInvalidState), errors.Is(err, game.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
