package server

import (
	"net/http"
	"strings"
)

// hostToken pulls the host's bearer token from the Authorization header.
// Empty when absent; the service rejects empty tokens as unauthorized.
func hostToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return ""
	}
	return token
}

// playerID identifies the calling player. Possession of the id is the
// whole authentication story, mirroring the host token.
func playerID(r *http.Request) string {
	return r.Header.Get("X-Player-Id")
}
