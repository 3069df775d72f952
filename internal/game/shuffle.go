package game

import (
	"encoding/binary"
	"math/rand"

	"golang.org/x/crypto/blake2b"
)

// shuffleSeed derives a stable PRNG seed from the game id, so the same
// game always shuffles the same way.
func shuffleSeed(gameID string) int64 {
	sum := blake2b.Sum256([]byte(gameID))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// ShuffleIDs returns a permutation of ids via Fisher-Yates, keyed on
// gameID. Deterministic: retrying StartGame for the same game produces
// the same bottle-to-round assignment.
func ShuffleIDs(gameID string, ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	rng := rand.New(rand.NewSource(shuffleSeed(gameID)))
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
