package game

import (
	crand "crypto/rand"
	"encoding/hex"
	"math/big"
	"math/rand"

	"github.com/google/uuid"
)

// Game codes skip 0/O/1/I/L so they survive being read out loud.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 6

// NewGameCode returns a short join code suitable for sharing verbally.
func NewGameCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand should never fail; fall back rather than panic.
			code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
			continue
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

// NewHostToken returns the opaque secret that authorizes host actions.
func NewHostToken() string {
	b := make([]byte, 16)
	if _, err := crand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}

func newID() string {
	return uuid.NewString()
}
