// Package token generates and validates human-shareable order tokens.
// Format: 6 characters drawn from A-Z and 0-9, e.g. 4FUG5A.
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 6
)

var pattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// Generate returns a new random order token
func Generate() string {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand never fails on supported platforms
			panic(fmt.Sprintf("token: read random: %v", err))
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}

// Valid reports whether tok matches the order token format
func Valid(tok string) bool {
	return pattern.MatchString(tok)
}
