// Package auth holds the admin gate: a single shared-secret check guarding
// privileged mutations (raffle draw/clear, schedule changes, cash purchases).
package auth

import "crypto/subtle"

type Gate struct {
	secret []byte
}

func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Authorize compares the supplied secret against the configured one in
// constant time.
func (g *Gate) Authorize(supplied string) bool {
	return subtle.ConstantTimeCompare(g.secret, []byte(supplied)) == 1
}
