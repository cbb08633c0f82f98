// Package auth provides credential hashing, JWT issuance/verification, and
// the request middleware that resolves a bearer token into an identity.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used when the config doesn't
// override it. Cost 12 takes roughly 250ms on current server hardware.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// The cost is injectable so tests can run at bcrypt's minimum cost instead
// of paying ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given bcrypt cost.
// A cost below bcrypt's minimum falls back to the default.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost {
		cost = defaultCost
	}
	return &PasswordService{cost: cost}
}

// NewPasswordServiceForTest creates a PasswordService with an explicit cost,
// typically bcrypt.MinCost. Not for production use.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the plaintext password with bcrypt. The output embeds the salt
// and cost, so it is stored directly as the user's hashed_password.
//
// Returns an error if the plaintext exceeds bcrypt's 72-byte limit; bcrypt
// would otherwise truncate it silently.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored bcrypt hash.
//
// The comparison is constant-time inside bcrypt. Any failure, including a
// malformed or truncated hash, is false rather than an error: callers treat all
// of them as a bad credential.
func (p *PasswordService) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
