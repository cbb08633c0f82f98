package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/plantyard/api/internal/apperror"
)

// Identity is the verified subject of a token: who the request acts as.
type Identity struct {
	UserID   int64
	Username string
}

// claims is the JWT payload for both token kinds: the standard registered
// claims (sub carries the username, exp the expiry) plus the numeric user id
// under "id".
type claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the two token kinds.
//
// Access tokens (short-lived) and refresh tokens (long-lived) are signed
// with different HMAC-SHA256 secrets, so a refresh token can never pass
// where an access token is expected and vice versa. Verification is
// stateless, with no session store and no I/O.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a TokenService. Both secrets should be at least
// 32 bytes of random data in production; 16 is the enforced floor.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(accessSecret) < 16 || len(refreshSecret) < 16 {
		return nil, errors.New("auth: JWT secrets must be at least 16 characters")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccess creates a signed access token for the identity, expiring after
// the configured access lifetime.
func (s *TokenService) IssueAccess(id Identity) (string, error) {
	return s.issue(id, s.accessSecret, s.accessTTL)
}

// IssueAccessWithExpiry creates an access token with a caller-chosen
// lifetime in minutes, overriding the configured default.
func (s *TokenService) IssueAccessWithExpiry(id Identity, minutes int) (string, error) {
	return s.issue(id, s.accessSecret, time.Duration(minutes)*time.Minute)
}

// IssueRefresh creates a signed refresh token for the identity, expiring
// after the configured refresh lifetime.
func (s *TokenService) IssueRefresh(id Identity) (string, error) {
	return s.issue(id, s.refreshSecret, s.refreshTTL)
}

// IssueRefreshWithExpiry creates a refresh token with a caller-chosen
// lifetime in minutes.
func (s *TokenService) IssueRefreshWithExpiry(id Identity, minutes int) (string, error) {
	return s.issue(id, s.refreshSecret, time.Duration(minutes)*time.Minute)
}

func (s *TokenService) issue(id Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		UserID: id.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// VerifyAccess verifies an access token and returns its identity.
// Every failure (bad signature, wrong key, expired, missing subject)
// returns the same InvalidCredential error, deliberately not revealing
// which check failed.
func (s *TokenService) VerifyAccess(tokenStr string) (Identity, error) {
	return verify(tokenStr, s.accessSecret)
}

// VerifyRefresh verifies a refresh token and returns its identity. Failure
// semantics match VerifyAccess.
func (s *TokenService) VerifyRefresh(tokenStr string) (Identity, error) {
	return verify(tokenStr, s.refreshSecret)
}

func verify(tokenStr string, secret []byte) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, apperror.InvalidCredential()
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return Identity{}, apperror.InvalidCredential()
	}

	return Identity{UserID: c.UserID, Username: c.Subject}, nil
}

// RefreshAccess verifies a refresh token and mints a fresh access token for
// the same identity. The current access token plays no part; an expired one
// is exactly the case this exists for.
func (s *TokenService) RefreshAccess(refreshToken string) (string, error) {
	id, err := s.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	return s.IssueAccess(id)
}
