package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of access token claims shown to the user
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseClaims decodes the access token payload without verifying its
// signature. The client holds no key; the backend remains the authority.
func ParseClaims(token string) (*TokenClaims, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}

	tc := &TokenClaims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, nil
}

// ExpiresAt returns the token expiry, or zero when it cannot be determined
func (s *Session) ExpiresAt() time.Time {
	if s == nil || s.AccessToken == "" {
		return time.Time{}
	}
	claims, err := ParseClaims(s.AccessToken)
	if err != nil {
		return time.Time{}
	}
	return claims.ExpiresAt
}
