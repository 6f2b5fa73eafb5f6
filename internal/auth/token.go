// Package auth issues and verifies the signed tokens that authenticate API
// requests and push-channel connections. A token is scoped to one user and
// one tenant for its whole lifetime.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by every token.
type Claims struct {
	UserID   int64 `json:"userId"`
	TenantID int64 `json:"tenantId"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens constructs a Tokens signer/verifier. The secret must be shared by
// every instance that needs to verify tokens; ttl bounds token lifetime.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

// Issue signs a token for the given user within the given tenant.
func (t *Tokens) Issue(userID, tenantID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "macaria",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Tokens.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token, returning its claims.
// Expired, malformed, or wrongly-signed tokens all fail verification.
func (t *Tokens) Verify(signed string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return t.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("auth.Tokens.Verify: %w", err)
	}
	return claims, nil
}
