// Package sessiontoken signs and verifies the access tokens handed to
// clients for a session. A token carries the session handle; the session
// store stays the source of truth for revocation and the owning user.
package sessiontoken

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Manager handles HS256 access token generation and validation.
type Manager struct {
	secret []byte
	issuer string
}

// NewManager creates a new token manager.
// secret must be at least 32 characters for HS256 security.
func NewManager(secret, issuer string) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer}
}

// accessClaims extends standard JWT claims with the login method that
// opened the session.
type accessClaims struct {
	jwt.RegisteredClaims
	RecipeUserID string `json:"rid,omitempty"`
}

// Issue signs an access token for sess. It expires with the session.
func (m *Manager) Issue(sess *domain.Session) (string, error) {
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.Handle,
			Subject:   sess.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		RecipeUserID: sess.RecipeUserID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates an access token and returns the session handle it
// carries. Every failure wraps domain.ErrUnauthorized.
func (m *Manager) Parse(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", errors.Join(domain.ErrUnauthorized, fmt.Errorf("parse token: %w", err))
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return "", fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	return claims.ID, nil
}
