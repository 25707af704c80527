package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a malformed, expired or revoked session token.
var ErrInvalidToken = errors.New("invalid token")

// AuthConfig contains session token settings.
type AuthConfig struct {
	SecretKey           string
	AccessTokenDuration time.Duration
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates JWT session tokens. Validation
// re-resolves the user against the store so deletions and role changes
// take effect on the next request.
type Authenticator struct {
	secret   []byte
	tokenTTL time.Duration
	store    *store.Store
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(cfg AuthConfig, st *store.Store) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.SecretKey),
		tokenTTL: cfg.AccessTokenDuration,
		store:    st,
	}
}

// IssueToken creates a signed session token for the user.
func (a *Authenticator) IssueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry, then resolves the
// subject against the current user set. The role is read from the live
// user record, not the token, so demotions apply immediately.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	user, ok := a.store.FindUser(claims.Subject)
	if !ok {
		return "", "", ErrInvalidToken
	}

	return user.ID, user.Role, nil
}
