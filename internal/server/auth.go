package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature or claim checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrAuthDisabled is returned when no signing secret is configured
	ErrAuthDisabled = errors.New("player tokens are disabled")
)

// RankAdmin is the rank needed for /announce and the system message API
const RankAdmin = 1

// Claims carried by a player token. Subject is the player name.
type Claims struct {
	Rank int `json:"rank"`
	jwt.RegisteredClaims
}

// TokenAuth issues and validates HS256 player tokens
type TokenAuth struct {
	secret []byte
	now    func() time.Time
}

// NewTokenAuth creates a validator; an empty secret disables tokens
func NewTokenAuth(secret string) *TokenAuth {
	return &TokenAuth{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether a signing secret is configured
func (a *TokenAuth) Enabled() bool {
	return a != nil && len(a.secret) > 0
}

// Issue signs a token for name with the given rank
func (a *TokenAuth) Issue(name string, rank int, ttl time.Duration) (string, error) {
	if !a.Enabled() {
		return "", ErrAuthDisabled
	}

	now := a.now()
	claims := Claims{
		Rank: rank,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token
func (a *TokenAuth) Validate(tokenString string) (*Claims, error) {
	if !a.Enabled() {
		return nil, ErrAuthDisabled
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext returns the claims stored by RequireRank
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// RequireRank is HTTP middleware accepting a bearer token (or ?token=) with at least minRank
func (a *TokenAuth) RequireRank(minRank int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ""

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}
			if tokenString == "" {
				tokenString = r.URL.Query().Get("token")
			}
			if tokenString == "" {
				http.Error(w, "Missing authentication token", http.StatusUnauthorized)
				return
			}

			claims, err := a.Validate(tokenString)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			if claims.Rank < minRank {
				http.Error(w, "Insufficient rank", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
