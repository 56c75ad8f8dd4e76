package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewTokenAuth("secret")

	token, err := auth.Issue("Alice", RankAdmin, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := auth.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Subject != "Alice" || claims.Rank != RankAdmin {
		t.Errorf("Expected Alice rank 1, got %s rank %d", claims.Subject, claims.Rank)
	}
}

func TestTokenRejections(t *testing.T) {
	auth := NewTokenAuth("secret")
	other := NewTokenAuth("other")

	forged, _ := other.Issue("Mallory", RankAdmin, time.Hour)
	if _, err := auth.Validate(forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong signature, got %v", err)
	}

	expired, _ := auth.Issue("Alice", 0, -time.Minute)
	if _, err := auth.Validate(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := auth.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestAuthDisabled(t *testing.T) {
	auth := NewTokenAuth("")
	if auth.Enabled() {
		t.Error("Expected empty secret to disable tokens")
	}
	if _, err := auth.Issue("Alice", 0, time.Hour); !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("Expected ErrAuthDisabled, got %v", err)
	}
	if _, err := auth.Validate("x"); !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("Expected ErrAuthDisabled, got %v", err)
	}
}

func TestRequireRank(t *testing.T) {
	auth := NewTokenAuth("secret")
	admin, _ := auth.Issue("Admin", RankAdmin, time.Hour)
	player, _ := auth.Issue("Player", 0, time.Hour)

	handler := auth.RequireRank(RankAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Subject != "Admin" {
			t.Error("Expected claims in request context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"invalid", "Bearer nope", "", http.StatusUnauthorized},
		{"low rank", "Bearer " + player, "", http.StatusForbidden},
		{"admin header", "Bearer " + admin, "", http.StatusNoContent},
		{"admin query", "", "?token=" + admin, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/system-message"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
