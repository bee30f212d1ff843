package security

import (
	"context"
	"testing"
	"time"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
)

func TestTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", "auth-api", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenIssuer("   ", "auth-api", time.Minute); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "auth-api", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	user := domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}
	signed, err := issuer.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
	if claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Fatalf("identity claims missing: %+v", claims)
	}
	if claims.Issuer != "auth-api" {
		t.Fatalf("unexpected issuer: %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be assigned")
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "auth-api", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	if _, err := issuer.Issue(context.Background(), domain.User{Username: "alice"}); err == nil {
		t.Fatalf("expected error for user without id")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-a", "auth-api", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	other, err := NewTokenIssuer("secret-b", "auth-api", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	signed, err := issuer.Issue(context.Background(), domain.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := other.Parse(signed); err == nil {
		t.Fatalf("token signed with another secret must not parse")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "auth-api", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	issuer.WithClock(func() time.Time {
		return time.Now().Add(-time.Hour)
	})

	signed, err := issuer.Issue(context.Background(), domain.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := issuer.Parse(signed); err == nil {
		t.Fatalf("expired token must not parse")
	}
}

func TestIssueExpirySpansTTL(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", "auth-api", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	signed, err := issuer.Issue(context.Background(), domain.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != 30*time.Minute {
		t.Fatalf("expected 30m lifetime, got %v", ttl)
	}
}
