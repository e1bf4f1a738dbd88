package store

import (
	"context"
	"testing"
	"time"

	"github.com/yzlim/campuspantry/internal/db"
)

func TestTokenRevocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "some-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("unknown JTI should not be revoked")
	}

	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err = IsTokenRevoked(ctx, database, "some-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("revoked JTI should be reported as revoked")
	}

	// Revoking the same JTI twice is a no-op.
	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken (twice): %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := RevokeToken(ctx, database, "stale-jti", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	// The next revocation sweeps expired entries out.
	if err := RevokeToken(ctx, database, "fresh-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	stale, err := IsTokenRevoked(ctx, database, "stale-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if stale {
		t.Error("expired revocation should have been cleaned up")
	}
}
