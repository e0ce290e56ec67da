package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/auth"
)

type revocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RevocationChecker is the read-only surface needed by the auth middleware.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Revoker tracks logged-out access tokens so they stop authenticating before
// their natural expiry.
type Revoker struct {
	store revocationStore
	now   func() time.Time
}

// NewRevoker constructs a revocation manager backed by Redis.
func NewRevoker(store revocationStore) (*Revoker, error) {
	if store == nil {
		return nil, fmt.Errorf("revocation store is required")
	}
	return &Revoker{store: store, now: time.Now}, nil
}

// Revoke blocks the token until it would have expired anyway.
func (m *Revoker) Revoke(ctx context.Context, claims *auth.AccessTokenClaims) error {
	if claims == nil || strings.TrimSpace(claims.ID) == "" {
		return fmt.Errorf("token id is required")
	}
	if claims.ExpiresAt == nil {
		return fmt.Errorf("token expiry is required")
	}
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.store.Revoke(ctx, claims.ID, ttl)
}

// IsRevoked reports whether the token id was logged out.
func (m *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, fmt.Errorf("token id is required")
	}
	return m.store.IsRevoked(ctx, tokenID)
}
