package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/golang-jwt/jwt/v5"
)

type mockStore struct {
	mu   sync.Mutex
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[tokenID] = ttl
	return nil
}

func (m *mockStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ttls[tokenID]
	return ok, nil
}

func claimsExpiring(id string, at time.Time) *auth.AccessTokenClaims {
	return &auth.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: id, ExpiresAt: jwt.NewNumericDate(at)},
	}
}

func TestRevokeUsesRemainingLifetime(t *testing.T) {
	store := newMockStore()
	rev, err := NewRevoker(store)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rev.now = func() time.Time { return now }

	if err := rev.Revoke(context.Background(), claimsExpiring("jti-1", now.Add(2*time.Hour))); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if got := store.ttls["jti-1"]; got != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", got)
	}

	revoked, err := rev.IsRevoked(context.Background(), "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got %v %v", revoked, err)
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	store := newMockStore()
	rev, _ := NewRevoker(store)
	now := time.Now()
	rev.now = func() time.Time { return now }

	if err := rev.Revoke(context.Background(), claimsExpiring("old", now.Add(-time.Minute))); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(store.ttls) != 0 {
		t.Fatalf("expired tokens should not be stored")
	}
}

func TestRevokeValidation(t *testing.T) {
	rev, _ := NewRevoker(newMockStore())
	if err := rev.Revoke(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil claims")
	}
	if err := rev.Revoke(context.Background(), &auth.AccessTokenClaims{RegisteredClaims: jwt.RegisteredClaims{ID: "x"}}); err == nil {
		t.Fatalf("expected error for missing expiry")
	}
	if _, err := rev.IsRevoked(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank token id")
	}
	if _, err := NewRevoker(nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
