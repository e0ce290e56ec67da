package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

func idempotentRouter(t *testing.T, status int, calls *int32) http.Handler {
	t.Helper()
	store, _ := newRedis(t)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := Identity{ID: 1, Role: enums.UserRoleUser}
			if r.Header.Get("X-Test-User") == "2" {
				id.ID = 2
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	})
	r.With(Idempotency(store, time.Hour, nil)).Post("/api/orders/create", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"orderId": n})
	})
	return r
}

func postOrder(h http.Handler, key, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/create", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	var calls int32
	h := idempotentRouter(t, http.StatusCreated, &calls)

	first := postOrder(h, "abc", `{"totalAmount":1}`, "")
	second := postOrder(h, "abc", `{"totalAmount":1}`, "")

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", first.Code, second.Code)
	}
	if calls != 1 {
		t.Fatalf("handler should run once, ran %d times", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %s vs %s", first.Body.String(), second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatal("expected replay marker header")
	}
	if ct := second.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type replayed, got %q", ct)
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	var calls int32
	h := idempotentRouter(t, http.StatusCreated, &calls)

	postOrder(h, "abc", `{"totalAmount":1}`, "")
	rec := postOrder(h, "abc", `{"totalAmount":2}`, "")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body types.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("unexpected code %s", body.Code)
	}
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	var calls int32
	h := idempotentRouter(t, http.StatusCreated, &calls)

	postOrder(h, "", `{}`, "")
	postOrder(h, "", `{}`, "")
	if calls != 2 {
		t.Fatalf("expected both requests to reach handler, got %d", calls)
	}
}

func TestIdempotencyKeysAreScopedPerUser(t *testing.T) {
	var calls int32
	h := idempotentRouter(t, http.StatusCreated, &calls)

	postOrder(h, "shared", `{}`, "")
	postOrder(h, "shared", `{}`, "2")
	if calls != 2 {
		t.Fatalf("different users must not share keys, handler ran %d times", calls)
	}
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	var calls int32
	h := idempotentRouter(t, http.StatusInternalServerError, &calls)

	postOrder(h, "retry-me", `{}`, "")
	postOrder(h, "retry-me", `{}`, "")
	if calls != 2 {
		t.Fatalf("5xx responses must not be replayed, handler ran %d times", calls)
	}
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	store, _ := newRedis(t)
	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Identity{ID: 1, Role: enums.UserRoleUser})))
		})
	})
	r.With(Idempotency(store, time.Hour, nil)).Post("/api/orders/create", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-release
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"orderId":1}`))
	})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- postOrder(r, "slow", `{"totalAmount":1}`, "") }()
	<-entered

	dup := postOrder(r, "slow", `{"totalAmount":1}`, "")
	if dup.Code != http.StatusConflict {
		t.Fatalf("expected 409 while the first request is in flight, got %d", dup.Code)
	}
	var body types.ErrorBody
	if err := json.NewDecoder(dup.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("unexpected code %s", body.Code)
	}

	close(release)
	if first := <-done; first.Code != http.StatusCreated {
		t.Fatalf("expected first request to succeed, got %d", first.Code)
	}

	replay := postOrder(r, "slow", `{"totalAmount":1}`, "")
	if replay.Code != http.StatusCreated || replay.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay after completion, got %d", replay.Code)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("handler should run once, ran %d times", n)
	}
}

func TestIdempotencyRejectsOversizedKey(t *testing.T) {
	var calls int32
	h := idempotentRouter(t, http.StatusCreated, &calls)

	rec := postOrder(h, strings.Repeat("k", maxIdempotencyKeyLen+1), `{}`, "")
	if rec.Code != http.StatusBadRequest || calls != 0 {
		t.Fatalf("expected 400 without handler call, got %d calls=%d", rec.Code, calls)
	}
}

func TestBuildScopeUsesRoutePattern(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/create", nil)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{"/api/orders/create"}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = WithIdentity(ctx, Identity{ID: 9})
	if got := buildScope(req.WithContext(ctx)); got != "9|POST|/api/orders/create" {
		t.Fatalf("unexpected scope %q", got)
	}
}
