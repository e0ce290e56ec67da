// Package apitest boots the full HTTP stack against in-memory SQLite and
// miniredis for end-to-end tests.
package apitest

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-backend/api"
	"github.com/angelmondragon/storefront-backend/internal/testutil"
	pkgAuth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Server is a running test instance.
type Server struct {
	*httptest.Server
	Config *config.Config
	DB     *db.Client
	Redis  *redis.Client
	Mini   *miniredis.Miniredis
}

type settings struct {
	withRedis bool
}

type Option func(*settings)

// WithoutRedis boots the stack with no Redis, disabling revocation,
// auth rate limits and idempotency.
func WithoutRedis() Option {
	return func(s *settings) { s.withRedis = false }
}

// Config returns a configuration suited to tests: cheap Argon2 parameters,
// no API rate limit and metrics enabled.
func Config() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		DB:  config.DBConfig{Driver: config.DBDriverSQLite},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "storefront-test",
			ExpirationMinutes: 10080,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    64,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginEmailLimit:    50,
			LoginIPLimit:       100,
			RegisterWindow:     time.Minute,
			RegisterEmailLimit: 50,
			RegisterIPLimit:    100,
		},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Checkout: config.CheckoutConfig{IdempotencyTTL: time.Hour},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

// NewServer starts the API and registers cleanup on t.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := settings{withRedis: true}
	for _, opt := range opts {
		opt(&s)
	}

	cfg := Config()
	logg := logger.New(logger.Options{ServiceName: "apitest", Level: logger.ParseLevel("error"), Output: io.Discard})
	client := testutil.OpenSQLite(t)

	srv := &Server{Config: cfg, DB: client}
	if s.withRedis {
		srv.Mini = miniredis.RunT(t)
		rc, err := redis.New(context.Background(), config.RedisConfig{Address: srv.Mini.Addr()}, logg)
		if err != nil {
			t.Fatalf("redis: %v", err)
		}
		t.Cleanup(func() { _ = rc.Close() })
		srv.Redis = rc
	}

	handler, err := api.NewHandler(api.Options{
		Config:   cfg,
		Logger:   logg,
		DB:       client,
		Redis:    srv.Redis,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	srv.Server = httptest.NewServer(handler)
	t.Cleanup(srv.Server.Close)
	return srv
}

// Token mints a valid access token for user.
func (s *Server) Token(t testing.TB, user *models.User) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(s.Config.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
