package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Options holds the clients cmd/api opens before building the handler.
// Redis and Registry may be nil.
type Options struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Registry *prometheus.Registry
}

// NewHandler wires repositories and services and returns the HTTP handler
// that cmd/api serves.
func NewHandler(opts Options) (http.Handler, error) {
	cfg, logg, dbClient := opts.Config, opts.Logger, opts.DB
	if cfg == nil || dbClient == nil {
		return nil, fmt.Errorf("config and database client are required")
	}

	deps := routes.Dependencies{DB: dbClient, Redis: opts.Redis}

	var checkoutMetrics *metrics.CheckoutMetrics
	if opts.Registry != nil {
		deps.HTTPMetrics = metrics.NewHTTPMetrics(opts.Registry)
		deps.Gatherer = opts.Registry
		checkoutMetrics = metrics.NewCheckoutMetrics(opts.Registry)
	}

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	authParams := auth.ServiceParams{
		DB:             dbClient,
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	}
	if opts.Redis != nil {
		revoker, err := session.NewRevoker(opts.Redis)
		if err != nil {
			return nil, fmt.Errorf("build token revoker: %w", err)
		}
		authParams.Revoker = revoker
		deps.Revocations = revoker
	}

	var err error
	if deps.Auth, err = auth.NewService(authParams); err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}
	if deps.Users, err = users.NewService(users.ServiceParams{Repo: userRepo, PasswordConfig: cfg.Password}); err != nil {
		return nil, fmt.Errorf("build users service: %w", err)
	}
	if deps.Products, err = products.NewService(productRepo); err != nil {
		return nil, fmt.Errorf("build products service: %w", err)
	}
	if deps.Cart, err = cart.NewService(cart.ServiceParams{
		Repo:     cart.NewRepository(dbClient.DB()),
		Products: productRepo,
	}); err != nil {
		return nil, fmt.Errorf("build cart service: %w", err)
	}
	if deps.Orders, err = orders.NewService(orders.ServiceParams{
		DB:      dbClient,
		Repo:    orders.NewRepository(dbClient.DB()),
		Metrics: checkoutMetrics,
		Logger:  logg,
	}); err != nil {
		return nil, fmt.Errorf("build orders service: %w", err)
	}

	return routes.NewRouter(cfg, logg, deps), nil
}
