package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
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

// Dependencies carries everything the router mounts. Redis, Revocations,
// HTTPMetrics and Gatherer are optional.
type Dependencies struct {
	DB          db.Pinger
	Redis       *redis.Client
	Revocations session.RevocationChecker
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth     auth.Service
	Users    users.Service
	Products products.Service
	Cart     cart.Service
	Orders   orders.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	pingers := map[string]db.Pinger{"db": deps.DB}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, pingers, logg))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	loginLimit, registerLimit := authRateLimits(cfg, deps.Redis, logg)
	requireAuth := middleware.Auth(cfg.JWT, deps.Revocations, logg)
	limiter := middleware.NewRateLimiter(cfg.APIRateLimit.RequestsPerSecond, cfg.APIRateLimit.Burst, logg)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimit).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.With(loginLimit).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(requireAuth).Get("/profile", controllers.AuthProfile(deps.Auth, logg))
			r.With(requireAuth).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", controllers.UserProfile(deps.Users, logg))
			r.Put("/profile", controllers.UserUpdateProfile(deps.Users, logg))
			r.Put("/change-password", controllers.UserChangePassword(deps.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/categories/list", controllers.ProductCategories(deps.Products, logg))
			r.Get("/{id}", controllers.ProductDetail(deps.Products, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin(logg))
				r.Post("/", controllers.ProductCreate(deps.Products, logg))
				r.Put("/{id}", controllers.ProductUpdate(deps.Products, logg))
				r.Delete("/{id}", controllers.ProductDelete(deps.Products, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/add", controllers.CartAdd(deps.Cart, logg))
			r.Put("/update/{productId}", controllers.CartUpdate(deps.Cart, logg))
			r.Delete("/remove/{productId}", controllers.CartRemove(deps.Cart, logg))
			r.Delete("/clear", controllers.CartClear(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.With(checkoutIdempotency(cfg, deps.Redis, logg)).Post("/create", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{id}", controllers.OrderDetail(deps.Orders, logg))
		})
	})

	return r
}

func authRateLimits(cfg *config.Config, redisClient *redis.Client, logg *logger.Logger) (login, register func(http.Handler) http.Handler) {
	if redisClient == nil {
		return passthrough, passthrough
	}
	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	return middleware.AuthRateLimit(loginPolicy, redisClient, logg), middleware.AuthRateLimit(registerPolicy, redisClient, logg)
}

func checkoutIdempotency(cfg *config.Config, redisClient *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if redisClient == nil {
		return passthrough
	}
	return middleware.Idempotency(redisClient, cfg.Checkout.IdempotencyTTL, logg)
}

func passthrough(next http.Handler) http.Handler { return next }
