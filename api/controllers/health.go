package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency; any failure yields 503.
func HealthReady(cfg *config.Config, deps map[string]db.Pinger, logg *logger.Logger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := readinessResponse{Status: "ready", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				resp.Status = "unavailable"
				resp.Checks[name] = "down"
				if logg != nil {
					logCtx := logg.WithFields(r.Context(), map[string]any{"dependency": name, "error": err.Error()})
					logg.Warn(logCtx, "health.dependency_down")
				}
				continue
			}
			resp.Checks[name] = "up"
		}

		if resp.Status != "ready" {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
