package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/scoutdeskhq/scoutdesk-backend/api/responses"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/config"
	pkgerrors "github.com/scoutdeskhq/scoutdesk-backend/pkg/errors"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ScoutDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks every backing dependency. A nil pinger is reported as
// skipped so partial deployments stay observable.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis, storage, pubsub pinger) http.HandlerFunc {
	deps := map[string]pinger{
		"db":      db,
		"redis":   redis,
		"storage": storage,
		"pubsub":  pubsub,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ScoutDesk-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency check failed").WithDetails(checks)
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
