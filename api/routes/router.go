package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scoutdeskhq/scoutdesk-backend/api/controllers"
	"github.com/scoutdeskhq/scoutdesk-backend/api/middleware"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/deletion"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/moderation"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/config"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/pubsub"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/redis"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/storage/supabase"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	storageClient supabase.Pinger,
	pubsubClient *pubsub.Client,
	moderationService *moderation.Service,
	deletionService *deletion.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, storageClient, pubsubClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/admin/v1/media", func(r chi.Router) {
		r.Use(middleware.Actor(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/", controllers.MediaList(moderationService, logg))
		r.Post("/refresh", controllers.MediaRefresh(moderationService, logg))
		r.Get("/storage-report", controllers.MediaStorageReport(moderationService, logg))
		r.Post("/bulk-delete", controllers.MediaBulkDelete(deletionService, logg))
		r.Route("/{mediaId}", func(r chi.Router) {
			r.Post("/transition", controllers.MediaTransition(moderationService, logg))
			r.Delete("/", controllers.MediaDelete(deletionService, logg))
			r.Get("/audit", controllers.MediaAudit(moderationService, logg))
		})
	})

	return r
}
