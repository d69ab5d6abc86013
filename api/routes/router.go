package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quyetngv/bds-backend/api/controllers"
	"github.com/quyetngv/bds-backend/api/middleware"
	"github.com/quyetngv/bds-backend/internal/groups"
	"github.com/quyetngv/bds-backend/internal/images"
	"github.com/quyetngv/bds-backend/internal/properties"
	"github.com/quyetngv/bds-backend/internal/publish"
	"github.com/quyetngv/bds-backend/pkg/config"
	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/metrics"
	pkgredis "github.com/quyetngv/bds-backend/pkg/redis"
	"github.com/quyetngv/bds-backend/pkg/storage/s3"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Readiness   map[string]controllers.Pinger
	Redis       pkgredis.IdempotencyStore
	S3          *s3.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Properties properties.Service
	Images     images.Service
	Groups     groups.Service
	Publish    publish.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Readiness))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Pre-envelope endpoints kept wire-compatible with the existing CRM
	// frontend and automation worker.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, deps.Config.Publish.IdempotencyTTL, deps.Logger))

		r.Post("/s3/presign", controllers.S3Presign(deps.S3, deps.Logger))
		r.Post("/fb/post", controllers.FbPost(deps.Publish, deps.Logger))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/properties", func(r chi.Router) {
				r.Get("/", controllers.PropertyList(deps.Properties, deps.Logger))
				r.Post("/", controllers.PropertyCreate(deps.Properties, deps.Logger))

				r.Route("/{propertyID}", func(r chi.Router) {
					r.Get("/", controllers.PropertyGet(deps.Properties, deps.Logger))
					r.Put("/", controllers.PropertyUpdate(deps.Properties, deps.Logger))
					r.Delete("/", controllers.PropertyDelete(deps.Properties, deps.Logger))
					r.Post("/publish", controllers.PropertyPublish(deps.Publish, deps.Logger))
					r.Get("/publish/history", controllers.PropertyPublishHistory(deps.Publish, deps.Logger))

					r.Route("/images", func(r chi.Router) {
						r.Get("/", controllers.ImageList(deps.Images, deps.Logger))
						r.Post("/", controllers.ImageAppend(deps.Images, deps.Logger))
						r.Post("/{imageID}/primary", controllers.ImageSetPrimary(deps.Images, deps.Logger))
					})
				})
			})

			r.Delete("/images/{imageID}", controllers.ImageDelete(deps.Images, deps.Logger))

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", controllers.GroupList(deps.Groups, deps.Logger))
				r.Post("/", controllers.GroupCreate(deps.Groups, deps.Logger))
				r.Get("/{groupID}", controllers.GroupGet(deps.Groups, deps.Logger))
				r.Put("/{groupID}", controllers.GroupUpdate(deps.Groups, deps.Logger))
				r.Delete("/{groupID}", controllers.GroupDelete(deps.Groups, deps.Logger))
			})

			r.Get("/publish/history", controllers.PublishHistory(deps.Publish, deps.Logger))
		})
	})

	return r
}
