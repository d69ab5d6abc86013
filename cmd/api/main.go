package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quyetngv/bds-backend/api/controllers"
	"github.com/quyetngv/bds-backend/api/routes"
	"github.com/quyetngv/bds-backend/internal/groups"
	"github.com/quyetngv/bds-backend/internal/images"
	"github.com/quyetngv/bds-backend/internal/properties"
	"github.com/quyetngv/bds-backend/internal/publish"
	"github.com/quyetngv/bds-backend/pkg/config"
	"github.com/quyetngv/bds-backend/pkg/db"
	"github.com/quyetngv/bds-backend/pkg/facebook"
	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/metrics"
	"github.com/quyetngv/bds-backend/pkg/migrate"
	"github.com/quyetngv/bds-backend/pkg/outbox"
	pkgredis "github.com/quyetngv/bds-backend/pkg/redis"
	"github.com/quyetngv/bds-backend/pkg/storage/s3"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{"db": dbClient}

	// Redis is optional: without it publish replay protection degrades to
	// the fire-twice behavior instead of refusing to boot.
	var redisStore pkgredis.IdempotencyStore
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisStore = redisClient
		readiness["redis"] = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, publish idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	publishMetrics := metrics.NewPublishMetrics(registry)

	s3Client, err := s3.NewClient(context.Background(), cfg.S3, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to configure s3 presigner", err)
		os.Exit(1)
	}

	fbClient := facebook.NewClient(context.Background(), cfg.Facebook, logg)

	propertyService, err := properties.NewService(properties.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create property service", err)
		os.Exit(1)
	}

	imageService, err := images.NewService(images.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create image service", err)
		os.Exit(1)
	}

	groupService, err := groups.NewService(groups.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create group service", err)
		os.Exit(1)
	}

	publishService, err := publish.NewService(
		dbClient,
		publish.NewRepository(dbClient.DB()),
		publish.NewDispatcher(fbClient, publishMetrics, logg),
		outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		propertyService,
		groupService,
		cfg.Publish,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create publish service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"publish_mode": cfg.Publish.Mode,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Readiness:   readiness,
			Redis:       redisStore,
			S3:          s3Client,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
			Properties:  propertyService,
			Images:      imageService,
			Groups:      groupService,
			Publish:     publishService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
