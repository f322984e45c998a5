package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/geosense/measurement-api/internal/cache"
	"github.com/geosense/measurement-api/internal/config"
	httpdelivery "github.com/geosense/measurement-api/internal/delivery/http"
	"github.com/geosense/measurement-api/internal/domain"
	"github.com/geosense/measurement-api/internal/repository/memory"
	"github.com/geosense/measurement-api/internal/repository/postgres"
	"github.com/geosense/measurement-api/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Database connection, falling back to the in-memory store.
	var repo domain.DataRepository
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("could not connect to database, using in-memory store")
			repo = memory.NewRepository()
		} else {
			defer pool.Close()
			log.Info().Msg("connected to PostgreSQL")
			repo = postgres.NewRepository(pool)
		}
	} else {
		log.Info().Msg("no DATABASE_URL configured, using in-memory store")
		repo = memory.NewRepository()
	}

	// Dependency injection.
	responseCache := cache.New(cfg.CacheTTL)
	querySvc := service.NewQueryService(repo, responseCache)
	ingestSvc := service.NewIngestionService(repo)
	providerSvc := service.NewProviderService(repo)

	var weather *service.OpenWeatherClient
	if cfg.OpenWeatherAPIKey != "" {
		weather = service.NewOpenWeatherClient(&http.Client{Timeout: 10 * time.Second}, cfg.OpenWeatherAPIKey)
	}

	app := fiber.New(fiber.Config{
		AppName:               "measurement-api",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          httpdelivery.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	handler := httpdelivery.NewHandler(querySvc, ingestSvc, providerSvc, weather, repo)
	httpdelivery.SetupRoutes(app, handler, providerSvc)

	// Demo mode: seed synthetic measurements on a schedule.
	if cfg.DemoMode && weather != nil {
		seeder := service.NewDemoSeeder(providerSvc, ingestSvc, weather, cfg.DemoSeedInterval)
		if err := seeder.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start demo seeder")
		}
		defer seeder.Stop()
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
