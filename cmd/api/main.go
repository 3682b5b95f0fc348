package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/adapters/cache"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/adapters/database"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/handlers"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/routes"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/application/services"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/providers"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/infrastructure/clients/postgres"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/infrastructure/clients/redis"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/infrastructure/observability"
	"github.com/willianOliveira-dev/barber-app-sub000/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.App.ServiceName, cfg.App.Environment)

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize postgres client")
	}
	defer pgClient.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.Migrate(migrateCtx); err != nil {
		migrateCancel()
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	migrateCancel()

	// Initialize Redis client. The service works without it, review stats
	// just lose their cache.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	shopAdapter := database.NewShopAdapter(pgClient)
	serviceAdapter := database.NewServiceAdapter(pgClient)
	businessHourAdapter := database.NewBusinessHourAdapter(pgClient)
	bookingAdapter := database.NewBookingAdapter(pgClient)

	var reviewAdapter repositories.ReviewRepository = database.NewReviewAdapter(pgClient)
	if cacheProvider != nil {
		reviewAdapter = database.NewCachedReviewAdapter(reviewAdapter, cacheProvider)
	}

	// Initialize services
	availabilityService := services.NewAvailabilityService(
		shopAdapter,
		serviceAdapter,
		businessHourAdapter,
		bookingAdapter,
	)
	bookingService := services.NewBookingService(
		bookingAdapter,
		shopAdapter,
		serviceAdapter,
		businessHourAdapter,
	)
	reviewService := services.NewReviewService(
		reviewAdapter,
		bookingAdapter,
		shopAdapter,
	)

	// Initialize handlers and routes
	router := routes.NewRouter(
		handlers.NewAvailabilityHandler(availabilityService),
		handlers.NewBookingHandler(bookingService),
		handlers.NewReviewHandler(reviewService),
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
