package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwalitptl/scheduler-api/config"
	bookingHandler "github.com/jwalitptl/scheduler-api/internal/handler/booking"
	"github.com/jwalitptl/scheduler-api/internal/handler/health"
	scheduleHandler "github.com/jwalitptl/scheduler-api/internal/handler/schedule"
	"github.com/jwalitptl/scheduler-api/internal/middleware"
	"github.com/jwalitptl/scheduler-api/internal/repository/postgres"
	"github.com/jwalitptl/scheduler-api/internal/router"
	bookingService "github.com/jwalitptl/scheduler-api/internal/service/booking"
	patientService "github.com/jwalitptl/scheduler-api/internal/service/patient"
	rosterService "github.com/jwalitptl/scheduler-api/internal/service/roster"
	scheduleService "github.com/jwalitptl/scheduler-api/internal/service/schedule"
	staffService "github.com/jwalitptl/scheduler-api/internal/service/staff"
	"github.com/jwalitptl/scheduler-api/pkg/logger"
	"github.com/jwalitptl/scheduler-api/pkg/messaging"
	redisBroker "github.com/jwalitptl/scheduler-api/pkg/messaging/redis"
	"github.com/jwalitptl/scheduler-api/pkg/metrics"
)

func main() {
	appLogger := logger.NewLogger(nil)
	zl := appLogger.Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Booking events are fire-and-forget; a missing broker degrades to
	// logging only.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, zl)
		if err != nil {
			zl.Warn().Err(err).Msg("redis unavailable, booking events disabled")
			broker = nil
		} else {
			defer broker.Close()
		}
	}

	m := metrics.NewMetrics("scheduler", "engine")

	// Repositories
	scheduleRepo := postgres.NewScheduleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	patientRepo := postgres.NewPatientRepository(db)

	// Services
	staffSvc := staffService.NewService(staffRepo)
	patientSvc := patientService.NewService(patientRepo)
	builder := scheduleService.NewBuilder(scheduleRepo)
	scheduleSvc := scheduleService.NewService(scheduleRepo, builder, m, *zl)
	rosterSvc := rosterService.NewService(scheduleRepo, staffSvc)
	bookingSvc := bookingService.NewService(
		scheduleRepo, bookingRepo, staffSvc, patientSvc, broker, m, *zl)

	// Router and handlers
	r := router.NewRouter(router.Config{
		RateLimitRPS:   rateLimitRPS(cfg),
		RateLimitBurst: cfg.RateLimit.Burst,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORS:           middleware.DefaultCORSConfig(),
		MetricsPrefix:  "scheduler",
	})
	r.Register(
		scheduleHandler.NewHandler(scheduleSvc, rosterSvc),
		bookingHandler.NewHandler(bookingSvc),
	)
	health.NewHandler(db).RegisterRoutes(r.Engine())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		zl.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}

func rateLimitRPS(cfg *config.Config) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RequestsPerSecond
}
