// Package server boots every subsystem and runs the HTTP front end.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/vastra/app/hub"
	"github.com/shashiranjanraj/vastra/app/reports"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/routes"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	grpcserver "github.com/shashiranjanraj/vastra/pkg/grpc"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"github.com/shashiranjanraj/vastra/pkg/reqid"
	"github.com/shashiranjanraj/vastra/pkg/router"
	"github.com/shashiranjanraj/vastra/pkg/schedule"
	"github.com/shashiranjanraj/vastra/pkg/storage"
	"github.com/shashiranjanraj/vastra/pkg/workerpool"
)

// heartbeatPoolSize bounds concurrent keepalive writes.
const heartbeatPoolSize = 64

// Start boots config, storage, cache, queue workers, the scheduler, the gRPC
// health server and the HTTP API, then blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		if _, err := logger.AttachMongo(uri, config.LogMongoDatabase(), config.LogMongoCollection()); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// Redis is optional: stats fall back to the database and the
		// queue falls back to the in-memory driver.
		logger.Warn("redis unavailable, continuing without cache", "error", err)
	}
	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Queue: redis-backed when the cache connection is live.
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)
	queue.StartWorkers(ctx, 4)

	// Hub with a bounded pool for heartbeat fan-out.
	pool := workerpool.New(heartbeatPoolSize)
	defer pool.Shutdown()
	h := hub.New(pool)

	orderRepo := repositories.NewOrderRepository(database.DB)
	schedule.Every(int(config.StreamHeartbeat().Seconds())).Seconds().
		Name("hub.heartbeat").
		Run(h.Heartbeat)
	schedule.Daily().
		Name("reports.daily_orders").
		WithoutOverlapping().
		Run(func() {
			if err := reports.DailyOrders(context.Background(), orderRepo); err != nil {
				logger.Error("daily report failed", "error", err)
			}
		})
	schedule.Start(ctx)

	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		logger.Warn("grpc server failed to start", "error", err)
	} else {
		defer grpcserver.Stop(grpcSrv)
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	r.HandleFunc("/metrics", metrics.Handler().ServeHTTP)
	routes.RegisterAPI(r, database.DB, h)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
