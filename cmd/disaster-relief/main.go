package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-disaster-relief/internal/api"
	"github.com/mr1hm/go-disaster-relief/internal/config"
	"github.com/mr1hm/go-disaster-relief/internal/dispatch"
	internalgrpc "github.com/mr1hm/go-disaster-relief/internal/grpc"
	"github.com/mr1hm/go-disaster-relief/internal/ingestion"
	"github.com/mr1hm/go-disaster-relief/internal/logging"
	"github.com/mr1hm/go-disaster-relief/internal/mailer"
	"github.com/mr1hm/go-disaster-relief/internal/repository"
	"github.com/mr1hm/go-disaster-relief/internal/zipmap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	zips := zipmap.NewDefault()
	if cfg.Dispatch.ZipTablePath != "" {
		if zips, err = zipmap.LoadTable(cfg.Dispatch.ZipTablePath); err != nil {
			logging.Fatalf("Failed to load zip table: %v", err)
		}
	}
	slog.Info("zip table loaded", "entries", zips.Len())

	if cfg.Mail.APIKey == "" {
		slog.Warn("MAIL_API_KEY not set, ingestion and simulations will fail until it is configured")
	}
	mail := mailer.NewClient(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.From)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dispatch events fan out to gRPC stream subscribers
	broadcaster := internalgrpc.NewBroadcaster()

	dispatcher := dispatch.NewDispatcher(db, mail, dispatch.Options{
		RateLimitWindow: cfg.Dispatch.RateLimitWindow,
		PayoutAmount:    cfg.Dispatch.PayoutAmount,
		Concurrency:     cfg.Dispatch.Concurrency,
		Publisher:       broadcaster,
	})

	feed := ingestion.NewFeedClient(cfg.Feed.URL, cfg.Feed.UserAgent)
	ingester := ingestion.NewIngester(feed, db, zips, dispatcher)

	mgr := ingestion.NewManager(cfg.Feed, ingester)
	if err := mgr.Start(ctx); err != nil {
		logging.Fatalf("Failed to start ingestion scheduler: %v", err)
	}

	grpcServer := internalgrpc.NewServer(db, broadcaster)
	go func() {
		grpcAddr := fmt.Sprintf(":%d", cfg.GRPC.Port)
		if err := grpcServer.Start(grpcAddr); err != nil {
			logging.Fatalf("gRPC server error: %v", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	handler := api.NewHandler(ingester, dispatcher, db, db, zips)
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()
	broadcaster.Close() // Close all streams gracefully
	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
