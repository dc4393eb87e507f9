// Command storefront serves the coffee catalog, cart, checkout and voice
// review API.
//
// @title        Cafe Reviews API
// @version      1.0
// @description  Coffee storefront with AI voice reviews.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/MikeMC777/cafe-reviews/docs"
	"github.com/MikeMC777/cafe-reviews/internal/config"
	"github.com/MikeMC777/cafe-reviews/internal/db"
	"github.com/MikeMC777/cafe-reviews/internal/health"
	"github.com/MikeMC777/cafe-reviews/internal/logging"
	"github.com/MikeMC777/cafe-reviews/internal/order"
	"github.com/MikeMC777/cafe-reviews/internal/product"
	"github.com/MikeMC777/cafe-reviews/internal/review"
	"github.com/MikeMC777/cafe-reviews/internal/voice"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, !cfg.Production())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("storefront", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	pool, err := db.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	products := product.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	reviews := review.NewPGRepo(pool)

	checker := health.NewChecker(pool, cfg.HealthInterval, logger.Named("health"))
	go checker.Run(ctx)

	if cfg.RetellAPIKey == "" || cfg.RetellAgentID == "" {
		logger.Warn("voice reviews disabled: RETELL_API_KEY or RETELL_AGENT_ID not set")
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(deps{
		Products: products,
		Orders:   order.NewService(orders, logger.Named("order")),
		Reviews:  review.NewService(reviews),
		Ingest:   review.NewIngestor(reviews, orders, logger.Named("review")),
		Voice:    voice.NewClient(cfg.RetellBaseURL, cfg.RetellAPIKey, cfg.RetellAgentID, cfg.RetellTimeout),
		Health:   checker,
		Sessions: store,
		Log:      logger,
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, checker.Server())
	go func() {
		logger.Info("grpc health listening", zap.String("addr", cfg.GRPCAddr))
		if err := gs.Serve(lis); err != nil {
			logger.Error("grpc serve", zap.Error(err))
		}
	}()
	defer gs.GracefulStop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
