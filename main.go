package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moneytracker/pkg/config"
	"moneytracker/pkg/logging"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal", logging.FieldError, err)
		os.Exit(1)
	}
}

// run starts the API server. `moneytracker migrate` only migrates and seeds
// the database, then exits.
func run(args []string) error {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := initStore(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) > 0 && args[0] == "migrate" {
		if err := s.Migrate(); err != nil {
			return err
		}
		if err := bootstrap(ctx, cfg, newApp(cfg, s), logger); err != nil {
			return err
		}
		fmt.Println("migration and seeding completed")
		return nil
	}

	app := newApp(cfg, s)
	if err := bootstrap(ctx, cfg, app, logger); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r, err := newRouter(cfg, app, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	appLog := logging.Component(logger, logging.ComponentApp)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info("HTTP server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver,
			"trusted_proxies", len(cfg.TrustedProxies))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down HTTP server", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	appLog.Info("Server stopped")
	return nil
}
