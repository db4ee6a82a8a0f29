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

	_ "github.com/joho/godotenv/autoload"
	"github.com/theLastOfCats/ficbox/internal/api"
	"github.com/theLastOfCats/ficbox/internal/app"
	"github.com/theLastOfCats/ficbox/internal/auth"
	"github.com/theLastOfCats/ficbox/internal/config"
	"github.com/theLastOfCats/ficbox/internal/logger"
	"github.com/theLastOfCats/ficbox/internal/recommend"
	"github.com/theLastOfCats/ficbox/internal/status"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is done. Storage is closed before it returns.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initialize Storage
	components, err := app.Open(ctx, cfg, false, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer components.Close()

	// Initialize Auth
	var tokens *auth.Tokens
	if cfg.WidgetSecret != "" {
		tokens = auth.NewTokens(cfg.WidgetSecret)
	} else {
		log.Warn("WIDGET_SECRET not set; write routes are unauthenticated")
	}

	router := api.NewRouter(api.Deps{
		Catalog:  components.Catalog,
		Tracker:  status.NewTracker(components.Store),
		Selector: recommend.NewSelector(components.Store, nil),
		Tokens:   tokens,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
