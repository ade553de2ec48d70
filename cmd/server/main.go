package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DoyleJ11/quiz-contest-backend/internal/config"
	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/DoyleJ11/quiz-contest-backend/internal/httpapi"
	"github.com/DoyleJ11/quiz-contest-backend/internal/hub"
	"github.com/DoyleJ11/quiz-contest-backend/internal/lobby"
	"github.com/DoyleJ11/quiz-contest-backend/internal/logging"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New()
	h := hub.NewHub(ctx,
		hub.WithLogger(log),
		hub.WithLobbyOptions(lobby.WithEngine(eng)),
	)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, httpapi.Deps{
		Engine:         eng,
		Logger:         log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		NewContest:     cfg.NewContest,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	// The hub shares ctx, so every contest is already stopping.
	<-h.Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
