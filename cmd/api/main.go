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

	"github.com/fastprodman/economyledger/internal/api"
	"github.com/fastprodman/economyledger/internal/infra/logging"
	"github.com/fastprodman/economyledger/internal/infra/pgutils"
	"github.com/fastprodman/economyledger/internal/services/ledger"
	"github.com/fastprodman/economyledger/pkg/envconf"
	"github.com/fastprodman/economyledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	err := envconf.LoadDotEnv()
	if err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := new(apiConfig)

	err = envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("postgres pool", func(context.Context) error {
		return db.Close()
	})

	svc, err := ledger.NewPostgres(db, cfg.Postgres.LockTimeout, cfg.Economy)
	if err != nil {
		return fmt.Errorf("init economy: %w", err)
	}

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, svc)

	shutdownqueue.Add("http server", func(c context.Context) error {
		return srv.Shutdown(c)
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started",
		"port", cfg.Port,
		"games", cfg.Economy.HeartGames.String(),
		"dayBoundary", cfg.Economy.DayBoundary.Get().String(),
	)

	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
