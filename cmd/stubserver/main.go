// Command stubserver runs a local stand-in for the document-generation
// service, backed by an in-memory job store or Postgres when DATABASE_URL is
// set.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"docsmith/internal/infra"
	"docsmith/internal/stub"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var jobs stub.JobStore
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("stubserver: failed to connect database")
		}
		defer pool.Close()
		store := stub.NewPGStore(infra.NewSQLRunner(pool, logger))
		if err := store.Ensure(ctx); err != nil {
			logger.Fatal().Err(err).Msg("stubserver: failed to prepare job table")
		}
		jobs = store
		logger.Info().Msg("stubserver: using postgres job store")
	} else {
		jobs = stub.NewMemoryStore()
		logger.Info().Msg("stubserver: using in-memory job store")
	}

	svc := stub.NewService(logger, jobs, stub.NewLedger(cfg.StartingCredits))
	router := stub.NewRouter(svc, logger, []string{"http://localhost:3000"})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("stubserver listening")
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("stubserver: http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("stubserver: failed to shutdown")
	}
	logger.Info().Msg("stubserver stopped")
}
