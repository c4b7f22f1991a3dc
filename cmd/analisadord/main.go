package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fabriciorodias/matriculas-analyzer/internal/analise"
	"github.com/fabriciorodias/matriculas-analyzer/internal/app"
	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
	"github.com/fabriciorodias/matriculas-analyzer/internal/export"
	"github.com/fabriciorodias/matriculas-analyzer/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	proc, err := app.BuildProcessor(cfg, logger)
	if err != nil {
		logger.Error("wire pipeline", "error", err)
		os.Exit(2)
	}

	cache := analise.NewCache()
	exporter := export.NewService(logger)
	srv := server.New(proc, cache, exporter, cfg.Server.MaxUploadMB, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server.listen", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server.listen_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server.shutdown.start")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server.shutdown.error", "error", err)
		os.Exit(1)
	}
	logger.Info("server.shutdown.done")
}
