package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fabriciorodias/matriculas-analyzer/internal/app"
	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
	"github.com/fabriciorodias/matriculas-analyzer/internal/export"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	xlsxOut := flag.String("xlsx", "", "also write the analysis to this XLSX file")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall analysis timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "analisador [-xlsx out.xlsx] <certidao.pdf>")
		os.Exit(2)
	}
	path := flag.Arg(0)

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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	progress := func(done, total int) {
		logger.Info("extract.progress", "done", done, "total", total)
	}

	res, err := proc.Analyze(ctx, path, progress)
	if err != nil {
		var stageErr *common.StageError
		if errors.As(err, &stageErr) {
			logger.Error("analysis failed", "stage", stageErr.Stage, "hint", stageErr.UserMessage(), "error", err)
		} else {
			logger.Error("analysis failed", "error", err)
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if *xlsxOut != "" {
		b, err := export.NewService(logger).ExportAnaliseXLSX(res)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, b, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
		logger.Info("xlsx written", "path", *xlsxOut, "bytes", len(b))
	}
}
