// cmd/screenai/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/sozercan/screenai/internal/analyzer"
	"github.com/sozercan/screenai/internal/capture"
	"github.com/sozercan/screenai/internal/config"
	"github.com/sozercan/screenai/internal/journal"
	"github.com/sozercan/screenai/internal/llm"
	"github.com/sozercan/screenai/internal/monitor"
	"github.com/sozercan/screenai/internal/ocr"
	"github.com/sozercan/screenai/internal/server"
)

func main() {
	cfg, err := config.Load("screenai", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := config.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}

	screen, err := capture.NewScreen(cfg.Capture)
	if err != nil {
		log.Fatalf("failed to create screen capturer: %v", err)
	}

	tesseract, err := ocr.NewTesseract(cfg.OCR)
	if err != nil {
		log.Fatalf("failed to create OCR engine: %v", err)
	}

	llmProvider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	analyzer := analyzer.New(llmProvider,
		llm.WithModel(cfg.LLM.Model),
		llm.WithTemperature(cfg.LLM.Temperature),
	)
	recorder := journal.New(cfg.Monitor.LogPath)
	mon := monitor.New(cfg.Monitor, cfg.Capture.ScreenshotPath, screen, tesseract, analyzer, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverDone := make(chan struct{})
	if cfg.Server.Addr != "" {
		srv := server.New(cfg.Server, mon.Status())
		go func() {
			defer close(serverDone)
			if err := srv.Run(ctx); err != nil {
				slog.Error("Status server failed", "error", err)
			}
		}()
	} else {
		close(serverDone)
	}

	slog.Info("Using inference endpoint", "provider", cfg.LLM.Provider, "endpoint", cfg.LLM.Endpoint, "model", cfg.LLM.Model)
	slog.Info("Appending exchanges", "log", recorder.Path())
	if err := mon.Run(ctx); err != nil {
		log.Fatalf("capture loop failed: %v", err)
	}
	<-serverDone
}
