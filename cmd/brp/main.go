// Command brp is a game master tool for BRP character sheets: create
// characters, roll skills and track damage, sanity and experience.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/KirkDiggler/brp-sheet/internal/config"
	"github.com/KirkDiggler/brp-sheet/internal/logging"
	"github.com/KirkDiggler/brp-sheet/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(realMain(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	provider, err := services.NewProvider(ctx, &services.ProviderConfig{Config: cfg, Logger: logger})
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return 1
	}
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	if err := newApp(provider, stdout).run(ctx, args); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}
