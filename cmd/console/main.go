// Package main runs the interactive text menu over the course registry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alem-hub/course-registry/config"
	"github.com/alem-hub/course-registry/internal/bootstrap"
	"github.com/alem-hub/course-registry/internal/interface/console"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := bootstrap.NewLogger(cfg)

	container, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Close()

	history := ""
	if cfg.Storage.Backend == config.BackendFile {
		history = filepath.Join(cfg.Storage.DataDir, ".history")
	}

	rl, err := console.NewReadline(history)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer rl.Close()

	return console.New(rl, rl.Stdout(), container.ConsoleHandlers(), log).Run(ctx)
}
