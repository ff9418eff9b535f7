package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for static binary distribution

	"github.com/ericfisherdev/catalogsync/internal/adapter/driven/index"
	"github.com/ericfisherdev/catalogsync/internal/adapter/driven/secret"
	sqliteadapter "github.com/ericfisherdev/catalogsync/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/catalogsync/internal/adapter/driven/taskdir"
	"github.com/ericfisherdev/catalogsync/internal/application"
	"github.com/ericfisherdev/catalogsync/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load process configuration and set up logging.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// 2. Signal-based context: a signal before an operation starts aborts
	// it; services themselves run started VCS flows to completion.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open persistence.
	db, err := sqliteadapter.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	tasks, err := taskdir.New(cfg.QueueDir)
	if err != nil {
		return err
	}

	secrets, err := secret.Open(cfg.SecretFile, cfg.SecretKey)
	if err != nil {
		return err
	}

	// 4. Wire the composition root and dispatch.
	a := &app{
		configs: sqliteadapter.NewConfigRepo(db),
		history: sqliteadapter.NewPublishLogRepo(db),
		tasks:   tasks,
		secrets: secrets,
		indexer: index.New(nil),
		guard:   application.NewCloneGuard(),
	}

	return newRootCmd(a).ExecuteContext(ctx)
}
