// Command migrate applies the embedded goose migrations and prunes expired
// invitations and sessions.
//
//	migrate up | down | status | prune
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/core/config"
	"tenantkit.dev/api/core/db"
	"tenantkit.dev/api/core/db/migrations"
	"tenantkit.dev/api/internal/store"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down|status|prune")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	if err := run(ctx, cfg, os.Args[1]); err != nil {
		slog.ErrorContext(ctx, "migrate failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, command string) error {
	if command == "prune" {
		return prune(ctx, cfg)
	}

	conn, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, conn, ".")
	case "down":
		return goose.DownContext(ctx, conn, ".")
	case "status":
		return goose.StatusContext(ctx, conn, ".")
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// prune expires overdue invitations and deletes expired sessions.
func prune(ctx context.Context, cfg config.Config) error {
	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	stores := store.NewStores(database.Queries())
	if err := stores.Invitations().ExpireOld(ctx); err != nil {
		return fmt.Errorf("expiring invitations: %w", err)
	}
	if err := stores.Sessions().DeleteExpired(ctx); err != nil {
		return fmt.Errorf("deleting expired sessions: %w", err)
	}

	slog.InfoContext(ctx, "pruned expired invitations and sessions")
	return nil
}
