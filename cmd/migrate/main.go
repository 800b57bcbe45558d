// Command migrate applies or inspects the embedded database migrations.
//
// Usage:
//
//	migrate up|down|status
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/accountlinking/internal/adapter/postgres"
	"github.com/heartmarshall/accountlinking/internal/app"
	"github.com/heartmarshall/accountlinking/internal/config"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: migrate up|down|status")
		os.Exit(2)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	logger := app.NewLogger(config.LogConfig{Level: "info", Format: "text"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	m, err := postgres.NewMigrator(ctx, dsn, logger)
	if err != nil {
		logger.Error("open migrator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		err = printStatus(ctx, m)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		m.Close()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("migrate failed", slog.String("error", err.Error()))
		m.Close()
		os.Exit(1)
	}
}

func printStatus(ctx context.Context, m *postgres.Migrator) error {
	statuses, err := m.Status(ctx)
	if err != nil {
		return err
	}
	for _, st := range statuses {
		applied := "-"
		if !st.AppliedAt.IsZero() {
			applied = st.AppliedAt.Format(time.RFC3339)
		}
		fmt.Printf("%05d  %-8s  %s  %s\n", st.Source.Version, st.State, applied, st.Source.Path)
	}
	return nil
}
