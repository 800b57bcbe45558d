// Command cleanup purges account_to_link staging entries older than
// linking.staging_retention. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/accountlinking/internal/adapter/postgres"
	"github.com/heartmarshall/accountlinking/internal/adapter/postgres/linkstore"
	"github.com/heartmarshall/accountlinking/internal/app"
	"github.com/heartmarshall/accountlinking/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if cfg.Linking.StoreDriver != config.StoreDriverPostgres {
		logger.Info("nothing to clean up", slog.String("store_driver", cfg.Linking.StoreDriver))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := linkstore.New(pool, postgres.NewTxManager(pool))

	threshold := time.Now().Add(-cfg.Linking.StagingRetention)

	purged, err := repo.PurgeStaleStaging(ctx, threshold)
	if err != nil {
		logger.Error("staging purge failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("staging purge completed",
		slog.Int64("purged", purged),
		slog.Time("threshold", threshold),
	)
}
