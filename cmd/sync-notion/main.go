package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/reward-tracker/internal/config"
	"github.com/dvloznov/reward-tracker/internal/logger"
	"github.com/dvloznov/reward-tracker/internal/notionsync"
	"github.com/dvloznov/reward-tracker/internal/store"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	notionToken := flag.String("notion-token", "", "Notion API token (required)")
	notionDBID := flag.String("notion-db-id", "", "Notion database ID (required)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}

	cfg := config.Load()

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("backend", cfg.StoreBackend).
		Bool("dry_run", *dryRun).
		Msg("Starting Notion sync")

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction store")
	}
	defer st.Close()

	transactions, err := st.FetchAllTransactions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch transactions")
	}

	notionClient := notionsync.NewNotionClient(*notionToken)

	result, err := notionsync.SyncTransactions(ctx, notionClient, *notionDBID, transactions, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Printf("Sync completed: %d created, %d skipped, %d deleted.\n", result.Created, result.Skipped, result.Deleted)
}
