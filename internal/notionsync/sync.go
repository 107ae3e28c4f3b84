package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/reward-tracker/internal/domain"
	"github.com/dvloznov/reward-tracker/internal/logger"
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	Created int
	Skipped int
	Deleted int
}

// SyncTransactions mirrors the given transactions into the Notion
// database. Pages whose Transaction ID is no longer in the input set
// are archived; transactions already present are skipped. With dryRun
// set, the planned changes are logged but nothing is written.
func SyncTransactions(ctx context.Context, notionClient NotionService, notionDBID string, transactions []domain.Transaction, dryRun bool) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	log.Info().
		Int("transaction_count", len(transactions)).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	validTransactionIDs := make(map[string]bool)
	for _, tx := range transactions {
		validTransactionIDs[tx.ID] = true
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return nil, fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	existingTransactionIDs := make(map[string]bool)
	for _, page := range notionPages {
		if txID := extractTransactionID(page); txID != "" {
			existingTransactionIDs[txID] = true
		}
	}

	result := &SyncResult{}

	// Archive pages without a Transaction ID (from old syncs) or not in
	// the current set.
	for _, page := range notionPages {
		txID := extractTransactionID(page)
		if txID != "" && validTransactionIDs[txID] {
			continue
		}

		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would delete stale Notion page")
			result.Deleted++
			continue
		}

		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("Failed to delete stale Notion page")
			continue
		}
		result.Deleted++
	}

	for _, tx := range transactions {
		if existingTransactionIDs[tx.ID] {
			result.Skipped++
			continue
		}

		if dryRun {
			log.Info().
				Str("transaction_id", tx.ID).
				Msg("[DRY RUN] Would create new Notion page")
			result.Created++
			continue
		}

		props := TransactionToNotionProperties(tx)
		if _, err := notionClient.CreatePage(ctx, notionDBID, props); err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", tx.ID).
				Msg("Failed to create Notion page")
			continue
		}
		result.Created++
	}

	log.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("deleted", result.Deleted).
		Msg("Transaction sync to Notion finished")

	return result, nil
}

// queryAllNotionPages pages through the whole database.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, notionDBID string) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    100,
		}
		resp, err := notionClient.QueryDatabase(ctx, notionDBID, req)
		if err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return pages, nil
}
