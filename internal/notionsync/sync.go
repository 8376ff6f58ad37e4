package notionsync

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	infra "github.com/budgetwise/budgetwise/internal/infra/bigquery"
	"github.com/budgetwise/budgetwise/internal/logger"
)

// SyncTransactions pushes one user's transactions in the date range into a
// Notion database. Pages already carrying a transaction ID in the range are
// left alone; pages whose transaction is gone are archived.
func SyncTransactions(ctx context.Context, store infra.Store, notionClient NotionService, notionDBID, userID string, startDate, endDate time.Time, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Time("start_date", startDate).
		Time("end_date", endDate).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	rows, err := store.QueryTransactionsByDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return fmt.Errorf("SyncTransactions: querying transactions: %w", err)
	}

	accountRows, err := store.ListAccountsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("SyncTransactions: listing accounts: %w", err)
	}
	accountNames := make(map[string]string, len(accountRows))
	for _, row := range accountRows {
		accountNames[row.AccountID] = row.Name
	}

	log.Info().Int("transaction_count", len(rows)).Msg("Retrieved transactions")

	validIDs := make(map[string]bool, len(rows))
	for _, row := range rows {
		validIDs[row.TransactionID] = true
	}

	pages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("SyncTransactions: querying Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(pages)).Msg("Retrieved existing Notion pages")

	existingIDs := make(map[string]bool)
	var archived int
	for _, page := range pages {
		txID := extractTransactionID(page)
		if txID != "" && validIDs[txID] {
			existingIDs[txID] = true
			continue
		}

		// Page carries no transaction ID, or its transaction is gone.
		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			archived++
			continue
		}
		if err := notionClient.ArchivePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		archived++
	}

	var created, skipped int
	for _, row := range rows {
		if existingIDs[row.TransactionID] {
			skipped++
			continue
		}

		tx := row.ToDomain()
		if dryRun {
			log.Info().
				Str("transaction_id", tx.ID).
				Msg("[DRY RUN] Would create Notion page")
			created++
			continue
		}

		props := TransactionToNotionProperties(tx, accountNames[tx.AccountID])
		page, err := notionClient.CreatePage(ctx, notionDBID, props)
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", tx.ID).
				Msg("Failed to create Notion page")
			continue
		}
		log.Info().
			Str("transaction_id", tx.ID).
			Str("page_id", string(page.ID)).
			Msg("Created Notion page")
		created++
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Int("archived", archived).
		Int("total", len(rows)).
		Msg("Transaction sync completed")

	return nil
}

// queryAllNotionPages pages through the whole database.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
