package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// DeleteAccountCascade deletes an account together with all of its
// transactions and snapshots. The store has no foreign keys, so the
// application deletes dependents first: transactions, then snapshots, then
// the account row itself.
func DeleteAccountCascade(ctx context.Context, userID, accountID string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("DeleteAccountCascade: creating client: %w", err)
	}
	defer client.Close()

	return DeleteAccountCascadeWithClient(ctx, client, userID, accountID)
}

// DeleteAccountCascadeWithClient deletes an account and its dependents using
// the provided client.
func DeleteAccountCascadeWithClient(ctx context.Context, client *bigquery.Client, userID, accountID string) error {
	if err := deleteByAccount(ctx, client, transactionsTable, userID, accountID); err != nil {
		return fmt.Errorf("deleting transactions: %w", err)
	}
	if err := deleteByAccount(ctx, client, snapshotsTable, userID, accountID); err != nil {
		return fmt.Errorf("deleting snapshots: %w", err)
	}

	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id
		  AND account_id = @account_id
	`, tableRef(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "account_id", Value: accountID},
	}
	if err := runDML(ctx, q, "DeleteAccountCascadeWithClient"); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	return nil
}

func deleteByAccount(ctx context.Context, client *bigquery.Client, table, userID, accountID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id
		  AND account_id = @account_id
	`, tableRef(table)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "account_id", Value: accountID},
	}

	return runDML(ctx, q, "deleteByAccount")
}
