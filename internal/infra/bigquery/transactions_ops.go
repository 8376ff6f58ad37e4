package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const transactionColumns = `
	transaction_id,
	user_id,
	account_id,
	type,
	amount,
	description,
	category_name,
	transaction_date,
	created_ts`

// InsertTransactions inserts a batch of transaction rows, generating IDs
// where missing.
func InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertTransactions: creating client: %w", err)
	}
	defer client.Close()

	return InsertTransactionsWithClient(ctx, client, rows)
}

// InsertTransactionsWithClient inserts a batch of transaction rows using the
// provided client.
func InsertTransactionsWithClient(ctx context.Context, client *bigquery.Client, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	for _, row := range rows {
		if row.TransactionID == "" {
			row.TransactionID = uuid.NewString()
		}
	}

	inserter := client.DatasetInProject(projectID, datasetID).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactionsWithClient: inserting rows: %w", err)
	}

	return nil
}

// ListTransactionsByUser retrieves every transaction owned by one user,
// oldest first.
func ListTransactionsByUser(ctx context.Context, userID string) ([]*TransactionRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListTransactionsByUser: creating client: %w", err)
	}
	defer client.Close()

	return ListTransactionsByUserWithClient(ctx, client, userID)
}

// ListTransactionsByUserWithClient retrieves every transaction owned by one
// user using the provided client.
func ListTransactionsByUserWithClient(ctx context.Context, client *bigquery.Client, userID string) ([]*TransactionRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = @user_id
		ORDER BY transaction_date, created_ts
	`, transactionColumns, tableRef(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	return readTransactionRows(ctx, q, "ListTransactionsByUserWithClient")
}

// QueryTransactionsByDateRange retrieves a user's transactions within the
// inclusive date range, oldest first.
func QueryTransactionsByDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*TransactionRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactionsByDateRange: creating client: %w", err)
	}
	defer client.Close()

	return QueryTransactionsByDateRangeWithClient(ctx, client, userID, startDate, endDate)
}

// QueryTransactionsByDateRangeWithClient retrieves a user's transactions
// within the inclusive date range using the provided client.
func QueryTransactionsByDateRangeWithClient(ctx context.Context, client *bigquery.Client, userID string, startDate, endDate time.Time) ([]*TransactionRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = @user_id
		  AND transaction_date >= @start_date
		  AND transaction_date <= @end_date
		ORDER BY transaction_date, created_ts
	`, transactionColumns, tableRef(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "start_date", Value: startDate.Format(dateFormat)},
		{Name: "end_date", Value: endDate.Format(dateFormat)},
	}

	return readTransactionRows(ctx, q, "QueryTransactionsByDateRangeWithClient")
}

// UpdateTransaction rewrites the user-editable fields of one transaction.
func UpdateTransaction(ctx context.Context, row *TransactionRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("UpdateTransaction: creating client: %w", err)
	}
	defer client.Close()

	return UpdateTransactionWithClient(ctx, client, row)
}

// UpdateTransactionWithClient rewrites the user-editable fields of one
// transaction using the provided client.
func UpdateTransactionWithClient(ctx context.Context, client *bigquery.Client, row *TransactionRow) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET type = @type,
		    amount = @amount,
		    description = @description,
		    category_name = @category_name,
		    transaction_date = @transaction_date
		WHERE user_id = @user_id
		  AND transaction_id = @transaction_id
	`, tableRef(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "type", Value: row.Type},
		{Name: "amount", Value: row.Amount},
		{Name: "description", Value: row.Description},
		{Name: "category_name", Value: row.CategoryName},
		{Name: "transaction_date", Value: row.Date},
		{Name: "user_id", Value: row.UserID},
		{Name: "transaction_id", Value: row.TransactionID},
	}

	return runDML(ctx, q, "UpdateTransactionWithClient")
}

// DeleteTransaction removes one transaction.
func DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("DeleteTransaction: creating client: %w", err)
	}
	defer client.Close()

	return DeleteTransactionWithClient(ctx, client, userID, transactionID)
}

// DeleteTransactionWithClient removes one transaction using the provided
// client.
func DeleteTransactionWithClient(ctx context.Context, client *bigquery.Client, userID, transactionID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id
		  AND transaction_id = @transaction_id
	`, tableRef(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "transaction_id", Value: transactionID},
	}

	return runDML(ctx, q, "DeleteTransactionWithClient")
}

func readTransactionRows(ctx context.Context, q *bigquery.Query, op string) ([]*TransactionRow, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: reading query: %w", op, err)
	}

	var rows []*TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: iterating: %w", op, err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
