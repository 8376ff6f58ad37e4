package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const accountColumns = `
	account_id,
	user_id,
	name,
	initial_balance,
	tracking_start_date,
	color,
	icon_url,
	created_ts`

// InsertAccount inserts a new account row, generating an ID when missing.
func InsertAccount(ctx context.Context, row *AccountRow) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("InsertAccount: creating client: %w", err)
	}
	defer client.Close()

	return InsertAccountWithClient(ctx, client, row)
}

// InsertAccountWithClient inserts a new account row using the provided client.
func InsertAccountWithClient(ctx context.Context, client *bigquery.Client, row *AccountRow) (string, error) {
	if row.AccountID == "" {
		row.AccountID = uuid.NewString()
	}

	inserter := client.DatasetInProject(projectID, datasetID).Table(accountsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return "", fmt.Errorf("InsertAccountWithClient: inserting row: %w", err)
	}

	return row.AccountID, nil
}

// ListAccountsByUser retrieves all accounts owned by one user.
func ListAccountsByUser(ctx context.Context, userID string) ([]*AccountRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListAccountsByUser: creating client: %w", err)
	}
	defer client.Close()

	return ListAccountsByUserWithClient(ctx, client, userID)
}

// ListAccountsByUserWithClient retrieves all accounts owned by one user using
// the provided client.
func ListAccountsByUserWithClient(ctx context.Context, client *bigquery.Client, userID string) ([]*AccountRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = @user_id
		ORDER BY created_ts
	`, accountColumns, tableRef(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccountsByUserWithClient: reading query: %w", err)
	}

	var accounts []*AccountRow
	for {
		var row AccountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAccountsByUserWithClient: iterating: %w", err)
		}
		accounts = append(accounts, &row)
	}

	return accounts, nil
}

// GetAccountByID retrieves one account, scoped to its owner.
// Returns nil when no such account exists.
func GetAccountByID(ctx context.Context, userID, accountID string) (*AccountRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("GetAccountByID: creating client: %w", err)
	}
	defer client.Close()

	return GetAccountByIDWithClient(ctx, client, userID, accountID)
}

// GetAccountByIDWithClient retrieves one account using the provided client.
func GetAccountByIDWithClient(ctx context.Context, client *bigquery.Client, userID, accountID string) (*AccountRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = @user_id
		  AND account_id = @account_id
		LIMIT 1
	`, accountColumns, tableRef(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "account_id", Value: accountID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAccountByIDWithClient: reading query: %w", err)
	}

	var row AccountRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetAccountByIDWithClient: iterating: %w", err)
	}

	return &row, nil
}

// UpdateAccountDisplay updates the mutable display attributes of an account:
// name, color and icon URL. Balance-relevant fields are immutable after
// creation.
func UpdateAccountDisplay(ctx context.Context, userID, accountID, name, color, iconURL string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("UpdateAccountDisplay: creating client: %w", err)
	}
	defer client.Close()

	return UpdateAccountDisplayWithClient(ctx, client, userID, accountID, name, color, iconURL)
}

// UpdateAccountDisplayWithClient updates account display attributes using the
// provided client.
func UpdateAccountDisplayWithClient(ctx context.Context, client *bigquery.Client, userID, accountID, name, color, iconURL string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET name = @name,
		    color = @color,
		    icon_url = @icon_url
		WHERE user_id = @user_id
		  AND account_id = @account_id
	`, tableRef(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "name", Value: name},
		{Name: "color", Value: color},
		{Name: "icon_url", Value: iconURL},
		{Name: "user_id", Value: userID},
		{Name: "account_id", Value: accountID},
	}

	return runDML(ctx, q, "UpdateAccountDisplayWithClient")
}

// runDML runs a parameterized DML statement and waits for completion.
func runDML(ctx context.Context, q *bigquery.Query, op string) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: running query: %w", op, err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: waiting for job: %w", op, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("%s: job error: %w", op, err)
	}

	return nil
}
