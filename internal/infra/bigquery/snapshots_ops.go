package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const snapshotColumns = `
	snapshot_id,
	user_id,
	account_id,
	snapshot_date,
	balance,
	created_ts`

// ListSnapshotsByUser retrieves every balance snapshot owned by one user,
// oldest first.
func ListSnapshotsByUser(ctx context.Context, userID string) ([]*SnapshotRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListSnapshotsByUser: creating client: %w", err)
	}
	defer client.Close()

	return ListSnapshotsByUserWithClient(ctx, client, userID)
}

// ListSnapshotsByUserWithClient retrieves every balance snapshot owned by one
// user using the provided client.
func ListSnapshotsByUserWithClient(ctx context.Context, client *bigquery.Client, userID string) ([]*SnapshotRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = @user_id
		ORDER BY snapshot_date
	`, snapshotColumns, tableRef(snapshotsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	return readSnapshotRows(ctx, q, "ListSnapshotsByUserWithClient")
}

// FindSnapshotByAccountAndDate retrieves the snapshot of one account on one
// day, or nil when none exists. This is the lookup half of the
// lookup-before-write upsert that keeps (account, day) unique.
func FindSnapshotByAccountAndDate(ctx context.Context, userID, accountID string, date time.Time) (*SnapshotRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("FindSnapshotByAccountAndDate: creating client: %w", err)
	}
	defer client.Close()

	return FindSnapshotByAccountAndDateWithClient(ctx, client, userID, accountID, date)
}

// FindSnapshotByAccountAndDateWithClient retrieves the snapshot of one
// account on one day using the provided client.
func FindSnapshotByAccountAndDateWithClient(ctx context.Context, client *bigquery.Client, userID, accountID string, date time.Time) (*SnapshotRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = @user_id
		  AND account_id = @account_id
		  AND snapshot_date = @snapshot_date
		LIMIT 1
	`, snapshotColumns, tableRef(snapshotsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "account_id", Value: accountID},
		{Name: "snapshot_date", Value: civil.DateOf(date)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindSnapshotByAccountAndDateWithClient: reading query: %w", err)
	}

	var row SnapshotRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindSnapshotByAccountAndDateWithClient: iterating: %w", err)
	}

	return &row, nil
}

// UpsertSnapshot writes a snapshot, replacing any existing one for the same
// (account, day). There is no storage-level unique constraint; the
// lookup-before-write here is what enforces the pair.
func UpsertSnapshot(ctx context.Context, row *SnapshotRow) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("UpsertSnapshot: creating client: %w", err)
	}
	defer client.Close()

	return UpsertSnapshotWithClient(ctx, client, row)
}

// UpsertSnapshotWithClient writes a snapshot using the provided client.
func UpsertSnapshotWithClient(ctx context.Context, client *bigquery.Client, row *SnapshotRow) (string, error) {
	existing, err := FindSnapshotByAccountAndDateWithClient(ctx, client, row.UserID, row.AccountID, row.Date.In(time.UTC))
	if err != nil {
		return "", fmt.Errorf("UpsertSnapshotWithClient: finding existing snapshot: %w", err)
	}

	if existing != nil {
		q := client.Query(fmt.Sprintf(`
			UPDATE %s
			SET balance = @balance
			WHERE user_id = @user_id
			  AND snapshot_id = @snapshot_id
		`, tableRef(snapshotsTable)))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "balance", Value: row.Balance},
			{Name: "user_id", Value: row.UserID},
			{Name: "snapshot_id", Value: existing.SnapshotID},
		}
		if err := runDML(ctx, q, "UpsertSnapshotWithClient"); err != nil {
			return "", err
		}
		return existing.SnapshotID, nil
	}

	if row.SnapshotID == "" {
		row.SnapshotID = uuid.NewString()
	}
	if row.CreatedTS.IsZero() {
		row.CreatedTS = time.Now()
	}

	q := client.Query(fmt.Sprintf(`
		INSERT INTO %s (
			snapshot_id, user_id, account_id,
			snapshot_date, balance, created_ts
		)
		VALUES (
			@snapshot_id, @user_id, @account_id,
			@snapshot_date, @balance, @created_ts
		)
	`, tableRef(snapshotsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "snapshot_id", Value: row.SnapshotID},
		{Name: "user_id", Value: row.UserID},
		{Name: "account_id", Value: row.AccountID},
		{Name: "snapshot_date", Value: row.Date},
		{Name: "balance", Value: row.Balance},
		{Name: "created_ts", Value: row.CreatedTS},
	}
	if err := runDML(ctx, q, "UpsertSnapshotWithClient"); err != nil {
		return "", err
	}

	return row.SnapshotID, nil
}

// DeleteSnapshot removes one snapshot.
func DeleteSnapshot(ctx context.Context, userID, snapshotID string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("DeleteSnapshot: creating client: %w", err)
	}
	defer client.Close()

	return DeleteSnapshotWithClient(ctx, client, userID, snapshotID)
}

// DeleteSnapshotWithClient removes one snapshot using the provided client.
func DeleteSnapshotWithClient(ctx context.Context, client *bigquery.Client, userID, snapshotID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id
		  AND snapshot_id = @snapshot_id
	`, tableRef(snapshotsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "snapshot_id", Value: snapshotID},
	}

	return runDML(ctx, q, "DeleteSnapshotWithClient")
}

func readSnapshotRows(ctx context.Context, q *bigquery.Query, op string) ([]*SnapshotRow, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: reading query: %w", op, err)
	}

	var rows []*SnapshotRow
	for {
		var r SnapshotRow
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
