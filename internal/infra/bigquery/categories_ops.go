package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// InsertCategory inserts a new category row, generating an ID when missing.
func InsertCategory(ctx context.Context, row *CategoryRow) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("InsertCategory: creating client: %w", err)
	}
	defer client.Close()

	return InsertCategoryWithClient(ctx, client, row)
}

// InsertCategoryWithClient inserts a new category row using the provided
// client.
func InsertCategoryWithClient(ctx context.Context, client *bigquery.Client, row *CategoryRow) (string, error) {
	if row.CategoryID == "" {
		row.CategoryID = uuid.NewString()
	}

	inserter := client.DatasetInProject(projectID, datasetID).Table(categoriesTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return "", fmt.Errorf("InsertCategoryWithClient: inserting row: %w", err)
	}

	return row.CategoryID, nil
}

// ListCategoriesByUser retrieves all categories owned by one user.
func ListCategoriesByUser(ctx context.Context, userID string) ([]*CategoryRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListCategoriesByUser: creating client: %w", err)
	}
	defer client.Close()

	return ListCategoriesByUserWithClient(ctx, client, userID)
}

// ListCategoriesByUserWithClient retrieves all categories owned by one user
// using the provided client.
func ListCategoriesByUserWithClient(ctx context.Context, client *bigquery.Client, userID string) ([]*CategoryRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			category_id,
			user_id,
			name,
			created_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY name
	`, tableRef(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCategoriesByUserWithClient: reading query: %w", err)
	}

	var rows []*CategoryRow
	for {
		var r CategoryRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCategoriesByUserWithClient: iterating: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

// RenameCategory renames a category and cascades the new name into every
// transaction carrying the old one. Transactions reference categories by
// name, so the rewrite is a single synchronous batch statement; callers see
// either the old name everywhere or the new name everywhere.
func RenameCategory(ctx context.Context, userID, categoryID, oldName, newName string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("RenameCategory: creating client: %w", err)
	}
	defer client.Close()

	return RenameCategoryWithClient(ctx, client, userID, categoryID, oldName, newName)
}

// RenameCategoryWithClient renames a category using the provided client.
func RenameCategoryWithClient(ctx context.Context, client *bigquery.Client, userID, categoryID, oldName, newName string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET name = @new_name
		WHERE user_id = @user_id
		  AND category_id = @category_id
	`, tableRef(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "new_name", Value: newName},
		{Name: "user_id", Value: userID},
		{Name: "category_id", Value: categoryID},
	}
	if err := runDML(ctx, q, "RenameCategoryWithClient"); err != nil {
		return err
	}

	return rewriteTransactionCategory(ctx, client, userID, oldName, newName)
}

// DeleteCategory removes a category and reassigns its transactions to the
// fallback category name.
func DeleteCategory(ctx context.Context, userID, categoryID, name string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("DeleteCategory: creating client: %w", err)
	}
	defer client.Close()

	return DeleteCategoryWithClient(ctx, client, userID, categoryID, name)
}

// DeleteCategoryWithClient removes a category using the provided client.
func DeleteCategoryWithClient(ctx context.Context, client *bigquery.Client, userID, categoryID, name string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id
		  AND category_id = @category_id
	`, tableRef(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "category_id", Value: categoryID},
	}
	if err := runDML(ctx, q, "DeleteCategoryWithClient"); err != nil {
		return err
	}

	return rewriteTransactionCategory(ctx, client, userID, name, domain.FallbackCategoryName)
}

// rewriteTransactionCategory rewrites the denormalized category name on
// every transaction carrying the old one.
func rewriteTransactionCategory(ctx context.Context, client *bigquery.Client, userID, oldName, newName string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET category_name = @new_name
		WHERE user_id = @user_id
		  AND category_name = @old_name
	`, tableRef(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "new_name", Value: newName},
		{Name: "user_id", Value: userID},
		{Name: "old_name", Value: oldName},
	}

	return runDML(ctx, q, "rewriteTransactionCategory")
}
