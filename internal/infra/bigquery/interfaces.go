package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// Store is the interface the API layer depends on. The BigQuery-backed
// Repository is the concrete implementation; tests substitute in-memory
// fakes.
type Store interface {
	InsertAccount(ctx context.Context, row *AccountRow) (string, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]*AccountRow, error)
	GetAccountByID(ctx context.Context, userID, accountID string) (*AccountRow, error)
	UpdateAccountDisplay(ctx context.Context, userID, accountID, name, color, iconURL string) error
	DeleteAccountCascade(ctx context.Context, userID, accountID string) error

	InsertTransactions(ctx context.Context, rows []*TransactionRow) error
	ListTransactionsByUser(ctx context.Context, userID string) ([]*TransactionRow, error)
	QueryTransactionsByDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*TransactionRow, error)
	UpdateTransaction(ctx context.Context, row *TransactionRow) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error

	ListSnapshotsByUser(ctx context.Context, userID string) ([]*SnapshotRow, error)
	UpsertSnapshot(ctx context.Context, row *SnapshotRow) (string, error)
	DeleteSnapshot(ctx context.Context, userID, snapshotID string) error

	InsertCategory(ctx context.Context, row *CategoryRow) (string, error)
	ListCategoriesByUser(ctx context.Context, userID string) ([]*CategoryRow, error)
	RenameCategory(ctx context.Context, userID, categoryID, oldName, newName string) error
	DeleteCategory(ctx context.Context, userID, categoryID, name string) error

	UserData(ctx context.Context, userID string) ([]*domain.Account, []*domain.Transaction, []*domain.BalanceSnapshot, error)

	Close() error
}

// Repository implements Store against BigQuery. It holds a shared client to
// avoid creating a new connection for each operation.
type Repository struct {
	client *bigquery.Client
}

// NewRepository creates a Repository with a shared BigQuery client.
func NewRepository(ctx context.Context) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client}, nil
}

// Close releases the shared client. Call when the repository is no longer
// needed.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Repository) InsertAccount(ctx context.Context, row *AccountRow) (string, error) {
	return InsertAccountWithClient(ctx, r.client, row)
}

func (r *Repository) ListAccountsByUser(ctx context.Context, userID string) ([]*AccountRow, error) {
	return ListAccountsByUserWithClient(ctx, r.client, userID)
}

func (r *Repository) GetAccountByID(ctx context.Context, userID, accountID string) (*AccountRow, error) {
	return GetAccountByIDWithClient(ctx, r.client, userID, accountID)
}

func (r *Repository) UpdateAccountDisplay(ctx context.Context, userID, accountID, name, color, iconURL string) error {
	return UpdateAccountDisplayWithClient(ctx, r.client, userID, accountID, name, color, iconURL)
}

func (r *Repository) DeleteAccountCascade(ctx context.Context, userID, accountID string) error {
	return DeleteAccountCascadeWithClient(ctx, r.client, userID, accountID)
}

func (r *Repository) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	return InsertTransactionsWithClient(ctx, r.client, rows)
}

func (r *Repository) ListTransactionsByUser(ctx context.Context, userID string) ([]*TransactionRow, error) {
	return ListTransactionsByUserWithClient(ctx, r.client, userID)
}

func (r *Repository) QueryTransactionsByDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*TransactionRow, error) {
	return QueryTransactionsByDateRangeWithClient(ctx, r.client, userID, startDate, endDate)
}

func (r *Repository) UpdateTransaction(ctx context.Context, row *TransactionRow) error {
	return UpdateTransactionWithClient(ctx, r.client, row)
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return DeleteTransactionWithClient(ctx, r.client, userID, transactionID)
}

func (r *Repository) ListSnapshotsByUser(ctx context.Context, userID string) ([]*SnapshotRow, error) {
	return ListSnapshotsByUserWithClient(ctx, r.client, userID)
}

func (r *Repository) UpsertSnapshot(ctx context.Context, row *SnapshotRow) (string, error) {
	return UpsertSnapshotWithClient(ctx, r.client, row)
}

func (r *Repository) DeleteSnapshot(ctx context.Context, userID, snapshotID string) error {
	return DeleteSnapshotWithClient(ctx, r.client, userID, snapshotID)
}

func (r *Repository) InsertCategory(ctx context.Context, row *CategoryRow) (string, error) {
	return InsertCategoryWithClient(ctx, r.client, row)
}

func (r *Repository) ListCategoriesByUser(ctx context.Context, userID string) ([]*CategoryRow, error) {
	return ListCategoriesByUserWithClient(ctx, r.client, userID)
}

func (r *Repository) RenameCategory(ctx context.Context, userID, categoryID, oldName, newName string) error {
	return RenameCategoryWithClient(ctx, r.client, userID, categoryID, oldName, newName)
}

func (r *Repository) DeleteCategory(ctx context.Context, userID, categoryID, name string) error {
	return DeleteCategoryWithClient(ctx, r.client, userID, categoryID, name)
}

// UserData fetches the three collections the balance engine consumes,
// mapped to domain structs and scoped to one user.
func (r *Repository) UserData(ctx context.Context, userID string) ([]*domain.Account, []*domain.Transaction, []*domain.BalanceSnapshot, error) {
	accountRows, err := r.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("UserData: listing accounts: %w", err)
	}
	txRows, err := r.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("UserData: listing transactions: %w", err)
	}
	snapRows, err := r.ListSnapshotsByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("UserData: listing snapshots: %w", err)
	}

	accounts := make([]*domain.Account, 0, len(accountRows))
	for _, row := range accountRows {
		accounts = append(accounts, row.ToDomain())
	}
	transactions := make([]*domain.Transaction, 0, len(txRows))
	for _, row := range txRows {
		transactions = append(transactions, row.ToDomain())
	}
	snapshots := make([]*domain.BalanceSnapshot, 0, len(snapRows))
	for _, row := range snapRows {
		snapshots = append(snapshots, row.ToDomain())
	}

	return accounts, transactions, snapshots, nil
}

// Ensure Repository satisfies the Store interface.
var _ Store = (*Repository)(nil)
