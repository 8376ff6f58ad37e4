// Package bigquery holds the BudgetWise store layer: typed rows for the
// accounts, transactions, balance_snapshots and categories tables, and the
// operations on them. Every operation comes in two flavors: a convenience
// function that opens its own client, and a …WithClient variant for callers
// holding a shared client (the Repository in interfaces.go).
package bigquery

import "os"

const (
	defaultProjectID = "budgetwise-prod"
	datasetID        = "budgetwise"

	accountsTable     = "accounts"
	transactionsTable = "transactions"
	snapshotsTable    = "balance_snapshots"
	categoriesTable   = "categories"

	dateFormat = "2006-01-02"
)

// projectID is resolved once at startup; override with BUDGETWISE_PROJECT_ID
// for staging or local datasets.
var projectID = func() string {
	if p := os.Getenv("BUDGETWISE_PROJECT_ID"); p != "" {
		return p
	}
	return defaultProjectID
}()

// tableRef returns the fully qualified `project.dataset.table` reference for
// interpolation into query text.
func tableRef(table string) string {
	return "`" + projectID + "." + datasetID + "." + table + "`"
}
