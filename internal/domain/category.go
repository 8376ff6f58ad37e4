package domain

import "time"

// FallbackCategoryName is assigned to transactions whose category is
// deleted.
const FallbackCategoryName = "Uncategorized"

// Category is a user-defined transaction category. Transactions reference
// it by name, not by ID.
type Category struct {
	ID        string
	UserID    string
	Name      string
	CreatedTS time.Time
}
