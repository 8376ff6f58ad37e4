package bigquery

import (
	"time"

	"github.com/budgetwise/budgetwise/internal/domain"
)

type CategoryRow struct {
	CategoryID string `bigquery:"category_id"` // REQUIRED
	UserID     string `bigquery:"user_id"`     // REQUIRED
	Name       string `bigquery:"name"`        // REQUIRED, referenced by transactions as free text

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

func (r *CategoryRow) ToDomain() *domain.Category {
	return &domain.Category{
		ID:        r.CategoryID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedTS: r.CreatedTS,
	}
}
