package advisor

import (
	"strings"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// categoryValidator maps model-assigned category names onto the user's
// taxonomy, case-insensitively.
type categoryValidator struct {
	byNormalized map[string]string
}

func newCategoryValidator(categories []string) *categoryValidator {
	v := &categoryValidator{byNormalized: make(map[string]string, len(categories))}
	for _, c := range categories {
		v.byNormalized[normalizeCategory(c)] = c
	}
	return v
}

// resolve returns the canonical category name for the model's output, or
// the fallback category when it names something outside the taxonomy.
func (v *categoryValidator) resolve(name string) string {
	if canonical, ok := v.byNormalized[normalizeCategory(name)]; ok {
		return canonical
	}
	return domain.FallbackCategoryName
}

// normalizeCategory normalizes a category name for comparison.
func normalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
