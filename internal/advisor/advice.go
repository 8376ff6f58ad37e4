package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"google.golang.org/genai"
)

// SpendingSummary is the aggregate the advice prompt is built from.
type SpendingSummary struct {
	PeriodStart   time.Time
	PeriodEnd     time.Time
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	ByCategory    map[string]decimal.Decimal
}

// SavingsAdvice asks the model for short savings advice based on the
// summary. The response is plain text for display, not JSON.
func (a *Advisor) SavingsAdvice(ctx context.Context, summary SpendingSummary) (string, error) {
	prompt := buildAdvicePrompt(summary)

	raw, err := a.generate(ctx, []*genai.Part{{Text: prompt}})
	if err != nil {
		return "", fmt.Errorf("SavingsAdvice: %w", err)
	}

	return strings.TrimSpace(raw), nil
}

func buildAdvicePrompt(summary SpendingSummary) string {
	var b strings.Builder

	b.WriteString("You are a personal finance advisor.\n\n")
	b.WriteString("Here is a spending summary for one user:\n")
	fmt.Fprintf(&b, "- Period: %s to %s\n",
		summary.PeriodStart.Format("2006-01-02"), summary.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Total income: %s\n", summary.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "- Total expenses: %s\n", summary.TotalExpenses.StringFixed(2))

	if len(summary.ByCategory) > 0 {
		b.WriteString("- Expenses by category:\n")
		names := make([]string, 0, len(summary.ByCategory))
		for name := range summary.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "    %s: %s\n", name, summary.ByCategory[name].StringFixed(2))
		}
	}

	b.WriteString("\nTask:\n")
	b.WriteString("- Give 3 to 5 concrete, actionable savings suggestions based on this data.\n")
	b.WriteString("- Keep each suggestion to one or two sentences.\n")
	b.WriteString("- Do not invent transactions or categories that are not in the summary.\n")
	b.WriteString("- Respond with plain text only, no Markdown headings.\n")

	return b.String()
}
