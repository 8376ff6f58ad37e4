// Package advisor wraps the Gemini API for the two BudgetWise AI flows:
// extracting candidate transactions from receipt images, and generating
// savings advice from a spending summary. Extraction output is review
// material for the user; nothing in this package writes to the store.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// DefaultModelName is the Gemini model used for both flows.
const DefaultModelName = "gemini-2.5-flash"

// ReceiptCandidate is one transaction the model read off a receipt,
// pending user review.
type ReceiptCandidate struct {
	Date         time.Time              `json:"date"`
	Description  string                 `json:"description"`
	Amount       decimal.Decimal        `json:"amount"`
	Type         domain.TransactionType `json:"type"`
	CategoryName string                 `json:"category_name"`
}

// Advisor calls Gemini. The zero value is not usable; construct with New.
type Advisor struct {
	model string
}

// New creates an Advisor using the given model, or DefaultModelName when
// empty. API credentials come from the environment (GEMINI_API_KEY), the
// same way the genai client resolves them everywhere else.
func New(model string) *Advisor {
	if model == "" {
		model = DefaultModelName
	}
	return &Advisor{model: model}
}

// generate sends the parts to the model and returns the raw response text.
func (a *Advisor) generate(ctx context.Context, parts []*genai.Part) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("generate: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: parts,
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("generate: empty response from model")
	}
	return rawText, nil
}
