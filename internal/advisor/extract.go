package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ExtractReceipt sends a receipt image to Gemini and returns the candidate
// transactions it reads off it. Candidates whose category is not in the
// user's taxonomy are reassigned to the fallback category, never rejected.
// It expects the model to return a STRICT JSON array of line items.
func (a *Advisor) ExtractReceipt(ctx context.Context, imageBytes []byte, mimeType string, categories []string) ([]*ReceiptCandidate, error) {
	prompt := buildReceiptPrompt(categories)

	raw, err := a.generate(ctx, []*genai.Part{
		{Text: prompt},
		{
			InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     imageBytes,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ExtractReceipt: %w", err)
	}

	// Clean up Markdown fences / extra text if the model ignored instructions.
	clean := cleanModelJSON(raw)

	var parsed interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("ExtractReceipt: unmarshal JSON: %w\nraw response: %s", err, raw)
	}

	candidates, err := transformReceiptOutput(parsed)
	if err != nil {
		return nil, fmt.Errorf("ExtractReceipt: %w", err)
	}

	validator := newCategoryValidator(categories)
	for _, c := range candidates {
		c.CategoryName = validator.resolve(c.CategoryName)
	}

	return candidates, nil
}

// buildReceiptPrompt constructs the extraction instructions, constraining
// category output to the user's taxonomy.
func buildReceiptPrompt(categories []string) string {
	var b strings.Builder

	b.WriteString("You are a receipt parser for a personal finance tracker.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Read ALL purchases on the attached receipt image.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a JSON array of objects.\n\n")
	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\" (the receipt date)\n")
	b.WriteString("- \"description\": string (merchant plus item description)\n")
	b.WriteString("- \"amount\": number (always positive)\n")
	b.WriteString("- \"type\": string, either \"income\" or \"expense\"\n")
	b.WriteString("- \"category\": string (one of the predefined categories below)\n\n")

	if len(categories) > 0 {
		b.WriteString("Use ONLY the following categories:\n")
		for _, c := range categories {
			b.WriteString("  - " + c + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Rules:\n")
	b.WriteString("- A purchase is always type \"expense\"; a refund is type \"income\".\n")
	b.WriteString("- If the receipt date cannot be determined, omit the object entirely.\n")
	b.WriteString("- If you are unsure about the category, use \"Uncategorized\".\n\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			// Single-line weirdness; just return as-is.
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON array,
	// try to keep only from the first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
