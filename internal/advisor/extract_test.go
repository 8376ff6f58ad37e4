package advisor

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "clean array passes through",
			raw:  `[{"a":1}]`,
			want: `[{"a":1}]`,
		},
		{
			name: "json code fence",
			raw:  "```json\n[{\"a\":1}]\n```",
			want: `[{"a":1}]`,
		},
		{
			name: "bare code fence",
			raw:  "```\n[{\"a\":1}]\n```",
			want: `[{"a":1}]`,
		},
		{
			name: "prose around the array",
			raw:  "Here is the result:\n[{\"a\":1}]\nLet me know if you need more.",
			want: `[{"a":1}]`,
		},
		{
			name: "leading and trailing whitespace",
			raw:  "  \n[{\"a\":1}]\n  ",
			want: `[{"a":1}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTransformReceiptOutput(t *testing.T) {
	raw := `[
		{"date": "2024-03-15", "description": "Tesco groceries", "amount": 42.50, "type": "expense", "category": "Groceries"},
		{"date": "2024-03-15", "description": "Bottle return refund", "amount": 1.20, "type": "income", "category": "Groceries"}
	]`
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	candidates, err := transformReceiptOutput(parsed)
	if err != nil {
		t.Fatalf("transformReceiptOutput: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}

	first := candidates[0]
	if first.Description != "Tesco groceries" {
		t.Errorf("description = %q", first.Description)
	}
	if first.Amount.StringFixed(2) != "42.50" {
		t.Errorf("amount = %s, want 42.50", first.Amount)
	}
	if first.Date.Year() != 2024 || int(first.Date.Month()) != 3 || first.Date.Day() != 15 {
		t.Errorf("date = %v", first.Date)
	}
	if string(candidates[1].Type) != "income" {
		t.Errorf("second candidate type = %q, want income", candidates[1].Type)
	}
}

func TestTransformReceiptOutput_NegativeAmountNormalized(t *testing.T) {
	var parsed interface{}
	raw := `[{"date": "2024-01-02", "description": "Coffee", "amount": -3.40, "type": "expense", "category": "Dining"}]`
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	candidates, err := transformReceiptOutput(parsed)
	if err != nil {
		t.Fatalf("transformReceiptOutput: %v", err)
	}
	if candidates[0].Amount.IsNegative() {
		t.Errorf("amount = %s, want positive", candidates[0].Amount)
	}
}

func TestTransformReceiptOutput_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"not an array", `{"date": "2024-01-02"}`, "want []interface{}"},
		{"missing description", `[{"date": "2024-01-02", "amount": 1, "type": "expense", "category": "X"}]`, `missing required field "description"`},
		{"bad date", `[{"date": "02/01/2024", "description": "x", "amount": 1, "type": "expense", "category": "X"}]`, "invalid date"},
		{"bad type", `[{"date": "2024-01-02", "description": "x", "amount": 1, "type": "transfer", "category": "X"}]`, "invalid type"},
		{"amount is string", `[{"date": "2024-01-02", "description": "x", "amount": "1.00", "type": "expense", "category": "X"}]`, "want number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed interface{}
			if err := json.Unmarshal([]byte(tt.raw), &parsed); err != nil {
				t.Fatalf("unmarshal fixture: %v", err)
			}
			_, err := transformReceiptOutput(parsed)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryValidatorResolve(t *testing.T) {
	v := newCategoryValidator([]string{"Groceries", "Dining Out", "Transport"})

	tests := []struct {
		in   string
		want string
	}{
		{"Groceries", "Groceries"},
		{"groceries", "Groceries"},
		{"  DINING OUT ", "Dining Out"},
		{"Entertainment", "Uncategorized"},
		{"", "Uncategorized"},
	}

	for _, tt := range tests {
		if got := v.resolve(tt.in); got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildReceiptPromptListsCategories(t *testing.T) {
	prompt := buildReceiptPrompt([]string{"Groceries", "Rent"})

	for _, want := range []string{"Groceries", "Rent", "STRICT JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not contain %q", want)
		}
	}
}
