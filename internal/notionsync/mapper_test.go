package notionsync

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

func TestTransactionToNotionProperties(t *testing.T) {
	tx := &domain.Transaction{
		ID:           "tx-1",
		AccountID:    "acc-1",
		Type:         domain.TypeExpense,
		Amount:       decimal.RequireFromString("42.50"),
		Description:  "Groceries at Tesco",
		CategoryName: "Groceries",
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CreatedTS:    time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC),
	}

	props := TransactionToNotionProperties(tx, "Checking")

	title, ok := props["Description"].(notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 || title.Title[0].Text.Content != "Groceries at Tesco" {
		t.Errorf("Description property = %+v", props["Description"])
	}

	amount, ok := props["Amount"].(notionapi.NumberProperty)
	if !ok || amount.Number != -42.5 {
		t.Errorf("Amount = %+v, want -42.5 (expenses are signed)", props["Amount"])
	}

	txID, ok := props["Transaction ID"].(notionapi.RichTextProperty)
	if !ok || len(txID.RichText) == 0 || txID.RichText[0].Text.Content != "tx-1" {
		t.Errorf("Transaction ID property = %+v", props["Transaction ID"])
	}

	account, ok := props["Account"].(notionapi.SelectProperty)
	if !ok || account.Select.Name != "Checking" {
		t.Errorf("Account property = %+v", props["Account"])
	}

	category, ok := props["Category"].(notionapi.SelectProperty)
	if !ok || category.Select.Name != "Groceries" {
		t.Errorf("Category property = %+v", props["Category"])
	}
}

func TestTransactionToNotionProperties_Income(t *testing.T) {
	tx := &domain.Transaction{
		ID:     "tx-2",
		Type:   domain.TypeIncome,
		Amount: decimal.RequireFromString("1500.00"),
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	props := TransactionToNotionProperties(tx, "")

	amount := props["Amount"].(notionapi.NumberProperty)
	if amount.Number != 1500.0 {
		t.Errorf("Amount = %v, want 1500", amount.Number)
	}
	if _, ok := props["Account"]; ok {
		t.Error("expected no Account property without an account name")
	}
	if _, ok := props["Category"]; ok {
		t.Error("expected no Category property for an empty category")
	}
}

func TestExtractTransactionID(t *testing.T) {
	page := notionapi.Page{
		Properties: notionapi.Properties{
			"Transaction ID": &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: "tx-9"}},
			},
		},
	}
	if got := extractTransactionID(page); got != "tx-9" {
		t.Errorf("extractTransactionID = %q, want tx-9", got)
	}

	if got := extractTransactionID(notionapi.Page{Properties: notionapi.Properties{}}); got != "" {
		t.Errorf("extractTransactionID on empty page = %q, want empty", got)
	}
}
