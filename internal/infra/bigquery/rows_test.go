package bigquery

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

func TestRatToDecimal(t *testing.T) {
	tests := []struct {
		name string
		rat  *big.Rat
		want string
	}{
		{name: "nil is zero", rat: nil, want: "0"},
		{name: "whole amount", rat: big.NewRat(150, 1), want: "150"},
		{name: "two decimal places", rat: big.NewRat(4275, 100), want: "42.75"},
		{name: "negative", rat: big.NewRat(-999, 100), want: "-9.99"},
		{name: "rounds to numeric scale", rat: big.NewRat(1, 3), want: "0.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ratToDecimal(tt.rat)
			if got.String() != tt.want {
				t.Errorf("ratToDecimal(%v) = %s, want %s", tt.rat, got, tt.want)
			}
		})
	}
}

func TestAccountRowRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	a := &domain.Account{
		ID:                "acc-1",
		UserID:            "user-1",
		Name:              "Checking",
		InitialBalance:    decimal.RequireFromString("1200.50"),
		TrackingStartDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Color:             "#4A90D9",
		CreatedTS:         created,
	}

	row := AccountRowFromDomain(a)
	if row.TrackingStartDate != civil.DateOf(a.TrackingStartDate) {
		t.Errorf("TrackingStartDate = %v, want %v", row.TrackingStartDate, civil.DateOf(a.TrackingStartDate))
	}
	if !row.Color.Valid || row.Color.StringVal != "#4A90D9" {
		t.Errorf("Color = %+v, want valid #4A90D9", row.Color)
	}
	if row.IconURL.Valid {
		t.Errorf("IconURL should be invalid for empty string, got %+v", row.IconURL)
	}

	back := row.ToDomain()
	if back.ID != a.ID || back.UserID != a.UserID || back.Name != a.Name {
		t.Errorf("identity fields changed: got %+v", back)
	}
	if !back.InitialBalance.Equal(a.InitialBalance) {
		t.Errorf("InitialBalance = %s, want %s", back.InitialBalance, a.InitialBalance)
	}
	if !back.TrackingStartDate.Equal(a.TrackingStartDate) {
		t.Errorf("TrackingStartDate = %v, want %v", back.TrackingStartDate, a.TrackingStartDate)
	}
	if back.IconURL != "" {
		t.Errorf("IconURL = %q, want empty", back.IconURL)
	}
}

func TestTransactionRowRoundTrip(t *testing.T) {
	tx := &domain.Transaction{
		ID:           "tx-1",
		UserID:       "user-1",
		AccountID:    "acc-1",
		Type:         domain.TypeExpense,
		Amount:       decimal.RequireFromString("42.75"),
		Description:  "Groceries",
		CategoryName: "FOOD",
		Date:         time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		CreatedTS:    time.Date(2025, 2, 10, 18, 0, 0, 0, time.UTC),
	}

	back := TransactionRowFromDomain(tx).ToDomain()
	if back.Type != domain.TypeExpense {
		t.Errorf("Type = %s, want expense", back.Type)
	}
	if !back.Amount.Equal(tx.Amount) {
		t.Errorf("Amount = %s, want %s", back.Amount, tx.Amount)
	}
	if !back.Date.Equal(tx.Date) {
		t.Errorf("Date = %v, want %v", back.Date, tx.Date)
	}
	if back.CategoryName != "FOOD" {
		t.Errorf("CategoryName = %q, want FOOD", back.CategoryName)
	}
}

func TestSnapshotRowRoundTrip(t *testing.T) {
	s := &domain.BalanceSnapshot{
		ID:        "snap-1",
		UserID:    "user-1",
		AccountID: "acc-1",
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Balance:   decimal.RequireFromString("-15.20"),
	}

	row := SnapshotRowFromDomain(s)
	if row.Date != (civil.Date{Year: 2025, Month: 4, Day: 1}) {
		t.Errorf("Date = %v, want 2025-04-01", row.Date)
	}

	back := row.ToDomain()
	if !back.Balance.Equal(s.Balance) {
		t.Errorf("Balance = %s, want %s", back.Balance, s.Balance)
	}
	if !back.Date.Equal(s.Date) {
		t.Errorf("Date = %v, want %v", back.Date, s.Date)
	}
}
