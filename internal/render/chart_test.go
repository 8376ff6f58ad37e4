package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/balance"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testSeries(n int) *balance.ChartSeries {
	cs := &balance.ChartSeries{
		Series: []balance.SeriesConfig{
			{Key: "acc-1", Label: "Checking", Color: "#0ea5e9"},
			{Key: balance.SeriesTotal, Label: balance.SeriesTotal, Color: "#0f766e"},
		},
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		v := decimal.NewFromInt(int64(100 + i))
		cs.Points = append(cs.Points, balance.Point{
			Date:   d,
			Label:  d.Format("2 Jan"),
			Values: map[string]decimal.Decimal{"acc-1": v, balance.SeriesTotal: v},
		})
	}
	return cs
}

func TestRenderBalanceChart(t *testing.T) {
	png, err := RenderBalanceChart(testSeries(30), "Balance History")
	if err != nil {
		t.Fatalf("RenderBalanceChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Errorf("output does not start with PNG magic: % x", png[:8])
	}
}

func TestRenderBalanceChart_TooFewPoints(t *testing.T) {
	if _, err := RenderBalanceChart(testSeries(1), "Balance History"); err == nil {
		t.Fatal("expected error with a single point")
	}
}

func TestRenderBalanceChart_NoSeries(t *testing.T) {
	cs := testSeries(5)
	cs.Series = nil
	if _, err := RenderBalanceChart(cs, "Balance History"); err == nil {
		t.Fatal("expected error with no series")
	}
}
