package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/advisor"
	"github.com/budgetwise/budgetwise/internal/balance"
	"github.com/budgetwise/budgetwise/internal/domain"
	infraBQ "github.com/budgetwise/budgetwise/internal/infra/bigquery"
	"github.com/budgetwise/budgetwise/internal/logger"
	"github.com/budgetwise/budgetwise/internal/render"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "balance":
		runBalance(log)
	case "total":
		runTotal(log)
	case "chart":
		runChart(log)
	case "advise":
		runAdvise(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("BudgetWise CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  balance   Reconstruct an account balance on a date")
	fmt.Println("  total     Show the current total balance across accounts")
	fmt.Println("  chart     Render the balance history chart to a PNG file")
	fmt.Println("  advise    Generate savings advice from recent spending")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// loadUserData opens the store and fetches everything the balance engine
// needs for one user.
func loadUserData(ctx context.Context, userID string) ([]*domain.Account, []*domain.Transaction, []*domain.BalanceSnapshot, func() error, error) {
	store, err := infraBQ.NewRepository(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	accounts, transactions, snapshots, err := store.UserData(ctx, userID)
	if err != nil {
		store.Close()
		return nil, nil, nil, nil, err
	}
	return accounts, transactions, snapshots, store.Close, nil
}

func runBalance(log zerolog.Logger) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	accountID := fs.String("account-id", "", "Account ID (required)")
	dateStr := fs.String("date", "", "Date in YYYY-MM-DD format (defaults to today)")
	fs.Parse(os.Args[2:])

	if *userID == "" || *accountID == "" {
		log.Fatal().Msg("Error: --user and --account-id are required")
	}

	date := time.Now().UTC()
	if *dateStr != "" {
		parsed, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			log.Fatal().Err(err).Str("date", *dateStr).Msg("Error: invalid date format, expected YYYY-MM-DD")
		}
		date = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	accounts, transactions, snapshots, closeStore, err := loadUserData(ctx, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load data")
	}
	defer closeStore()

	for _, account := range accounts {
		if account.ID == *accountID {
			b := balance.OnDate(account, date, transactions, snapshots)
			fmt.Printf("%s on %s: %s\n", account.Name, date.Format("2006-01-02"), b.Round(2).StringFixed(2))
			return
		}
	}
	log.Fatal().Str("account_id", *accountID).Msg("Account not found")
}

func runTotal(log zerolog.Logger) {
	fs := flag.NewFlagSet("total", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	accounts, transactions, snapshots, closeStore, err := loadUserData(ctx, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load data")
	}
	defer closeStore()

	now := time.Now().UTC()
	total := balance.TotalCurrent(accounts, transactions, snapshots, now)
	fmt.Printf("Total balance across %d accounts: %s\n", len(accounts), total.Round(2).StringFixed(2))
	for _, account := range accounts {
		b := balance.OnDate(account, now, transactions, snapshots)
		fmt.Printf("  %-20s %s\n", account.Name, b.Round(2).StringFixed(2))
	}
}

func runChart(log zerolog.Logger) {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	out := fs.String("out", "balance.png", "Output PNG path")
	exploded := fs.Bool("exploded", false, "Chart the grouped minor accounts individually")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	accounts, transactions, snapshots, closeStore, err := loadUserData(ctx, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load data")
	}
	defer closeStore()

	now := time.Now().UTC()
	g := balance.ComputeGrouping(accounts, transactions, snapshots, now)
	if *exploded && !g.Active {
		log.Fatal().Msg("No grouped accounts to explode")
	}

	cs := balance.BuildChartSeries(accounts, transactions, snapshots, g, *exploded, now)
	png, err := render.RenderBalanceChart(&cs, "Balance History")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render chart")
	}

	if err := os.WriteFile(*out, png, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("Failed to write chart file")
	}
	fmt.Printf("Wrote %s (%d points, %d series)\n", *out, len(cs.Points), len(cs.Series))
}

func runAdvise(log zerolog.Logger) {
	fs := flag.NewFlagSet("advise", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	days := fs.Int("days", 90, "How many days of spending to summarize")
	model := fs.String("model", "", "Gemini model name (defaults to "+advisor.DefaultModelName+")")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create store")
	}
	defer store.Close()

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -*days)

	rows, err := store.QueryTransactionsByDateRange(ctx, *userID, startDate, endDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query transactions")
	}
	if len(rows) == 0 {
		log.Fatal().Int("days", *days).Msg("No transactions in the requested period")
	}

	summary := advisor.SpendingSummary{
		PeriodStart: startDate,
		PeriodEnd:   endDate,
		ByCategory:  make(map[string]decimal.Decimal),
	}
	for _, row := range rows {
		tx := row.ToDomain()
		if tx.Type == domain.TypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			continue
		}
		summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount)
		summary.ByCategory[tx.CategoryName] = summary.ByCategory[tx.CategoryName].Add(tx.Amount)
	}

	advice, err := advisor.New(*model).SavingsAdvice(ctx, summary)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate advice")
	}

	fmt.Println(advice)
}
