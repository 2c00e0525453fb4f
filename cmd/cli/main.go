package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/config"
	"github.com/wchaiyo/pocketledger/internal/datasync"
	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/identity"
	infraBQ "github.com/wchaiyo/pocketledger/internal/infra/bigquery"
	"github.com/wchaiyo/pocketledger/internal/logger"
	"github.com/wchaiyo/pocketledger/internal/summary"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		runSummary(log)
	case "add":
		runAdd(log)
	case "accounts":
		runAccounts(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Pocket Ledger CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary   Print the income/expense summary for a month")
	fmt.Println("  add       Record a transaction")
	fmt.Println("  accounts  List wallets with derived balances")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// openSyncer builds the data-sync layer, signs in and waits for the initial
// bootstrap. The CLI has no image uploads so the object store slot is nil.
func openSyncer(ctx context.Context, log zerolog.Logger, userID string) (*datasync.Syncer, func(), error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if userID == "" {
		userID = cfg.DefaultUserID
	}
	if userID == "" {
		return nil, nil, fmt.Errorf("no user: pass -user or set DEFAULT_USER_ID")
	}

	repo, err := infraBQ.NewRepository(ctx, cfg.ProjectID, cfg.DatasetID)
	if err != nil {
		return nil, nil, err
	}

	ids := identity.NewManager()
	syncer := datasync.New(repo, nil, ids, domain.DefaultCategories(), log)
	syncer.Start(ctx)

	// SignIn triggers a synchronous bootstrap through the subscription.
	ids.SignIn(userID)
	if err := syncer.Err(); err != nil {
		syncer.Stop()
		repo.Close()
		return nil, nil, err
	}

	cleanup := func() {
		syncer.Stop()
		repo.Close()
	}
	return syncer, cleanup, nil
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	user := fs.String("user", "", "User ID (defaults to DEFAULT_USER_ID)")
	year := fs.Int("year", time.Now().Year(), "Year")
	month := fs.Int("month", int(time.Now().Month()), "Month (1-12)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	syncer, cleanup, err := openSyncer(ctx, log, *user)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger")
	}
	defer cleanup()

	txs := summary.ForMonth(syncer.Transactions(), *year, time.Month(*month))
	totals := summary.Compute(txs)

	fmt.Printf("Summary for %04d-%02d (%d transactions)\n", *year, *month, len(txs))
	fmt.Printf("  Income:  %s\n", totals.Income)
	fmt.Printf("  Expense: %s\n", totals.Expense)
	fmt.Printf("  Balance: %s\n", totals.Balance)

	shares := summary.ByCategory(txs, domain.KindExpense)
	if len(shares) > 0 {
		names := make(map[string]string)
		for _, c := range syncer.Categories() {
			names[c.ID] = c.Name
		}
		fmt.Println("\nExpenses by category:")
		for _, sh := range shares {
			name := names[sh.CategoryID]
			if name == "" {
				name = "(deleted category)"
			}
			fmt.Printf("  %-20s %10s  %4d%%\n", name, sh.Total, sh.Percent)
		}
	}
}

func runAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	user := fs.String("user", "", "User ID (defaults to DEFAULT_USER_ID)")
	kind := fs.String("kind", "expense", "Transaction kind: income or expense")
	amount := fs.String("amount", "", "Amount, e.g. 12.50 (required)")
	category := fs.String("category", "", "Category ID")
	account := fs.String("account", "", "Account ID")
	date := fs.String("date", civil.DateOf(time.Now()).String(), "Date as YYYY-MM-DD")
	description := fs.String("description", "", "Free-form note")
	fs.Parse(os.Args[2:])

	if *amount == "" {
		log.Fatal().Msg("Error: -amount is required")
	}

	money, err := domain.ParseMoney(*amount)
	if err != nil {
		log.Fatal().Err(err).Str("amount", *amount).Msg("Invalid amount")
	}
	day, err := civil.ParseDate(*date)
	if err != nil {
		log.Fatal().Err(err).Str("date", *date).Msg("Invalid date")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	syncer, cleanup, err := openSyncer(ctx, log, *user)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger")
	}
	defer cleanup()

	rec, err := syncer.AddTransaction(ctx, domain.TransactionInput{
		Kind:        domain.Kind(*kind),
		Amount:      money,
		CategoryID:  *category,
		AccountID:   *account,
		Description: *description,
		Date:        day,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to record transaction")
	}

	fmt.Printf("Recorded %s %s on %s (id %s)\n", rec.Kind, rec.Amount, rec.Date, rec.ID)
}

func runAccounts(log zerolog.Logger) {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	user := fs.String("user", "", "User ID (defaults to DEFAULT_USER_ID)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	syncer, cleanup, err := openSyncer(ctx, log, *user)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger")
	}
	defer cleanup()

	txs := syncer.Transactions()
	accounts := syncer.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No accounts.")
		return
	}

	fmt.Printf("%-36s  %-12s  %-10s  %s\n", "ID", "TYPE", "BALANCE", "NAME")
	for _, a := range accounts {
		fmt.Printf("%-36s  %-12s  %10s  %s\n", a.ID, a.Type, summary.AccountBalance(txs, a.ID), a.Name)
	}
}
