package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/reward-tracker/internal/analysis"
	"github.com/dvloznov/reward-tracker/internal/cards"
	"github.com/dvloznov/reward-tracker/internal/config"
	"github.com/dvloznov/reward-tracker/internal/domain"
	"github.com/dvloznov/reward-tracker/internal/gcsfiles"
	"github.com/dvloznov/reward-tracker/internal/ingest"
	"github.com/dvloznov/reward-tracker/internal/logger"
	"github.com/dvloznov/reward-tracker/internal/optimizer"
	"github.com/dvloznov/reward-tracker/internal/pipeline"
	"github.com/dvloznov/reward-tracker/internal/store"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "optimize":
		runOptimize(log)
	case "upload":
		runUpload(log)
	case "import":
		runImport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Reward Tracker CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Analyze spending in a transaction CSV")
	fmt.Println("  optimize  Rank reward cards against a transaction CSV")
	fmt.Println("  upload    Parse a CSV and save it to the configured store")
	fmt.Println("  import    Upload a CSV to GCS and run the import pipeline")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// parseFile reads transactions from a local CSV file.
func parseFile(log zerolog.Logger, path string) []domain.Transaction {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open CSV file")
	}
	defer f.Close()

	transactions, warnings, err := ingest.ParseTransactions(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to parse CSV file")
	}
	for _, warning := range warnings {
		log.Warn().Int("row", warning.Row).Str("reason", warning.Reason).Msg("Skipped row")
	}
	return transactions
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to transaction CSV")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	transactions := parseFile(log, *filePath)
	result := analysis.Compute(transactions)

	fmt.Println("\n=== Spending Analysis ===")
	fmt.Printf("Transactions:  %d\n", result.TotalTransactions)
	fmt.Printf("Total spent:   $%.2f\n", result.TotalSpending)
	fmt.Printf("Average:       $%.2f\n", result.AverageTransaction)

	if len(result.CategoryBreakdown) > 0 {
		fmt.Println("\nBy category:")
		categories := make([]string, 0, len(result.CategoryBreakdown))
		for category := range result.CategoryBreakdown {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			stat := result.CategoryBreakdown[category]
			fmt.Printf("  %-16s $%10.2f  (%d)\n", category, stat.Total, stat.Count)
		}
	}

	if len(result.MonthlySpending) > 0 {
		fmt.Println("\nBy month:")
		months := make([]string, 0, len(result.MonthlySpending))
		for month := range result.MonthlySpending {
			months = append(months, month)
		}
		sort.Strings(months)
		for _, month := range months {
			fmt.Printf("  %s  $%10.2f\n", month, result.MonthlySpending[month])
		}
	}

	if len(result.TopMerchants) > 0 {
		fmt.Println("\nTop merchants:")
		for i, merchant := range result.TopMerchants {
			fmt.Printf("  %2d. %-24s $%10.2f  (%d)\n", i+1, merchant.Name, merchant.Total, merchant.Count)
		}
	}
	fmt.Println()
}

func runOptimize(log zerolog.Logger) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to transaction CSV")
	cardsFile := fs.String("cards", "", "Path to a JSON card catalog (defaults to built-in cards)")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	catalog := cards.DefaultCatalog()
	if *cardsFile != "" {
		var err error
		catalog, err = cards.LoadFile(*cardsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load card catalog")
		}
	}

	transactions := parseFile(log, *filePath)
	result := optimizer.Compute(transactions, catalog)
	if result == nil {
		fmt.Println("Nothing to optimize: no transactions or no cards.")
		return
	}

	fmt.Println("\n=== Card Ranking ===")
	fmt.Printf("Total spending considered: $%.2f\n\n", result.TotalSpending)
	for i, card := range result.CardAnalysis {
		fmt.Printf("%2d. %s\n", i+1, card.Card.Name)
		fmt.Printf("    Cashback:       $%.2f\n", card.CashbackEarned)
		if card.Card.BonusValue > 0 {
			fmt.Printf("    Signup bonus:   $%.2f\n", card.Card.BonusValue)
		}
		if card.Card.AnnualFee > 0 {
			fmt.Printf("    Annual fee:    -$%.2f\n", card.Card.AnnualFee)
		}
		fmt.Printf("    Net value:      $%.2f  (%.2f%% effective)\n\n", card.NetValue, card.EffectiveRate)
	}
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to transaction CSV")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction store")
	}
	defer st.Close()

	transactions := parseFile(log, *filePath)

	saved, err := st.SaveTransactions(ctx, transactions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to save transactions")
	}

	fmt.Printf("Saved %d transactions to the %s store.\n", saved, cfg.StoreBackend)
}

func runImport(log zerolog.Logger) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	bucketName := fs.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name (or set GCS_BUCKET env)")
	filePath := fs.String("file", "", "Path to local transaction CSV")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli import -bucket NAME -file PATH")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction store")
	}
	defer st.Close()

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Failed to open CSV file")
	}
	defer f.Close()

	objectName := fmt.Sprintf("imports/%s/%s", time.Now().Format("2006/01/02"), filepath.Base(*filePath))

	log.Info().
		Str("bucket", *bucketName).
		Str("object", objectName).
		Msg("Uploading CSV to GCS")

	gcsURI, err := gcsfiles.Upload(ctx, *bucketName, objectName, f)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	log.Info().Str("gcs_uri", gcsURI).Msg("Starting import")

	result, err := pipeline.ImportCSVFromGCS(ctx, pipeline.GCSStorage{}, st, gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Printf("Imported %s: %d transactions saved, %d rows skipped.\n", gcsURI, result.SavedCount, result.SkippedRows)
}
