package cmd

import (
	"fmt"
	"strings"

	"github.com/julienpequegnot/phynews/internal/pipeline"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch new papers from all followed categories",
	Long:  `Downloads the newest submissions of every followed arXiv category.`,
	RunE:  runFetch,
}

var fetchConcurrency int

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().IntVarP(&fetchConcurrency, "concurrency", "c", 0, "Number of concurrent fetches (0 = use config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if fetchConcurrency > 0 {
		cfg.Fetch.Concurrency = fetchConcurrency
	}

	report, err := pipeline.New(db, cfg).Fetch(cmd.Context())
	if err != nil {
		return err
	}

	if report.Categories == 0 {
		fmt.Println("No categories followed. Add one with 'phynews follow <category>'")
		return nil
	}

	fmt.Printf("Fetched %d papers from %d categories, %d new\n", report.Fetched, report.Categories, report.Added)
	if len(report.Failed) > 0 {
		fmt.Printf("Failed: %s\n", strings.Join(report.Failed, ", "))
	}
	return nil
}
