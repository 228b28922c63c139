package cmd

import (
	"fmt"
	"os"

	"github.com/julienpequegnot/phynews/internal/config"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize phynews configuration and database",
	Long:  `Creates the ~/.phynews directory with config.yaml and SQLite database.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Created config at %s/config.yaml\n", dir)

	db, err := database.New(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	db.Close()
	fmt.Printf("Created database at %s\n", config.DBPath())

	fmt.Println("\nPhynews initialized! Next steps:")
	fmt.Println("  phynews follow <category>   Follow an arXiv category (e.g. quant-ph, cs.AI)")
	fmt.Println("  phynews fetch               Fetch new papers")
	fmt.Println("  phynews recommend           Rank papers for you")

	return nil
}
