package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienpequegnot/phynews/internal/config"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phynews",
	Short: "Personalised arXiv paper recommendations",
	Long: `Phynews follows arXiv categories, learns what you read and like,
and ranks new papers by category, author, title and abstract affinity.

Pipeline: fetch → view/like → adapt → recommend`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		return nil
	},
}

var userFlag string

func init() {
	rootCmd.Version = "0.1.0"
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Reader ID (default from config)")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and opens the database.
func setup() (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.New(config.DBPath())
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func currentUser(cfg *config.Config) string {
	if userFlag != "" {
		return userFlag
	}
	return cfg.User
}
