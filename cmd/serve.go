package cmd

import (
	"github.com/julienpequegnot/phynews/internal/api"
	"github.com/julienpequegnot/phynews/internal/pipeline"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long:  `Serves recommendations, preferences and interaction recording over HTTP.`,
	RunE:  runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (empty = use config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	srv := api.NewServer(db, cfg, pipeline.New(db, cfg))
	return srv.ListenAndServe(cmd.Context())
}
