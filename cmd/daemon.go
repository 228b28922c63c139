// cmd/daemon.go
package cmd

import (
	"context"
	"fmt"

	"github.com/julienpequegnot/phynews/internal/logging"
	"github.com/julienpequegnot/phynews/internal/pipeline"
	"github.com/julienpequegnot/phynews/internal/scheduler"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run in daemon mode",
	Long: `Runs phynews in the background: on every tick of the configured cron
schedule it fetches followed categories, adapts your weights and stores
fresh recommendations.`,
	RunE: runDaemon,
}

var (
	daemonSchedule string
	daemonOnce     bool
)

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVar(&daemonSchedule, "schedule", "", "Override cron schedule (empty = use config)")
	daemonCmd.Flags().BoolVar(&daemonOnce, "once", false, "Run once and exit")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if daemonSchedule != "" {
		cfg.Daemon.Schedule = daemonSchedule
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	user := currentUser(cfg)
	p := pipeline.New(db, cfg)
	run := func(ctx context.Context) {
		if _, err := p.Run(ctx, user); err != nil {
			logging.Error().Err(err).Msg("pipeline failed")
		}
	}

	ctx := cmd.Context()

	// Run immediately on start
	run(ctx)

	if daemonOnce {
		fmt.Println("Single run complete.")
		return nil
	}

	s := scheduler.NewScheduler(loc)
	if err := s.Schedule(cfg.Daemon.Schedule, func(context.Context) { run(ctx) }); err != nil {
		return err
	}
	s.Start()

	fmt.Printf("Daemon running (%s, %s). Next run at %s. Press Ctrl+C to stop.\n",
		cfg.Daemon.Schedule, loc, s.Next().Format("2006-01-02 15:04"))

	<-ctx.Done()
	fmt.Println("\nShutting down...")
	s.Stop()
	return nil
}
