package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fantazia-finance/terminal/internal/scheduler"
	"github.com/fantazia-finance/terminal/internal/scheduler/jobs"
	"github.com/fantazia-finance/terminal/internal/snapshot"
	"github.com/fantazia-finance/terminal/pkg/database"
)

// schedulerCmd runs the periodic rescoring daemon.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the periodic rescoring scheduler",
	Long: `Run the rescoring scheduler as a daemon.

Re-scores the configured preset baskets on a cron schedule, warming the
provider caches and persisting snapshots when a database is configured.

Configuration (environment):
  SCHEDULER_SPEC     cron expression with seconds (default "0 */15 * * * *")
  SCHEDULER_PRESETS  comma-separated preset names (default "mega-tech-us")
  SCHEDULER_WINDOW   history window for scheduled runs (default "1y")

Example:
  go run ./cmd/fantazia scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	log := d.log

	var snapshots *snapshot.Repository
	if d.cfg.Database.Enabled() {
		db, err := database.New(d.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		snapshots = snapshot.NewRepository(db, log)
		if err := snapshots.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
	}

	rescore, err := jobs.NewRescoreJob(
		d.pipeline,
		snapshots,
		d.cfg.Scheduler.Presets,
		d.cfg.Scheduler.Window,
		d.cfg.Scheduler.Spec,
		log,
	)
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(rescore); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	// First pass immediately; the cron takes over from there.
	if err := sched.RunJob(rescore.Name()); err != nil {
		return err
	}

	fmt.Println("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
