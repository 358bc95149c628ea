package commands

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/services"
	"github.com/medconnect/scheduling/pkg/tasks"
)

// ReapCmd creates the reap command
func ReapCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Delete availability dated before today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enqueue, _ := cmd.Flags().GetBool("enqueue")
			today := app.Today()
			out := cmd.OutOrStdout()

			if enqueue {
				if app.Cfg.Reaper == nil {
					return fmt.Errorf("--enqueue needs a reaper section in the config")
				}
				id, err := tasks.EnqueueReap(app.Ctx, workerOptions(app), today)
				if errors.Is(err, tasks.ErrReapAlreadyQueued) {
					fmt.Fprintf(out, "✓ A reap for %s is already queued\n", today)
					return nil
				}
				if err != nil {
					fmt.Fprintln(out, "✗ Reap task was not queued")
					return err
				}
				fmt.Fprintf(out, "✓ Reap task %s queued for %s\n", id, today)
				return nil
			}

			removed := services.ReapExpired(app.Ctx, app.Store, app.Logger, today)
			fmt.Fprintf(out, "✓ Removed %d expired shifts\n", removed)
			return nil
		},
	}

	cmd.Flags().Bool("enqueue", false, "Queue the reap for the reaper worker instead of running it here")

	return cmd
}

// ReaperWorkerCmd creates the reaperWorker command
func ReaperWorkerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reaperWorker",
		Short: "Run the scheduled reaper worker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.Reaper == nil {
				return fmt.Errorf("reaperWorker needs a reaper section in the config")
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.Logger.Info("Starting reaper worker", zap.String("cron", app.Cfg.Reaper.CronSpec))
			return tasks.RunReaperWorker(ctx, workerOptions(app), app.Store, app.Logger, app.Today)
		},
	}
}

func workerOptions(app *AppContext) tasks.WorkerOptions {
	return tasks.WorkerOptions{
		RedisAddr:     app.Cfg.Reaper.RedisAddr,
		RedisPassword: app.Cfg.Reaper.RedisPassword,
		RedisDB:       app.Cfg.Reaper.RedisDB,
		CronSpec:      app.Cfg.Reaper.CronSpec,
	}
}
