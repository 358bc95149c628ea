package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/medconnect/scheduling/cmd/cli/commands"
	"github.com/medconnect/scheduling/internal/config"
	"github.com/medconnect/scheduling/pkg/clients/availabilityclient"
	"github.com/medconnect/scheduling/pkg/core/services"
	"github.com/medconnect/scheduling/pkg/db"
	"github.com/medconnect/scheduling/pkg/postgres"
	"github.com/medconnect/scheduling/pkg/tasks"
	"github.com/medconnect/scheduling/pkg/utils"
	"github.com/medconnect/scheduling/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
	closeDB func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Scheduling CLI - Manage provider availability and appointments",
		Long:  `A CLI tool for publishing provider availability, generating bookable slots, and rescheduling appointments.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeDB != nil {
				closeDB()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.CalendarCmd(app))
	rootCmd.AddCommand(commands.SlotsCmd(app))
	rootCmd.AddCommand(commands.ListShiftsCmd(app))
	rootCmd.AddCommand(commands.AddShiftCmd(app))
	rootCmd.AddCommand(commands.AddRecurringCmd(app))
	rootCmd.AddCommand(commands.PendingCmd(app))
	rootCmd.AddCommand(commands.RemovePendingCmd(app))
	rootCmd.AddCommand(commands.SubmitShiftsCmd(app))
	rootCmd.AddCommand(commands.UpdateShiftCmd(app))
	rootCmd.AddCommand(commands.DeleteShiftCmd(app))
	rootCmd.AddCommand(commands.ReapCmd(app))
	rootCmd.AddCommand(commands.ReaperWorkerCmd(app))
	rootCmd.AddCommand(commands.AppointmentsCmd(app))
	rootCmd.AddCommand(commands.SelectCmd(app))
	rootCmd.AddCommand(commands.ClearSelectionCmd(app))
	rootCmd.AddCommand(commands.RescheduleCmd(app))
	rootCmd.AddCommand(commands.CancelSelectedCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the availability store
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Today = tasks.Today

	app.Logger, _, err = logging.InitLogger(env, logging.WithVerbose(verbose))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("backend", app.Cfg.StoreBackend))

	app.Store, err = newStore(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}

	app.Composer = services.NewShiftComposer(app.Store, app.Logger, services.WithNightShifts(app.Cfg.AllowNightShifts))
	app.Selection = services.NewSelectionSet(nil)

	return nil
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		logger.Debug("Connecting to database")
		database, err := postgres.NewDB(ctx, cfg.DatabaseURL, cfg.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		closeDB = database.Close
		logger.Debug("Database initialized successfully")
		return database, nil

	default:
		tokens, err := newTokenSource(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		logger.Debug("Initializing availability client", zap.String("base_url", cfg.APIBaseURL))
		client, err := availabilityclient.NewClient(ctx, cfg.APIBaseURL, tokens, availabilityclient.Options{
			Timeout: cfg.Timeout(),
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create availability client: %w", err)
		}
		return client, nil
	}
}

// newTokenSource prefers refresh-token auth when configured, otherwise the static access token
func newTokenSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (oauth2.TokenSource, error) {
	if cfg.OAuth == nil {
		return availabilityclient.StaticToken(cfg.AccessToken), nil
	}

	tokenDir, err := utils.DefaultTokenDir()
	if err != nil {
		return nil, err
	}
	tokens, err := utils.NewRefreshingTokenSource(ctx, cfg.OAuth, env, tokenDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up oauth: %w", err)
	}
	return tokens, nil
}
