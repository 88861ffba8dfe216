package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/cmd/cli/commands"
	"github.com/shiftguard/shiftguard/internal/config"
	"github.com/shiftguard/shiftguard/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "ShiftGuard CLI - Generate and validate staff schedules",
		Long:  `A CLI tool for generating monthly staff schedules, validating them against scheduling rules, and publishing the results.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "local", "Environment name, used to prefix log files")

	rootCmd.AddCommand(commands.GenerateCmd(appRef()))
	rootCmd.AddCommand(commands.ValidateCmd(appRef()))
	rootCmd.AddCommand(commands.SeedSampleCmd(appRef()))
	rootCmd.AddCommand(commands.HistoryCmd(appRef()))
	rootCmd.AddCommand(commands.ListStaffCmd(appRef()))
	rootCmd.AddCommand(commands.PublishCmd(appRef()))
	rootCmd.AddCommand(commands.ServeCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext. Commands capture the pointer before
// initApp fills it in, so the struct is allocated up front.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up the logger and configuration
func initApp() error {
	a := appRef()
	a.Ctx = context.Background()

	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.Logger = logger

	a.Logger.Info("Starting application", zap.String("environment", env))

	a.Logger.Debug("Loading configuration")
	a.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Logger.Debug("Configuration loaded")

	return nil
}
