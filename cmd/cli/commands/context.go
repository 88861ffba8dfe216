package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/internal/config"
	"github.com/shiftguard/shiftguard/pkg/clients/sheetsclient"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
	"github.com/shiftguard/shiftguard/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
}

// RuleSet loads rule definitions from the given path, falling back to the
// configured rules file, then to the built-in defaults.
func (app *AppContext) RuleSet(path string) (*rules.RuleSet, error) {
	if path == "" {
		path = app.Cfg.RulesPath
	}
	if path == "" {
		app.Logger.Debug("No rules file configured, using defaults")
		return rules.Default(), nil
	}
	app.Logger.Debug("Loading rules", zap.String("path", path))
	return config.LoadRules(path)
}

// Database connects to the configured run-history database and applies
// pending migrations. Callers must Close the returned DB.
func (app *AppContext) Database() (*postgres.DB, error) {
	if app.Cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("databaseURL is not configured")
	}

	db, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.RunMigrations(app.Ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// Sheets loads the OAuth client configuration and creates a Sheets client,
// running the authorization flow if needed.
func (app *AppContext) Sheets() (*sheetsclient.Client, error) {
	oauthCfg, err := config.LoadOAuthClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return client, nil
}
