// Package backend builds the persistence backend selected by DATA_BACKEND.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hray3182/julius/internal/config"
	"github.com/hray3182/julius/internal/database"
	"github.com/hray3182/julius/internal/repository"
	"github.com/hray3182/julius/internal/repository/firebase"
	"github.com/hray3182/julius/internal/repository/memory"
	"github.com/hray3182/julius/internal/repository/sheets"
	"github.com/hray3182/julius/internal/repository/sqlite"
)

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create opens the configured store. The caller owns it and must Close it.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		f.logger.Warn("Using memory backend, data is lost on restart")
		return memory.New(), nil
	case config.BackendPostgres:
		return f.createPostgres(ctx, cfg)
	case config.BackendSQLite:
		return f.createSQLite(cfg)
	case config.BackendSheets:
		return f.createSheets(ctx, cfg)
	case config.BackendFirebase:
		return f.createFirebase(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func (f *Factory) createPostgres(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	f.logger.Info("Initialized postgres backend")
	return repository.NewPostgresStore(db), nil
}

func (f *Factory) createSQLite(cfg *config.Config) (repository.Store, error) {
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return store, nil
}

func (f *Factory) createSheets(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	creds, err := cfg.GoogleCredentials()
	if err != nil {
		return nil, err
	}
	cli, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		ExpensesSheet:   cfg.GoogleExpensesSheet,
		LimitsSheet:     cfg.GoogleLimitsSheet,
		CredentialsJSON: creds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return cli, nil
}

func (f *Factory) createFirebase(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	store, err := firebase.New(ctx, firebase.Config{
		DatabaseURL:     cfg.FirebaseDBURL,
		CredentialsJSON: []byte(cfg.FirebaseCredentialsJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase store: %w", err)
	}
	f.logger.Info("Initialized Firebase backend", "database_url", cfg.FirebaseDBURL)
	return store, nil
}
