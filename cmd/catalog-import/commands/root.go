package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/maltedev/seminovas-importer/internal/config"
	"github.com/maltedev/seminovas-importer/internal/database"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "catalog-import",
	Short:         "catalog-import scrapes ByMoto seminovos and imports motorcycles into the catalog.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		// stdout may carry crawl output
		logger = config.NewLogger(cfg.Logging, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore connects to Postgres and makes sure the schema exists.
func openStore(ctx context.Context) (*database.DB, *database.Store, error) {
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, database.NewStore(db, database.NewOutboxRepository(db, cfg.Redis.Stream)), nil
}
