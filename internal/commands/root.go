// Package commands implements the bookctl command line interface, a thin
// administrative surface over the same services the API serves.
package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/finbook/bookset/internal/books"
	"github.com/finbook/bookset/internal/config"
	"github.com/finbook/bookset/internal/ledger"
	"github.com/finbook/bookset/internal/repository"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bookctl",
		Short: "Double-entry bookkeeping over a shared book set",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("bookset", "", "book set id to operate on")

	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newBalanceCommand())
	rootCmd.AddCommand(newLedgerCommand())
	rootCmd.AddCommand(newPostCommand())

	return rootCmd
}

// env bundles the services a subcommand needs, plus the handle to close.
type env struct {
	db     *sql.DB
	books  *books.Service
	ledger *ledger.Service
}

func openEnv(ctx context.Context) (*env, error) {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		return nil, err
	}

	entryStore := repository.NewEntryStore(db)
	return &env{
		db: db,
		books: books.NewService(
			repository.NewBookSetRepository(db),
			repository.NewAccountRepository(db),
			repository.NewThirdPartyRepository(db),
			repository.NewProjectRepository(db),
			entryStore,
		),
		ledger: ledger.NewService(entryStore),
	}, nil
}

func (e *env) close() {
	e.db.Close()
}

func bookSetID(cmd *cobra.Command) (uuid.UUID, error) {
	raw, err := cmd.Flags().GetString("bookset")
	if err != nil {
		return uuid.Nil, err
	}
	if raw == "" {
		return uuid.Nil, fmt.Errorf("--bookset is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--bookset: %w", err)
	}
	return id, nil
}
