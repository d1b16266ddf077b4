package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credvault/internal/server/services"
	"github.com/spf13/cobra"
)

var errDSNRequired = errors.New("database DSN is required (--dsn or VAULT_DATABASE_DSN)")

func (o *dbOptions) open(ctx context.Context) (*sql.DB, repomanager.RepositoryManager, error) {
	if o.dsn == "" {
		return nil, nil, errDSNRequired
	}
	rm, err := repomanager.New(o.driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := repomanager.OpenDB(ctx, o.driver, o.dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, rm, nil
}

func newMigrateCmd() *cobra.Command {
	var opts dbOptions

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, rm, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := rm.RunMigrations(ctx, db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), success.Sprintf("✓ migrations applied (%s)", opts.driver))
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}

func newResealCmd() *cobra.Command {
	var (
		keys      keyOptions
		dbo       dbOptions
		batchSize int
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "reseal-legacy",
		Short: "Seal every secret still stored as plaintext",
		Long: `Pages through all entries of all owners, deleted ones included, and
rewrites every legacy plaintext secret in sealed form. Safe to run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := keys.cipher(cmd)
			if err != nil {
				return err
			}

			logger, err := logging.NewJSONLogger(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}

			db, rm, err := dbo.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := services.NewLegacyResealer(db, rm, c, batchSize, logger).Run(ctx)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), failure.Sprintf("✗ stopped after %d rows", n))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), success.Sprintf("✓ resealed %d legacy secrets", n))
			return nil
		},
	}

	keys.bind(cmd)
	dbo.bind(cmd)
	cmd.Flags().IntVar(&batchSize, "batch-size", services.DefaultResealBatchSize, "rows per transaction")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	return cmd
}
