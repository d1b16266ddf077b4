package admin

import (
	"os"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/spf13/cobra"
)

// keyOptions carries the flags shared by commands that need the vault key.
type keyOptions struct {
	key         string
	environment string
}

func (o *keyOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.key, "key", "k", os.Getenv(config.EnvVaultKey), "vault key (64 hex chars or 32 raw bytes)")
	cmd.Flags().StringVarP(&o.environment, "env", "e", envOr(config.EnvEnvironment, common.EnvironmentProduction), "environment: development or production")
}

func (o *keyOptions) cipher(cmd *cobra.Command) (*cryptox.Cipher, error) {
	key, fallback, err := cryptox.ResolveKey(o.key, o.environment)
	if err != nil {
		return nil, err
	}
	if fallback {
		cmd.PrintErrln(warning.Sprintf("warning: no vault key configured, using the public development key"))
	}
	return cryptox.NewCipher(key)
}

// dbOptions carries the flags shared by commands that open the database.
type dbOptions struct {
	driver string
	dsn    string
}

func (o *dbOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.driver, "driver", envOr(config.EnvDatabaseDriver, common.DriverSQLite), "database driver: postgres or sqlite")
	cmd.Flags().StringVar(&o.dsn, "dsn", os.Getenv(config.EnvDatabaseDSN), "database DSN")
}

func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// NewRootCmd builds the vaultctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vaultctl",
		Short: "vaultctl - operator tooling for the credential vault",
		Long: `vaultctl manages vault keys, sealed values and the vault database.

Run 'vaultctl help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newKeygenCmd())
	root.AddCommand(newSealCmd())
	root.AddCommand(newOpenCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newResealCmd())
	root.AddCommand(newPingCmd())

	return root
}
