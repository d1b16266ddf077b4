package admin

import (
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/spf13/cobra"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a fresh random vault key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cryptox.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func newSealCmd() *cobra.Command {
	var (
		opts      keyOptions
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Seal a secret with the vault key",
		Long:  `Reads a secret without echo (or the first line of stdin with --stdin) and prints its sealed form.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.cipher(cmd)
			if err != nil {
				return err
			}

			secret, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), fromStdin)
			if err != nil {
				return err
			}

			sealed, err := c.Seal(secret)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the secret from stdin instead of the terminal")
	return cmd
}

func newOpenCmd() *cobra.Command {
	var opts keyOptions

	cmd := &cobra.Command{
		Use:   "open <sealed>",
		Short: "Open a sealed value with the vault key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.cipher(cmd)
			if err != nil {
				return err
			}

			if !cryptox.IsSealed(args[0]) {
				cmd.PrintErrln(warning.Sprintf("warning: value is not in sealed form, printing it unchanged"))
			}

			plain, err := c.Open(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plain)
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}
