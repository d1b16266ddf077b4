package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credvault/internal/server/config"
	gs "github.com/dmitrijs2005/credvault/internal/server/grpc"
	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that a vault server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := gs.Dial(addr)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resp, err := gs.NewClient(conn).Ping(ctx, &gs.PingRequest{})
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), failure.Sprintf("✗ %s unreachable", addr))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), success.Sprintf("✓ %s answered %s", highlight.Sprintf("%s", addr), resp.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", envOr(config.EnvGRPCAddr, "localhost:50051"), "server address")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "request timeout")
	return cmd
}
