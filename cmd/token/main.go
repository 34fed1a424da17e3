// Command token mints a development bearer token for an owner id, signed
// with JWT_SECRET from the environment or .env.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"task-tracker/pkg/config"
	"task-tracker/pkg/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Mint a signed JWT for a task owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			token, err := utils.GenerateToken(args[0], email, cfg.JWT.Issuer, cfg.JWT.Secret, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime (0 = no expiry)")

	return cmd
}
