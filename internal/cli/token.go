package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/inventory-simulator/internal/auth"
	"github.com/rogerio-castellano/inventory-simulator/internal/config"
)

type TokenOptions struct {
	*RootOptions
	Subject string
	TTL     time.Duration
}

// NewTokenCommand creates the token command, which mints a bearer token for
// the simulation control routes.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for /api/sim/start and /api/sim/stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not set; the control routes are open")
			}

			token, err := auth.NewTokenManager(cfg.JWTSecret).GenerateToken(opts.Subject, opts.TTL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
