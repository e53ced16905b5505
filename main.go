package main

import (
	"fmt"
	"os"
	"time"

	"tmf-api/internal/auth"
	"tmf-api/internal/config"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tmf-api",
		Short:         "TMF Open API resource server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(seedCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func tokenCmd(configPath *string) *cobra.Command {
	var (
		scopes []string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token [subject]",
		Short: "Issue a bearer token signed with auth.jwt_secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := auth.NewService(cfg.Auth.JWTSecret, ttl).IssueToken(args[0], scopes)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&scopes, "scopes", "s", nil, "Scopes to embed in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to auth.token_ttl)")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tmf-api "+Version)
		},
	}
}
