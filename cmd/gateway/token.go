package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/app"
	"github.com/aussiebroadwan/jdmatchr/pkg/jwtx"
	"github.com/spf13/cobra"
)

// errInvalidToken makes `token inspect` exit non-zero after printing.
var errInvalidToken = errors.New("invalid token")

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect or mint session tokens",
		Long:  `Inspect or mint session tokens with NEXTAUTH_SECRET. Meant for debugging; minted tokens are real sessions.`,
	}

	cmd.AddCommand(
		tokenInspectCmd(),
		tokenMintCmd(),
	)

	return cmd
}

func tokenInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a session token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()

			claims, err := jwtx.Verify(args[0], cfg.Secret)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid: %v\n", err)
				return errInvalidToken
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(claims)
		},
	}
}

func tokenMintCmd() *cobra.Command {
	var (
		sub     string
		email   string
		name    string
		picture string
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a session token for a backend user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()

			codec, err := jwtx.NewCodec(cfg.Secret, cfg.SessionMaxAge)
			if err != nil {
				return fmt.Errorf("NEXTAUTH_SECRET: %w", err)
			}

			token, err := codec.Encode(jwtx.NewSessionClaims(sub, email, name, picture))
			if err != nil {
				return err
			}

			if cfg.Env == "prod" || cfg.Env == "production" {
				fmt.Fprintln(os.Stderr, "warning: minted a token with the production secret")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Backend user id (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&name, "name", "", "Name claim")
	cmd.Flags().StringVar(&picture, "picture", "", "Picture claim")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}
