package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gateway",
		Short: "JDMatchr session gateway",
		Long: `The JDMatchr gateway signs users in with credentials or an OAuth
provider, keeps the session in an HS256 cookie and forwards it as a bearer
token to the Analysis Backend.

Running without a subcommand starts the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(
		serveCmd(),
		tokenCmd(),
	)

	return root
}
