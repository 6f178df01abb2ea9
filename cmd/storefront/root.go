package main

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	ConfigFile string
	EnvFile    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront catalog and cart engine",
		Long: `Storefront keeps a product catalog and a shopping cart in sync with a data source.

"serve" runs a session against the configured data source and exposes it as a JSON API.
"backend" runs the demo data source serving products and stock levels.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to the YAML config file (default config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "path to the dotenv file (default .env)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newBackendCommand(opts))

	return cmd
}
