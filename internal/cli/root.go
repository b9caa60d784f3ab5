// Package cli implements the xingtu command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "xingtu",
	Short: "Star ledger and learning tracker",
	Long: `xingtu tracks a child's literacy practice and runs the family star
economy: characters, poems, chores and travel earn stars, and stars are
spent on rewards from a parent-managed catalog.

Run 'xingtu serve' to start the local API server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.xingtu/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
