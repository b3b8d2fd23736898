// Package main implements capraplan, a command-line front end for the
// decompression engine and planner.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/the-emerald/capra/internal/logging"
)

var verbose bool

// rootCmd is the capraplan command-line entry point.
var rootCmd = &cobra.Command{
	Use:   "capraplan",
	Short: "Plan technical open-circuit decompression dives.",
	Long: `capraplan computes a complete decompression schedule for an open-circuit
dive: every depth change, every mandatory stop and the gas used at it, and
the quantity of each gas consumed.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetVerbose(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
