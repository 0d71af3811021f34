// Coachsite serves the coaching business website and its booking form.
//
// It renders the marketing pages, runs the booking form with its
// submission lifecycle, and can announce itself on the local network so
// the site can be previewed from phones and tablets.
//
// Usage:
//
//	coachsite [command] [flags]
//
// See 'coachsite --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/coachsite/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath is the --config flag shared by every command.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "coachsite",
	Short: "Coaching website and booking form",
	Long: `Coachsite serves a coaching business website: home, about, services and
FAQ pages plus a booking inquiry form.

Settings are read from flags, COACHSITE_* environment variables and an
optional YAML config file, in that order of precedence.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the platform config dir)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "coachsite %s\n", version.Full())
	},
}
