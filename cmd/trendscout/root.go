package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command. Invoked without a subcommand it
// runs a scan, so `trendscout` alone starts the default workflow.
var rootCmd = &cobra.Command{
	Use:   "trendscout",
	Short: "Instagram hashtag scanner for viral niche content",
	Long: `Trend Scout scans Instagram hashtags for posts whose engagement is
an outlier relative to the creator's audience size.

Posts pass a two-stage filter: a local age and engagement check first,
then a profile-based follower range and engagement rate check. Matches
are scored, ranked, and written to a JSON snapshot.

Credentials come from stored accounts ('trendscout auth login'),
environment variables (TRENDSCOUT_SESSION_ID, TRENDSCOUT_CSRF_TOKEN),
or the configuration file.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logLevel = "error"
		}
	},
	Args: cobra.NoArgs,
	RunE: runScan,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .trendscout.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`Trend Scout {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
