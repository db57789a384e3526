package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trendscout/pkg/report"
	"trendscout/pkg/storage"
)

var reportOutput string

// reportCmd regenerates the HTML chart report from a saved snapshot,
// without running a new scan
var reportCmd = &cobra.Command{
	Use:   "report <snapshot.json>",
	Short: "Render an HTML chart report from a saved snapshot",
	Example: `  # Render viral_trends.json to trends.html
  trendscout report viral_trends.json

  # Choose the report destination
  trendscout report viral_trends.json --output weekly.html`,
	Args: cobra.ExactArgs(1),
	Run:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "trends.html", "report destination")
}

func runReport(cmd *cobra.Command, args []string) {
	manager, err := storage.NewManager(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open snapshot:", err)
		os.Exit(1)
	}

	records, err := manager.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load snapshot:", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "snapshot contains no records")
		os.Exit(1)
	}

	if err := report.NewWriter(reportOutput).Write(records); err != nil {
		fmt.Fprintln(os.Stderr, "failed to render report:", err)
		os.Exit(1)
	}

	fmt.Println("Report written:", reportOutput)
}
