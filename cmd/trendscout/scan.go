package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"trendscout/pkg/auth"
	"trendscout/pkg/config"
	"trendscout/pkg/executor"
	"trendscout/pkg/instagram"
	"trendscout/pkg/logger"
	"trendscout/pkg/models"
	"trendscout/pkg/report"
	"trendscout/pkg/scanner"
	"trendscout/pkg/storage"
)

var (
	// Scan command flags
	scanTags    []string
	outputFile  string
	reportFile  string
	perTagLimit int
	testMode    bool
	sessionID   string
	csrfToken   string
	accountName string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the configured hashtags for viral posts",
	Long: `Scan the configured hashtags for posts with outlier engagement.

Each tag is scanned most-recent-first until a post older than the
configured age window appears. Surviving posts go through the follower
range and engagement rate filters; matches are scored and ranked.

The scan paces itself like a human browsing session, so a full run
takes a while. Interrupt with Ctrl-C at any time; results collected so
far are still saved.`,
	Example: `  # Scan with the configured defaults
  trendscout scan

  # Scan two specific tags, five posts each
  trendscout scan --tags webdesign,uiux --limit 5

  # Quick smoke test against one tag
  trendscout scan --test-mode --tags webdesign

  # Write an HTML chart report alongside the snapshot
  trendscout scan --report trends.html`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanTags, "tags", nil, "comma-separated hashtags to scan (overrides config)")
	scanCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file for the JSON snapshot")
	scanCmd.Flags().StringVar(&reportFile, "report", "", "write an HTML chart report to this file")
	scanCmd.Flags().IntVar(&perTagLimit, "limit", 0, "maximum posts to evaluate per tag (0 = unlimited)")
	scanCmd.Flags().BoolVar(&testMode, "test-mode", false, "evaluate only a handful of posts per tag")
	scanCmd.Flags().StringVar(&sessionID, "session-id", "", "Instagram session ID")
	scanCmd.Flags().StringVar(&csrfToken, "csrf-token", "", "Instagram CSRF token")
	scanCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")

	// Mirror the scan flags on the root command so a bare invocation works
	rootCmd.Flags().StringSliceVar(&scanTags, "tags", nil, "comma-separated hashtags to scan (overrides config)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file for the JSON snapshot")
	rootCmd.Flags().StringVar(&reportFile, "report", "", "write an HTML chart report to this file")
	rootCmd.Flags().IntVar(&perTagLimit, "limit", 0, "maximum posts to evaluate per tag (0 = unlimited)")
	rootCmd.Flags().BoolVar(&testMode, "test-mode", false, "evaluate only a handful of posts per tag")
	rootCmd.Flags().StringVar(&sessionID, "session-id", "", "Instagram session ID")
	rootCmd.Flags().StringVar(&csrfToken, "csrf-token", "", "Instagram CSRF token")
	rootCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
}

// testModePerTagLimit is used when --test-mode is set without an
// explicit --limit
const testModePerTagLimit = 5

func runScan(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if sessionID != "" {
		flags["session-id"] = sessionID
	}
	if csrfToken != "" {
		flags["csrf-token"] = csrfToken
	}
	if len(scanTags) > 0 {
		flags["tags"] = cleanTags(scanTags)
	}
	if outputFile != "" {
		flags["output"] = outputFile
	}
	if reportFile != "" {
		flags["report"] = reportFile
	}
	if perTagLimit > 0 {
		flags["limit"] = perTagLimit
	}
	if testMode {
		flags["test-mode"] = true
		if perTagLimit == 0 {
			flags["limit"] = testModePerTagLimit
		}
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	// Fall back to stored accounts when no credentials are configured
	if cfg.Instagram.SessionID == "" || cfg.Instagram.CSRFToken == "" {
		if err := fillCredentialsFromStore(cfg); err != nil {
			log.WithError(err).Error("no Instagram credentials available")
			fmt.Fprintln(os.Stderr, "Missing Instagram credentials.")
			fmt.Fprintln(os.Stderr, "Run 'trendscout auth login' or set TRENDSCOUT_SESSION_ID and TRENDSCOUT_CSRF_TOKEN.")
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	execCfg := executor.DefaultConfig()
	execCfg.MinDelay = cfg.Pacing.MinDelay
	execCfg.MaxDelay = cfg.Pacing.MaxDelay
	execCfg.MaxRetries = cfg.Pacing.MaxRetries
	execCfg.Logger = log
	exec := executor.New(execCfg)

	client := instagram.NewClient(&cfg.Instagram, &cfg.Pacing, log)
	source := instagram.NewSource(client, exec, log)

	writer, err := storage.NewManager(cfg.Output.File)
	if err != nil {
		log.WithError(err).Error("failed to prepare output destination")
		os.Exit(1)
	}

	s := scanner.New(cfg, sourceAdapter{src: source}, source, exec, writer, log)
	if cfg.Output.ReportFile != "" {
		s.SetReporter(report.NewWriter(cfg.Output.ReportFile))
	}

	if err := s.Run(ctx); err != nil {
		if ctx.Err() != nil {
			// Interrupted; partial results were already finalized
			return nil
		}
		log.WithError(err).Error("scan failed")
		os.Exit(1)
	}

	log.InfoWithFields("scan complete", map[string]interface{}{
		"output": writer.OutputPath(),
		"viral":  len(s.Records()),
	})
	return nil
}

// fillCredentialsFromStore resolves credentials from the auth manager,
// preferring the named account when --account is set
func fillCredentialsFromStore(cfg *config.Config) error {
	manager, err := auth.NewManager()
	if err != nil {
		return err
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
	} else {
		account, err = manager.RetrieveDefault()
	}
	if err != nil {
		return err
	}

	cfg.Instagram.SessionID = account.SessionID
	cfg.Instagram.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Instagram.UserAgent = account.UserAgent
	}
	return nil
}

func cleanTags(tags []string) []string {
	var cleaned []string
	for _, t := range tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// sourceAdapter narrows *instagram.Source to the scanner's interfaces
type sourceAdapter struct {
	src *instagram.Source
}

func (a sourceAdapter) OpenTagStream(ctx context.Context, tag string) (scanner.PostStream, error) {
	stream, err := a.src.OpenTagStream(ctx, tag)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (a sourceAdapter) FetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	return a.src.FetchProfile(ctx, username)
}
