package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"trendscout/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Trend Scout configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TRENDSCOUT_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.trendscout.yaml' in the current directory
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources.

Sensitive values like credentials are masked.`,
	Run: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".trendscout.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(os.Stderr, "configuration file already exists:", configPath)
		os.Exit(1)
	}

	exampleConfig := `# Trend Scout Configuration File
#
# All options can also be set with environment variables prefixed
# with TRENDSCOUT_, e.g. TRENDSCOUT_SESSION_ID, TRENDSCOUT_ER_THRESHOLD.

# Instagram credentials
instagram:
  # Session ID from Instagram cookies (or use 'trendscout auth login')
  session_id: ""

  # CSRF token from Instagram cookies
  csrf_token: ""

  # Browser user agent, leave empty for default
  user_agent: ""

# Viral detection thresholds and target hashtags
scan:
  # Hashtags scanned in this order
  tags:
    - webdesign
    - uidesign
    - webdevelopment
    - creativeagency
    - designtips
    - uiux

  # Minimum engagement rate as a fraction (0.03 = 3%)
  er_threshold: 0.03

  # Creator audience size bounds
  min_followers: 1000
  max_followers: 500000

  # Posts older than this end the tag scan
  max_post_age_days: 45

  # Maximum posts to evaluate per tag, 0 = unlimited
  per_tag_limit: 0

# Request pacing and retries
pacing:
  # Random pause between upstream requests
  min_delay: 15s
  max_delay: 45s

  # Retry budget per request
  max_retries: 3

  # Hard cap on the raw request rate
  requests_per_minute: 60

# Output destinations
output:
  # JSON snapshot of the scan results
  file: viral_trends.json

  # Optional HTML chart report
  report_file: ""

# Logging
logging:
  # debug, info, warn, error
  level: info

  # Optional log file, empty logs to stdout only
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		fmt.Fprintln(os.Stderr, "failed to create configuration file:", err)
		os.Exit(1)
	}

	fmt.Println("Configuration file created:", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Add your Instagram credentials or run 'trendscout auth login'")
	fmt.Println("2. Adjust the tags and thresholds for your niche")
	fmt.Println("3. Start scanning with 'trendscout scan'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	displayCfg := *cfg
	if displayCfg.Instagram.SessionID != "" {
		displayCfg.Instagram.SessionID = maskSecret(displayCfg.Instagram.SessionID)
	}
	if displayCfg.Instagram.CSRFToken != "" {
		displayCfg.Instagram.CSRFToken = maskSecret(displayCfg.Instagram.CSRFToken)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to format configuration:", err)
		os.Exit(1)
	}

	fmt.Println("Current configuration:")
	fmt.Println()
	fmt.Print(string(data))
}
