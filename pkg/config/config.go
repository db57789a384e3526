package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the trend scanner
type Config struct {
	// Instagram credentials and client identity
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Scan thresholds and target hashtags
	Scan ScanConfig `yaml:"scan" json:"scan"`

	// Request pacing and retry configuration
	Pacing PacingConfig `yaml:"pacing" json:"pacing"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// ScanConfig holds the viral detection thresholds and target hashtags
type ScanConfig struct {
	// Tags are scanned in declaration order
	Tags []string `yaml:"tags" json:"tags"`

	// ERThreshold is the minimum engagement rate as a fraction, e.g. 0.03 for 3%
	ERThreshold float64 `yaml:"er_threshold" json:"er_threshold"`

	// MinFollowers and MaxFollowers bound the creator audience size
	MinFollowers int `yaml:"min_followers" json:"min_followers"`
	MaxFollowers int `yaml:"max_followers" json:"max_followers"`

	// MaxPostAgeDays rejects posts older than this many days and,
	// because tag streams are reverse-chronological, ends the tag scan
	MaxPostAgeDays int `yaml:"max_post_age_days" json:"max_post_age_days"`

	// PerTagLimit caps posts evaluated per tag; 0 means unlimited
	PerTagLimit int `yaml:"per_tag_limit" json:"per_tag_limit"`

	// TestMode enables the per-tag limit regardless of other outcomes
	TestMode bool `yaml:"test_mode" json:"test_mode"`
}

// PacingConfig holds humanized pacing and retry configuration
type PacingConfig struct {
	// MinDelay and MaxDelay bound the random pre-request pause
	MinDelay time.Duration `yaml:"min_delay" json:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay" json:"max_delay"`

	// MaxRetries is the retry budget per guarded request
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// RequestsPerMinute caps the raw HTTP request rate
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// OutputConfig holds output destination configuration
type OutputConfig struct {
	// File is the JSON snapshot written at the end of a run
	File string `yaml:"file" json:"file"`

	// ReportFile, when set, is the HTML chart report destination
	ReportFile string `yaml:"report_file" json:"report_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
		},
		Scan: ScanConfig{
			Tags: []string{
				"webdesign",
				"uidesign",
				"webdevelopment",
				"creativeagency",
				"designtips",
				"uiux",
			},
			ERThreshold:    0.03,
			MinFollowers:   1000,
			MaxFollowers:   500000,
			MaxPostAgeDays: 45,
		},
		Pacing: PacingConfig{
			MinDelay:          15 * time.Second,
			MaxDelay:          45 * time.Second,
			MaxRetries:        3,
			RequestsPerMinute: 60,
		},
		Output: OutputConfig{
			File: "viral_trends.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("TRENDSCOUT_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("TRENDSCOUT_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("TRENDSCOUT_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if tags := os.Getenv("TRENDSCOUT_TAGS"); tags != "" {
		c.Scan.Tags = splitTags(tags)
	}
	if er := os.Getenv("TRENDSCOUT_ER_THRESHOLD"); er != "" {
		if val, err := strconv.ParseFloat(er, 64); err == nil {
			c.Scan.ERThreshold = val
		}
	}
	if min := os.Getenv("TRENDSCOUT_MIN_FOLLOWERS"); min != "" {
		if val, err := strconv.Atoi(min); err == nil {
			c.Scan.MinFollowers = val
		}
	}
	if max := os.Getenv("TRENDSCOUT_MAX_FOLLOWERS"); max != "" {
		if val, err := strconv.Atoi(max); err == nil {
			c.Scan.MaxFollowers = val
		}
	}
	if age := os.Getenv("TRENDSCOUT_POST_AGE_DAYS"); age != "" {
		if val, err := strconv.Atoi(age); err == nil {
			c.Scan.MaxPostAgeDays = val
		}
	}

	if min := os.Getenv("TRENDSCOUT_MIN_DELAY_SECONDS"); min != "" {
		if val, err := strconv.Atoi(min); err == nil {
			c.Pacing.MinDelay = time.Duration(val) * time.Second
		}
	}
	if max := os.Getenv("TRENDSCOUT_MAX_DELAY_SECONDS"); max != "" {
		if val, err := strconv.Atoi(max); err == nil {
			c.Pacing.MaxDelay = time.Duration(val) * time.Second
		}
	}

	if file := os.Getenv("TRENDSCOUT_OUTPUT_FILE"); file != "" {
		c.Output.File = file
	}
	if logLevel := os.Getenv("TRENDSCOUT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "#"))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".trendscout.yaml",
		".trendscout.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "trendscout", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "trendscout", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".trendscout.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// It must pass before any network activity happens.
func (c *Config) Validate() error {
	var errs []error

	if c.Scan.ERThreshold <= 0 || c.Scan.ERThreshold > 1 {
		errs = append(errs, fmt.Errorf("er_threshold must be in (0, 1], got %v", c.Scan.ERThreshold))
	}
	if c.Scan.MinFollowers >= c.Scan.MaxFollowers {
		errs = append(errs, errors.New("min_followers must be less than max_followers"))
	}
	if c.Scan.MaxPostAgeDays <= 0 {
		errs = append(errs, fmt.Errorf("max_post_age_days must be positive, got %d", c.Scan.MaxPostAgeDays))
	}
	if len(c.Scan.Tags) == 0 {
		errs = append(errs, errors.New("at least one target tag is required"))
	}
	if c.Scan.PerTagLimit < 0 {
		errs = append(errs, errors.New("per_tag_limit cannot be negative"))
	}

	if c.Pacing.MinDelay >= c.Pacing.MaxDelay {
		errs = append(errs, errors.New("min_delay must be less than max_delay"))
	}
	if c.Pacing.MaxRetries < 0 {
		errs = append(errs, errors.New("max_retries cannot be negative"))
	}
	if c.Pacing.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests_per_minute must be positive"))
	}

	if c.Output.File == "" {
		errs = append(errs, errors.New("output file is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if tags, ok := flags["tags"].([]string); ok && len(tags) > 0 {
		c.Scan.Tags = tags
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Output.File = output
	}
	if report, ok := flags["report"].(string); ok && report != "" {
		c.Output.ReportFile = report
	}
	if limit, ok := flags["limit"].(int); ok && limit > 0 {
		c.Scan.PerTagLimit = limit
	}
	if testMode, ok := flags["test-mode"].(bool); ok && testMode {
		c.Scan.TestMode = true
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".trendscout.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
