package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate checks configuration values that would otherwise fail at an
// awkward point mid-scan. API keys are intentionally not required here so
// the CLI can still print help and write sample configs without them;
// RequireCredentials covers the pipeline entry points.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.APIBind != "" {
		if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
			problems = append(problems, fmt.Sprintf("paths.api_bind %q is not host:port", c.Paths.APIBind))
		}
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q must be debug, info, warn, or error", c.Logging.Level))
	}

	if c.Vision.TimeoutSeconds <= 0 {
		problems = append(problems, "vision.timeout_seconds must be positive")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		problems = append(problems, "llm.timeout_seconds must be positive")
	}
	if c.LLM.MaxTokens <= 0 {
		problems = append(problems, "llm.max_tokens must be positive")
	}
	if c.YouTube.SearchTimeoutSeconds <= 0 {
		problems = append(problems, "youtube.search_timeout_seconds must be positive")
	}
	if c.YouTube.DetailTimeoutSeconds <= 0 {
		problems = append(problems, "youtube.detail_timeout_seconds must be positive")
	}
	if c.YouTube.SearchResults <= 0 || c.YouTube.SearchResults > 50 {
		problems = append(problems, "youtube.search_results must be between 1 and 50")
	}
	if c.YouTube.DetailBatchSize <= 0 {
		problems = append(problems, "youtube.detail_batch_size must be positive")
	}
	if c.Scanner.MaxVideos <= 0 {
		problems = append(problems, "scanner.max_videos must be positive")
	}
	if c.Scanner.HighAccuracyThreshold < 0 || c.Scanner.HighAccuracyThreshold > 10 {
		problems = append(problems, "scanner.high_accuracy_threshold must be within [0, 10]")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// RequireCredentials verifies that every upstream credential needed to run
// a scan is present.
func (c *Config) RequireCredentials() error {
	var missing []string
	if strings.TrimSpace(c.Vision.APIKey) == "" {
		missing = append(missing, "vision.api_key")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "llm.api_key")
	}
	if len(c.YouTube.APIKeys) == 0 {
		missing = append(missing, "youtube.api_keys")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}
