// Package config loads, validates, and normalizes the scorescan
// configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and bind address configuration.
type Paths struct {
	APIBind  string `toml:"api_bind"`
	LogFile  string `toml:"log_file"`
	LockFile string `toml:"lock_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Vision contains configuration for the OCR service.
type Vision struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains connection settings for the reasoning model used by
// identification and ranking.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// YouTube contains configuration for the video platform API.
type YouTube struct {
	APIKeys              []string `toml:"api_keys"`
	BaseURL              string   `toml:"base_url"`
	SearchTimeoutSeconds int      `toml:"search_timeout_seconds"`
	DetailTimeoutSeconds int      `toml:"detail_timeout_seconds"`
	SearchResults        int      `toml:"search_results"`
	DetailBatchSize      int      `toml:"detail_batch_size"`
}

// Scanner contains pipeline tuning knobs.
type Scanner struct {
	DefaultInstrument     string  `toml:"default_instrument"`
	MaxVideos             int     `toml:"max_videos"`
	HighAccuracyThreshold float64 `toml:"high_accuracy_threshold"`
}

// Config encapsulates all configuration values for scorescan.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
	Vision  Vision  `toml:"vision"`
	LLM     LLM     `toml:"llm"`
	YouTube YouTube `toml:"youtube"`
	Scanner Scanner `toml:"scanner"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scorescan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scorescan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to the supplied path,
// refusing to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists: %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() error {
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Scanner.DefaultInstrument = strings.ToLower(strings.TrimSpace(c.Scanner.DefaultInstrument))

	for _, field := range []*string{&c.Vision.BaseURL, &c.LLM.BaseURL, &c.YouTube.BaseURL} {
		*field = strings.TrimRight(strings.TrimSpace(*field), "/")
	}

	keys := make([]string, 0, len(c.YouTube.APIKeys))
	for _, key := range c.YouTube.APIKeys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	c.YouTube.APIKeys = keys

	for _, pair := range []struct {
		field *string
	}{{&c.Paths.LogFile}, {&c.Paths.LockFile}} {
		if strings.TrimSpace(*pair.field) == "" {
			continue
		}
		expanded, err := expandPath(*pair.field)
		if err != nil {
			return err
		}
		*pair.field = expanded
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		pathValue = filepath.Join(home, strings.TrimPrefix(pathValue, "~"))
	}
	return filepath.Abs(pathValue)
}
