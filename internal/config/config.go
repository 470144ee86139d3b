// Package config loads c2md settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-c2md/internal/fileutil"
	"github.com/alnah/go-c2md/internal/yamlutil"
)

// AppDir is the directory name under the user config directory.
const AppDir = "c2md"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxHostLength      = 253  // DNS name limit
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxCookieLength    = 8192 // common server header limit
	MaxUserAgentLength = 512
	MaxDurationLength  = 20 // "1m30s", "2000ms"
)

// Defaults applied before the file is read.
const (
	DefaultHost       = "log.concept2.com"
	DefaultTimeout    = "30s"
	DefaultConfirmFor = "2s"
)

// Config holds all c2md settings.
type Config struct {
	Host      string          `yaml:"host"` // logbook host for image links
	Output    OutputConfig    `yaml:"output"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Browser   BrowserConfig   `yaml:"browser"`
}

// OutputConfig defines where transcriptions go.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = stdout
	HTML       bool   `yaml:"html"`       // Also write an HTML preview
	Style      string `yaml:"style"`      // Preview style: name, path, or CSS (empty = bundled)
}

// FetchConfig defines how workout pages are downloaded.
type FetchConfig struct {
	Timeout   string `yaml:"timeout"`   // Go duration, e.g. "30s"
	Cookie    string `yaml:"cookie"`    // Cookie header for private workouts
	UserAgent string `yaml:"userAgent"` // Empty = c2md default
	Browser   bool   `yaml:"browser"`   // Fetch through headless Chrome
}

// ClipboardConfig defines copy behavior.
type ClipboardConfig struct {
	Enabled    bool   `yaml:"enabled"`    // Allow --copy and the enhance button
	ConfirmFor string `yaml:"confirmFor"` // How long "Copied!" stays, e.g. "2s"
	OSC52      bool   `yaml:"osc52"`      // Terminal fallback when no clipboard utility exists
}

// BrowserConfig defines the Chrome instance.
type BrowserConfig struct {
	Bin         string `yaml:"bin"`         // Empty = ROD_BROWSER_BIN or rod-managed Chromium
	Headless    bool   `yaml:"headless"`    // Applies to fetch; enhance is always visible
	UserDataDir string `yaml:"userDataDir"` // Chrome profile holding the logbook session
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Host:      DefaultHost,
		Fetch:     FetchConfig{Timeout: DefaultTimeout},
		Clipboard: ClipboardConfig{Enabled: true, ConfirmFor: DefaultConfirmFor, OSC52: true},
		Browser:   BrowserConfig{Headless: true},
	}
}

// Validate checks field lengths and formats.
// Called automatically by LoadConfig, but available for callers that build
// a Config from flags or environment variables.
func (c *Config) Validate() error {
	if err := validateFieldLength("host", c.Host, MaxHostLength); err != nil {
		return err
	}
	if c.Host == "" || strings.ContainsAny(c.Host, "/?#@ \t\n") {
		return fmt.Errorf("%w: host %q (expected a bare host name like %s)", ErrInvalidField, c.Host, DefaultHost)
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.style", c.Output.Style, MaxPathLength); err != nil {
		return err
	}

	if _, err := parsePositiveDuration("fetch.timeout", c.Fetch.Timeout); err != nil {
		return err
	}
	if err := validateFieldLength("fetch.cookie", c.Fetch.Cookie, MaxCookieLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Fetch.Cookie, "\r\n") {
		return fmt.Errorf("%w: fetch.cookie must be a single line", ErrInvalidField)
	}
	if err := validateFieldLength("fetch.userAgent", c.Fetch.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}

	if _, err := parsePositiveDuration("clipboard.confirmFor", c.Clipboard.ConfirmFor); err != nil {
		return err
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.userDataDir", c.Browser.UserDataDir, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// FetchTimeout returns fetch.timeout as a duration, or the default when unset.
func (c *Config) FetchTimeout() time.Duration {
	return durationOrDefault(c.Fetch.Timeout, DefaultTimeout)
}

// ConfirmFor returns clipboard.confirmFor as a duration, or the default when unset.
func (c *Config) ConfirmFor() time.Duration {
	return durationOrDefault(c.Clipboard.ConfirmFor, DefaultConfirmFor)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// parsePositiveDuration parses a Go duration. Empty means "use the default".
func parsePositiveDuration(fieldName, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	if err := validateFieldLength(fieldName, value, MaxDurationLength); err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, fieldName, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidField, fieldName, value)
	}
	return d, nil
}

func durationOrDefault(value, def string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(def)
	}
	return d
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/c2md/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
