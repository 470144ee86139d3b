package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnah/go-c2md/internal/config"
)

// envPrefix marks c2md environment variables.
const envPrefix = "C2MD_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // C2MD_CONFIG: config file name or path
	Cookie     string        // C2MD_COOKIE: Cookie header for private workouts
	Timeout    time.Duration // C2MD_TIMEOUT: page load timeout

	// Tier 2 - I/O
	Host      string // C2MD_HOST: logbook host
	OutputDir string // C2MD_OUTPUT_DIR: default output directory
	Style     string // C2MD_STYLE: preview style name or path

	// Tier 3 - Browser
	BrowserBin  string // C2MD_BROWSER_BIN: Chrome executable
	UserDataDir string // C2MD_USER_DATA_DIR: Chrome profile directory
	UserAgent   string // C2MD_USER_AGENT: User-Agent header
	Workers     int    // C2MD_WORKERS: parallel workers
}

// knownEnvVars lists valid C2MD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"C2MD_CONFIG":        true,
	"C2MD_COOKIE":        true,
	"C2MD_TIMEOUT":       true,
	"C2MD_HOST":          true,
	"C2MD_OUTPUT_DIR":    true,
	"C2MD_STYLE":         true,
	"C2MD_BROWSER_BIN":   true,
	"C2MD_USER_DATA_DIR": true,
	"C2MD_USER_AGENT":    true,
	"C2MD_WORKERS":       true,
	"C2MD_CONTAINER":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("C2MD_CONFIG"),
		Cookie:      os.Getenv("C2MD_COOKIE"),
		Host:        os.Getenv("C2MD_HOST"),
		OutputDir:   os.Getenv("C2MD_OUTPUT_DIR"),
		Style:       os.Getenv("C2MD_STYLE"),
		BrowserBin:  os.Getenv("C2MD_BROWSER_BIN"),
		UserDataDir: os.Getenv("C2MD_USER_DATA_DIR"),
		UserAgent:   os.Getenv("C2MD_USER_AGENT"),
	}

	if timeout := os.Getenv("C2MD_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("C2MD_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized C2MD_* variables.
// Helps catch typos like C2MD_COOKIES instead of C2MD_COOKIE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; flags are applied afterwards.
// Precedence: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Host != "" {
		cfg.Host = env.Host
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Style != "" {
		cfg.Output.Style = env.Style
	}
	if env.Cookie != "" {
		cfg.Fetch.Cookie = env.Cookie
	}
	if env.UserAgent != "" {
		cfg.Fetch.UserAgent = env.UserAgent
	}
	if env.BrowserBin != "" {
		cfg.Browser.Bin = env.BrowserBin
	}
	if env.UserDataDir != "" {
		cfg.Browser.UserDataDir = env.UserDataDir
	}
}

// loadDotEnv exports C2MD_* entries of a dotenv file that are not already
// set in the environment. A missing file is not an error.
func loadDotEnv(path string, stderr io.Writer) {
	values, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(stderr, "warning: reading %s: %v\n", path, err)
		}
		return
	}

	for key, value := range values {
		if !strings.HasPrefix(key, envPrefix) || os.Getenv(key) != "" {
			continue
		}
		_ = os.Setenv(key, value)
	}
}

// loadConfig loads the config file named by flag or C2MD_CONFIG, then applies
// environment overrides. Without either, defaults are used.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// resolveTimeoutWithEnv picks the timeout from flag, env, or config.
// Priority: flag > env > config. Returns 0 when all are empty (use default).
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	if flagValue != "" {
		return parseTimeout(flagValue)
	}
	if envValue > 0 {
		return envValue, nil
	}
	if configValue != "" {
		return parseTimeout(configValue)
	}
	return 0, nil
}

// parseTimeout parses a positive Go duration.
func parseTimeout(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q: %v", ErrInvalidTimeout, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidTimeout, value)
	}
	return d, nil
}
