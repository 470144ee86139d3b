package main

import (
	"context"
	"errors"
	"fmt"

	c2md "github.com/alnah/go-c2md"
	"github.com/alnah/go-c2md/internal/config"
)

// runEnhance opens a workout page in a visible Chrome window, injects the
// image link and copy button, and waits until the tab is closed or the
// process is interrupted.
func runEnhance(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseEnhanceFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(inputs) != 1 {
		return fmt.Errorf("%w: pass exactly one workout address", ErrNoInput)
	}
	pageURL := inputs[0]

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return withConfigHint(err)
	}
	mergeEnhanceFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Clipboard.Enabled {
		return fmt.Errorf("%w: set clipboard.enabled to true", ErrClipboardDisabled)
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Fetch.Timeout)
	if err != nil {
		return err
	}

	opts := []c2md.Option{c2md.WithHost(cfg.Host), c2md.WithLogger(logger)}
	if timeout > 0 {
		opts = append(opts, c2md.WithTimeout(timeout))
	}
	t, err := c2md.NewTranscriber(opts...)
	if err != nil {
		return err
	}
	defer t.Close()

	enhancer := c2md.NewEnhancer(t,
		c2md.WithEnhancerBrowser(c2md.BrowserOptions{
			Bin:         cfg.Browser.Bin,
			Headless:    false,
			UserDataDir: cfg.Browser.UserDataDir,
		}),
		c2md.WithConfirmFor(cfg.ConfirmFor()),
		c2md.WithClipboard(c2md.NewClipboardWriter(c2md.WithClipboardLogger(logger))),
		c2md.WithEnhancerLogger(logger),
	)
	defer enhancer.Close()

	page, err := enhancer.Open(ctx, pageURL)
	if err != nil {
		return withTranscribeHint(err, pageURL)
	}
	defer page.Close()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Enhanced %s\nClose the tab or press Ctrl+C to exit.\n", page.URL())
	}

	if err := page.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// mergeEnhanceFlags merges CLI flags into config. CLI values override config values.
func mergeEnhanceFlags(flags *enhanceFlags, cfg *config.Config) {
	if flags.host != "" {
		cfg.Host = flags.host
	}
	if flags.confirmFor != "" {
		cfg.Clipboard.ConfirmFor = flags.confirmFor
	}
	if flags.browser.bin != "" {
		cfg.Browser.Bin = flags.browser.bin
	}
	if flags.browser.userDataDir != "" {
		cfg.Browser.UserDataDir = flags.browser.userDataDir
	}
}
