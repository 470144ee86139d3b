package main

import (
	"fmt"

	c2md "github.com/alnah/go-c2md"
	"github.com/alnah/go-c2md/internal/hints"
)

// runImage prints the monitor image address of each workout address.
// No network access is made.
func runImage(args []string, env *Environment) error {
	flags, inputs, err := parseImageFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: pass a workout address", ErrNoInput)
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return withConfigHint(err)
	}
	if flags.host != "" {
		cfg.Host = flags.host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	for _, in := range inputs {
		id, err := c2md.WorkoutID(in)
		if err != nil {
			logger.Info("not a workout page, skipping", "url", in)
			return fmt.Errorf("%w%s", err, hints.ForNotWorkoutPage(false))
		}
		fmt.Fprintln(env.Stdout, c2md.ImageURL(cfg.Host, id))
	}
	return nil
}
