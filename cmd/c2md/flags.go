package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// fetchFlags holds page download flags.
type fetchFlags struct {
	timeout   string
	cookie    string
	userAgent string
	browser   bool
}

// browserFlags holds Chrome flags.
type browserFlags struct {
	bin         string
	userDataDir string
}

// transcribeFlags holds all flags for the transcribe command.
type transcribeFlags struct {
	common  commonFlags
	fetch   fetchFlags
	browser browserFlags
	host    string
	output  string
	workers int
	pageURL string
	copy    bool
	html    bool
	style   string
}

// imageFlags holds flags for the image command.
type imageFlags struct {
	common commonFlags
	host   string
}

// enhanceFlags holds flags for the enhance command.
type enhanceFlags struct {
	common     commonFlags
	browser    browserFlags
	host       string
	timeout    string
	confirmFor string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addHostFlag adds the logbook host flag to a FlagSet.
func addHostFlag(fs *flag.FlagSet, host *string) {
	fs.StringVar(host, "host", "", "logbook host for image links (default log.concept2.com)")
}

// addFetchFlags adds page download flags to a FlagSet.
func addFetchFlags(fs *flag.FlagSet, f *fetchFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load timeout (e.g., 30s, 1m)")
	fs.StringVar(&f.cookie, "cookie", "", "Cookie header for private workouts")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent header")
	fs.BoolVar(&f.browser, "browser", false, "fetch pages through headless Chrome")
}

// addBrowserFlags adds Chrome flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome executable path")
	fs.StringVar(&f.userDataDir, "user-data-dir", "", "Chrome profile holding the logbook session")
}

// buildTranscribeFlagSet registers transcribe flags into a new FlagSet.
// Shared by parsing and completion.
func buildTranscribeFlagSet(f *transcribeFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("transcribe", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: stdout)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.pageURL, "page-url", "", "page address for a saved HTML input")
	fs.BoolVar(&f.copy, "copy", false, "copy the markdown to the clipboard")
	fs.BoolVar(&f.html, "html", false, "also write an HTML preview")
	fs.StringVar(&f.style, "style", "", "preview CSS: style name, file path, or CSS")
	addHostFlag(fs, &f.host)
	addFetchFlags(fs, &f.fetch)
	addBrowserFlags(fs, &f.browser)
	addCommonFlags(fs, &f.common)

	return fs
}

// buildImageFlagSet registers image flags into a new FlagSet.
func buildImageFlagSet(f *imageFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("image", flag.ContinueOnError)
	addHostFlag(fs, &f.host)
	addCommonFlags(fs, &f.common)
	return fs
}

// buildEnhanceFlagSet registers enhance flags into a new FlagSet.
func buildEnhanceFlagSet(f *enhanceFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("enhance", flag.ContinueOnError)
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load timeout (e.g., 30s, 1m)")
	fs.StringVar(&f.confirmFor, "confirm-for", "", "how long the button shows \"Copied!\" (e.g., 2s)")
	addHostFlag(fs, &f.host)
	addBrowserFlags(fs, &f.browser)
	addCommonFlags(fs, &f.common)
	return fs
}

// parseTranscribeFlags parses transcribe command flags and returns positional args.
func parseTranscribeFlags(args []string, stderr io.Writer) (*transcribeFlags, []string, error) {
	f := &transcribeFlags{}
	fs := buildTranscribeFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printTranscribeUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, flagError(err)
	}
	return f, fs.Args(), nil
}

// parseImageFlags parses image command flags and returns positional args.
func parseImageFlags(args []string, stderr io.Writer) (*imageFlags, []string, error) {
	f := &imageFlags{}
	fs := buildImageFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printImageUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, flagError(err)
	}
	return f, fs.Args(), nil
}

// parseEnhanceFlags parses enhance command flags and returns positional args.
func parseEnhanceFlags(args []string, stderr io.Writer) (*enhanceFlags, []string, error) {
	f := &enhanceFlags{}
	fs := buildEnhanceFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printEnhanceUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, flagError(err)
	}
	return f, fs.Args(), nil
}

// flagError marks parse failures as usage errors. Help requests pass through.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}
