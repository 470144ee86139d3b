// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-c2md/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" && os.Getenv("C2MD_BROWSER_BIN") == "" {
		hints = append(hints, "set C2MD_BROWSER_BIN to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow pages.
func ForTimeout() string {
	return format("for slow connections, use --timeout (e.g. --timeout 1m)")
}

// ForNotWorkoutPage explains why an address was rejected.
// redirected means the requested address was a workout page but the logbook
// answered with another one, usually its login page.
func ForNotWorkoutPage(redirected bool) string {
	if redirected {
		return formatHints([]string{
			"the logbook redirected away from the workout",
			"private workouts need --cookie (or C2MD_COOKIE) or --browser with a logged-in --user-data-dir",
		})
	}
	return format("workout addresses end with a numeric id, e.g. https://log.concept2.com/profile/<user>/log/<id>")
}

// ForMissingPageURL returns a hint for saved pages that declare no address.
func ForMissingPageURL() string {
	return format("the saved page has no canonical link; pass --page-url")
}

// ForClipboard returns hints for an unavailable system clipboard.
func ForClipboard(goos string) string {
	hints := []string{}
	if goos == "linux" || goos == "freebsd" || goos == "openbsd" || goos == "netbsd" {
		hints = append(hints, "install xclip, xsel or wl-clipboard")
	}
	hints = append(hints, "or enable clipboard.osc52 for terminals that support it")
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/c2md/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/c2md") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for preview style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
