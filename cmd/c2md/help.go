package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: c2md <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  transcribe Transcribe workout pages to markdown")
	fmt.Fprintln(w, "  image      Print the monitor image address of a workout")
	fmt.Fprintln(w, "  enhance    Open a workout page with copy and image controls")
	fmt.Fprintln(w, "  doctor     Check Chrome, clipboard and config")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A workout address or saved .html page as first argument runs transcribe.")
	fmt.Fprintln(w, "Run 'c2md help <command>' for details on a specific command.")
}

// printTranscribeUsage prints usage for the transcribe command.
func printTranscribeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: c2md transcribe <url|file.html|->... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Transcribe Concept2 logbook workout pages to markdown.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  url        Workout address, e.g. https://log.concept2.com/profile/1/log/987654")
	fmt.Fprintln(w, "  file.html  Saved workout page")
	fmt.Fprintln(w, "  -          Read a saved page from standard input")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Write <id>.md files (default: stdout)")
	fmt.Fprintln(w, "      --copy                Copy the markdown to the clipboard (single input)")
	fmt.Fprintln(w, "      --html                Also write an <id>.html preview")
	fmt.Fprintln(w, "      --style <s>           Preview CSS: style name, file path, or CSS")
	fmt.Fprintln(w, "      --host <host>         Logbook host for image links")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "      --page-url <url>      Address of a saved page without canonical link")
	fmt.Fprintln(w, "  -t, --timeout <d>         Page load timeout (e.g., 30s, 1m)")
	fmt.Fprintln(w, "      --cookie <s>          Cookie header for private workouts")
	fmt.Fprintln(w, "      --user-agent <s>      User-Agent header")
	fmt.Fprintln(w, "      --browser             Fetch pages through headless Chrome")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome executable")
	fmt.Fprintln(w, "      --user-data-dir <dir> Chrome profile holding the logbook session")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  C2MD_CONFIG, C2MD_COOKIE, C2MD_TIMEOUT, C2MD_HOST, C2MD_OUTPUT_DIR,")
	fmt.Fprintln(w, "  C2MD_STYLE, C2MD_BROWSER_BIN, C2MD_USER_DATA_DIR, C2MD_USER_AGENT,")
	fmt.Fprintln(w, "  C2MD_WORKERS. A .env file in the current directory is read too.")
}

// printImageUsage prints usage for the image command.
func printImageUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: c2md image <url>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the monitor image address of each workout. No network access.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --host <host>         Logbook host for image links")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printEnhanceUsage prints usage for the enhance command.
func printEnhanceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: c2md enhance <url> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open the workout page in Chrome and add a \"View Workout Image\" link and a")
	fmt.Fprintln(w, "\"Copy as Markdown\" button. Runs until the tab is closed or Ctrl+C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Page load timeout (e.g., 30s, 1m)")
	fmt.Fprintln(w, "      --confirm-for <d>     How long the button shows \"Copied!\" (default 2s)")
	fmt.Fprintln(w, "      --host <host>         Logbook host for image links")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome executable")
	fmt.Fprintln(w, "      --user-data-dir <dir> Chrome profile holding the logbook session")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: c2md doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the system clipboard, and the effective configuration.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "transcribe":
		printTranscribeUsage(env.Stdout)
	case "image":
		printImageUsage(env.Stdout)
	case "enhance":
		printEnhanceUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: c2md version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: c2md help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
