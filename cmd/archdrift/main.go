// Command archdrift extracts structural dependency graphs from codebases
// and diffs them to surface architectural drift.
package main

import (
	"fmt"
	"os"
	"strings"
)

// version is set by goreleaser at build time.
var version = "dev"

// Exit codes: 0 clean, 1 drift detected, 2 error.
const (
	exitClean = 0
	exitDrift = 1
	exitError = 2
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitError)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	if len(args) == 0 {
		usage(os.Stderr)
		return exitError, nil
	}

	switch args[0] {
	case "scan":
		return runScan(args[1:])
	case "diff":
		return runDiff(args[1:])
	case "serve-mcp":
		return runServeMCP(args[1:])
	case "version", "-version", "--version":
		fmt.Println(version)
		return exitClean, nil
	case "help", "-h", "-help", "--help":
		usage(os.Stdout)
		return exitClean, nil
	default:
		usage(os.Stderr)
		return exitError, fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w *os.File) {
	fmt.Fprint(w, `usage: archdrift <command> [flags]

Commands:
  scan        scan a repository and emit its dependency graph
  diff        diff two dependency graphs and report drift
  serve-mcp   expose scan and diff as MCP tools over HTTP
  version     print version and exit

Run 'archdrift <command> -h' for command flags.
`)
}

// splitList parses a comma-separated flag value.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
