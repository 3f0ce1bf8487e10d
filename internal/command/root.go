// Package command provides the CLI command definitions for tokenq.
//
// It uses urfave/cli/v2 for command parsing.
package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "tokenq",
		Usage:   "bounded token queue with a background producer",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Commands: []*cli.Command{
			ServeCommand(),
			TakeCommand(),
			BenchCommand(),
		},
	}
}

// stderr receives PrintError output.
var stderr io.Writer = os.Stderr

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(stderr, "error: "+format+"\n", args...)
}
