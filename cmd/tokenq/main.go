// Package main provides the entry point for tokenq.
//
// tokenq runs a background producer that fills a bounded queue with
// unique tokens and serves them over HTTP.
package main

import (
	"os"

	"github.com/randomizedcoder/tokenq/internal/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
