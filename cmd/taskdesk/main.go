// Package main is the entry point for the taskdesk CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/cli"
	"github.com/runoshun/taskdesk/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

var newRootCommand = cli.NewRootCommand

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	container, err := app.New(cwd)
	if err != nil {
		// Help, version and the fake server work without an API endpoint
		if errors.Is(err, domain.ErrMissingBaseURL) {
			return runWithoutContainer(err)
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	return newRootCommand(container, version).Execute()
}

// runWithoutContainer runs the commands that need no API client and
// returns initErr for everything else.
func runWithoutContainer(initErr error) error {
	if !canRunWithoutContainer(os.Args[1:]) {
		return initErr
	}
	return newRootCommand(nil, version).Execute()
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "help", "serve-fake":
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
