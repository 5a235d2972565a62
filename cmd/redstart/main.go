package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/FishingHacks/redstart/internal/cli"
	"github.com/FishingHacks/redstart/internal/rsproj"
)

// version is set via ldflags during build.
var version = "dev"

// main is the entrypoint for the redstart application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		os.Exit(report(os.Stderr, err))
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	// The app panics on programmer errors such as a module whose manifest
	// does not match its Go input, so recover to exit with a clean message.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	return cli.Execute(ctx, args, outW, errW, version)
}

// report prints err and returns the process exit code for it. Project file
// errors are shown with the offending part of the file.
func report(w io.Writer, err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(w, exitErr.Message)
		return exitErr.Code
	}

	var parseErr *rsproj.Error
	if errors.As(err, &parseErr) {
		fmt.Fprint(w, parseErr.Render())
		return 1
	}

	fmt.Fprintln(w, "Error:", err)
	return 1
}
