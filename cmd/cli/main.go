package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/vk/droidkit/internal/app"
	"github.com/vk/droidkit/internal/cli"
	"github.com/vk/droidkit/internal/model"
)

var (
	// errorStyle renders expected build failures: short, red, no trace.
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	// successStyle renders the final artifact line.
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

// main is the entrypoint for the droidkit application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		if be, ok := model.AsBuildError(err); ok {
			// Expected failure: the short message only. The captured tool
			// output is already on the debug log.
			fmt.Fprintln(os.Stderr, errorStyle.Render("build failed: "+be.Message))
			os.Exit(1)
		}
		// Internal error: the full wrapped chain aids debugging.
		fmt.Fprintln(os.Stderr, errorStyle.Render("internal error:"), err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	droidkitApp := app.New(os.Stderr, appConfig)
	artifact, err := droidkitApp.Run(context.Background())
	if err != nil {
		return err
	}
	if artifact != "" {
		fmt.Fprintln(outW, successStyle.Render(artifact))
	}
	return nil
}
