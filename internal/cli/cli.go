package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/droidkit/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("droidkit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
droidkit - Android game project builder.

Usage:
  droidkit [options] APP_PATH

Arguments:
  APP_PATH
    Path to the game app directory containing manifest.json.

Options:
`)
		flagSet.PrintDefaults()
	}

	debugFlag := flagSet.Bool("debug", true, "Build the debug scheme.")
	releaseFlag := flagSet.Bool("release", false, "Build the release scheme.")
	signingFlag := flagSet.Bool("signing", false, "Sign the package even for a debug build.")
	apkFlag := flagSet.Bool("apk", true, "Assemble the APK. false stops after the project tree is prepared.")
	repackFlag := flagSet.Bool("repack", false, "Skip project creation and repackage the existing project tree.")
	installFlag := flagSet.Bool("install", false, "Install the packaged APK on every connected device.")
	openFlag := flagSet.Bool("open", false, "Launch the app on every device after installing.")
	clearStorageFlag := flagSet.Bool("clearStorage", false, "Clear the app's storage on every device after installing.")
	revealFlag := flagSet.Bool("reveal", false, "Reveal the packaged APK in the file manager.")
	outputFlag := flagSet.String("output", "", "Output directory for the generated project and APK. Defaults to <APP_PATH>/build.")
	modulesPathFlag := flagSet.String("modules-path", "", "Path to the directory containing plugin modules. Defaults to <APP_PATH>/modules.")
	minSDKFlag := flagSet.Int("min-sdk-version", 0, "Override the minimum Android SDK version.")
	targetSDKFlag := flagSet.Int("target-sdk-version", 0, "Override the target Android SDK version.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No app path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	appPath := flagSet.Arg(0)
	slog.Debug("App path determined.", "path", appPath)

	scheme := "debug"
	if *releaseFlag {
		scheme = "release"
	} else if !*debugFlag {
		return nil, false, &ExitError{Code: 2, Message: "one of --debug or --release must be set"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		AppPath:          appPath,
		OutputPath:       *outputFlag,
		ModulesPath:      *modulesPathFlag,
		Scheme:           scheme,
		Signing:          *signingFlag,
		BuildAPK:         *apkFlag,
		Repack:           *repackFlag,
		Install:          *installFlag,
		Open:             *openFlag,
		ClearStorage:     *clearStorageFlag,
		Reveal:           *revealFlag,
		MinSDKVersion:    *minSDKFlag,
		TargetSDKVersion: *targetSDKFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
