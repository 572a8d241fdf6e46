package app

import (
	"io"
	"log/slog"

	"github.com/vk/droidkit/internal/tools"
)

// Seed template defaults: the external project-template tool and the
// template it instantiates.
const (
	defaultTemplateCommand = "tealeaf-new-project"
	defaultSeedTemplate    = "AndroidSeed"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	runner tools.CommandRunner
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
func New(outW io.Writer, config *Config) *App {
	logger := newLogger(config, outW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		runner: &tools.ExecRunner{},
	}
}
