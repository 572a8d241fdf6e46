package app

import (
	"io"
	"log/slog"
)

// logLevels maps the validated --log-level values onto slog levels. An
// unknown or empty value falls back to the zero level, which is info.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the App's isolated logger from its validated
// configuration. The process-global default logger is left untouched.
func newLogger(config *Config, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevels[config.LogLevel]}
	if config.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
