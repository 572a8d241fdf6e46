package app

import (
	"errors"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	AppPath     string // game app root, holds manifest.json
	OutputPath  string // generated project + final APK
	ModulesPath string // plugin module roots

	Scheme           string // "debug" or "release"
	Signing          bool
	BuildAPK         bool
	Repack           bool
	Install          bool
	Open             bool
	ClearStorage     bool
	Reveal           bool
	MinSDKVersion    int
	TargetSDKVersion int

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and fills in the path defaults that hang off
// the app root.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.AppPath == "" {
		return nil, errors.New("AppPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = filepath.Join(cfg.AppPath, "build")
	}
	if cfg.ModulesPath == "" {
		cfg.ModulesPath = filepath.Join(cfg.AppPath, "modules")
	}
	return &cfg, nil
}
