package app

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/manifest"
	"github.com/vk/droidkit/internal/model"
	"github.com/vk/droidkit/internal/pipeline"
)

// Run executes one full build and returns the packaged artifact path, or ""
// when packaging was disabled.
func (a *App) Run(ctx context.Context) (string, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	man, err := manifest.Load(ctx, a.config.AppPath)
	if err != nil {
		return "", err
	}
	a.logger.Info("App manifest loaded.", "shortName", man.ShortName, "modules", len(man.Modules))

	bctx := a.buildContext(man)

	refs := make([]descriptor.Ref, 0, len(man.Modules))
	for _, name := range man.Modules {
		refs = append(refs, descriptor.Ref{Name: name, Path: filepath.Join(a.config.ModulesPath, name)})
	}
	modules, err := descriptor.LoadAll(ctx, refs)
	if err != nil {
		return "", err
	}
	a.logger.Debug("Module descriptors loaded.", "count", len(modules))

	artifact, err := pipeline.New(bctx, man, modules, a.runner).Run(ctx)
	if err != nil {
		return "", err
	}

	if artifact != "" && a.config.Reveal {
		a.reveal(ctx, artifact)
	}

	a.logger.Debug("App.Run method finished.")
	return artifact, nil
}

// buildContext assembles the immutable per-build value every component runs
// against.
func (a *App) buildContext(man *manifest.Manifest) model.BuildContext {
	return model.BuildContext{
		AppPath:          a.config.AppPath,
		OutputPath:       a.config.OutputPath,
		ModulesPath:      a.config.ModulesPath,
		ShortName:        man.ShortName,
		PackageName:      man.PackageName(),
		Scheme:           model.Scheme(a.config.Scheme),
		TemplateCommand:  defaultTemplateCommand,
		SeedTemplate:     defaultSeedTemplate,
		Signing:          a.config.Signing,
		BuildAPK:         a.config.BuildAPK,
		Repack:           a.config.Repack,
		Install:          a.config.Install,
		Open:             a.config.Open,
		ClearStorage:     a.config.ClearStorage,
		Reveal:           a.config.Reveal,
		MinSDKVersion:    a.config.MinSDKVersion,
		TargetSDKVersion: a.config.TargetSDKVersion,
	}
}

// reveal opens the artifact in the platform's file manager. Best-effort: a
// missing opener never fails the build that just succeeded.
func (a *App) reveal(ctx context.Context, artifact string) {
	var name string
	var args []string
	if runtime.GOOS == "darwin" {
		name, args = "open", []string{"-R", artifact}
	} else {
		name, args = "xdg-open", []string{filepath.Dir(artifact)}
	}
	if _, err := a.runner.Run(ctx, name, args...); err != nil {
		a.logger.Warn("Failed to reveal artifact.", "error", err)
	}
}
