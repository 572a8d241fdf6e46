// Package inject merges plugin module fragments into the shared project
// artifacts: the Android manifest, the three Gradle build files, the styles
// resource and the proguard rules. Each artifact owns a fixed set of marker
// regions; for each region the injector concatenates every module's payload
// in module declaration order and replaces the base artifact's region with
// the concatenation. Replacement (not appending) keeps a second injector run
// over an already-injected project from duplicating content.
package inject

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/markers"
	"github.com/vk/droidkit/internal/model"
)

// Injector applies every module's declared fragments to the project tree.
type Injector struct {
	bctx    model.BuildContext
	modules []*descriptor.Module
}

// New creates an Injector for one build invocation.
func New(bctx model.BuildContext, modules []*descriptor.Module) *Injector {
	return &Injector{bctx: bctx, modules: modules}
}

// Apply processes the six artifacts strictly in series, then aggregates the
// installed jar archives into the tealeaf dependency region. Any read or
// write failure aborts the build.
func (in *Injector) Apply(ctx context.Context) error {
	for _, artifact := range artifacts {
		if err := in.applyArtifact(ctx, artifact); err != nil {
			return err
		}
		if artifact.Name == "tealeaf build.gradle" {
			if err := in.aggregateJars(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyArtifact runs one read-fragments, concatenate, replace-region,
// write-back step for a single artifact.
func (in *Injector) applyArtifact(ctx context.Context, artifact Artifact) error {
	logger := ctxlog.FromContext(ctx).With("artifact", artifact.Name)

	basePath := artifact.Path(in.bctx)
	base, err := os.ReadFile(basePath)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", basePath, err)
	}

	fragments, err := in.gatherFragments(ctx, artifact)
	if err != nil {
		return err
	}
	if len(fragments) == 0 {
		logger.Debug("No module declares a fragment for this artifact, skipping.")
		return nil
	}
	text := string(base)
	if text == "" {
		logger.Debug("Artifact is empty, skipping injection.")
		return nil
	}

	for _, region := range artifact.Regions {
		start, end := artifact.Style.Tokens(region)
		var payload string
		for _, frag := range fragments {
			payload += markers.Extract(frag, start, end)
		}
		text = markers.Replace(text, start, end, payload)
	}

	if err := os.WriteFile(basePath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", basePath, err)
	}
	logger.Debug("Injected module fragments.", "fragments", len(fragments))
	return nil
}

// gatherFragments reads every module's declared fragment file for this
// artifact. Reads run concurrently; the returned slice keeps module
// declaration order, which fixes concatenation order. A module without a
// declared (or existing) fragment file contributes nothing.
func (in *Injector) gatherFragments(ctx context.Context, artifact Artifact) ([]string, error) {
	texts := make([]string, len(in.modules))
	g, _ := errgroup.WithContext(ctx)

	for i, mod := range in.modules {
		if mod.Config == nil {
			continue
		}
		rel := artifact.Fragment(mod.Config)
		if rel == "" {
			continue
		}
		i, path := i, mod.Resolve(rel)
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read fragment %s: %w", path, err)
			}
			texts[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var fragments []string
	for _, t := range texts {
		if t != "" {
			fragments = append(fragments, t)
		}
	}
	return fragments, nil
}
