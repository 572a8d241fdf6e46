package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/droidkit/internal/ctxlog"
)

// applyGradleParams rewrites the fixed placeholder tokens in the two primary
// Gradle build files by literal replacement, then applies each module's
// declared Gradle transforms in series.
func (m *Materializer) applyGradleParams(ctx context.Context) error {
	params := BuildParams(m.man, m.bctx, m.modules)
	tokens := map[string]string{
		"__VERSION_CODE__":        params["versionCode"],
		"__VERSION_NAME__":        m.man.Version,
		"__APP_NAME__":            m.bctx.ShortName,
		"__DISPLAY_NAME__":        m.man.Title,
		"__BUILD_TOOLS_VERSION__": params["buildToolsVersion"],
	}

	appGradle := filepath.Join(m.bctx.AppTree(), "build.gradle")
	tealeafGradle := filepath.Join(m.bctx.TealeafTree(), "build.gradle")

	for _, path := range []string{appGradle, tealeafGradle} {
		if err := replaceTokens(path, tokens); err != nil {
			return err
		}
	}

	// Module Gradle transforms mutate the same two files; series only.
	for _, mod := range m.modules {
		if mod.Config == nil {
			continue
		}
		for _, t := range []struct {
			rel  string
			path string
		}{
			{mod.Config.TransformGradleApp, appGradle},
			{mod.Config.TransformGradleTealeaf, tealeafGradle},
		} {
			if t.rel == "" {
				continue
			}
			entries, err := loadTransform(mod.Resolve(t.rel))
			if err != nil {
				return fmt.Errorf("gradle transform of module %s: %w", mod.Name, err)
			}
			data, err := os.ReadFile(t.path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", t.path, err)
			}
			text := m.applyTransform(ctx, string(data), mod, entries)
			if err := os.WriteFile(t.path, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", t.path, err)
			}
		}
	}

	ctxlog.FromContext(ctx).Debug("Gradle parameters applied.")
	return nil
}

func replaceTokens(path string, tokens map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(data)
	for token, value := range tokens {
		text = strings.ReplaceAll(text, token, value)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
