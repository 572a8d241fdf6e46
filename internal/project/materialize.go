// Package project materializes the Android project skeleton from the seed
// template and applies the build-time parameters: manifest substitution,
// localized title strings, activity rewriting and Gradle token replacement.
// Materialization is idempotent: an existing package directory means the
// skeleton was already instantiated and the whole step is skipped.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/ctyutil"
	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/fsutil"
	"github.com/vk/droidkit/internal/manifest"
	"github.com/vk/droidkit/internal/model"
	"github.com/vk/droidkit/internal/tools"
)

// Seed template constants: where the template's placeholder activity lives
// before it is moved to the app's own package.
const (
	seedPackage       = "com.tealeaf.seed"
	seedActivityClass = "SeedActivity"
	baseActivityClass = "TeaLeafActivity"
)

// Materializer creates and parameterizes the generated project.
type Materializer struct {
	bctx    model.BuildContext
	man     *manifest.Manifest
	modules []*descriptor.Module
	runner  tools.CommandRunner
}

// New creates a Materializer.
func New(bctx model.BuildContext, man *manifest.Manifest, modules []*descriptor.Module, runner tools.CommandRunner) *Materializer {
	return &Materializer{bctx: bctx, man: man, modules: modules, runner: runner}
}

// Materialize instantiates the project skeleton unless it already exists.
// The probe is the package directory under the app source tree; when it is
// present the template step must not run again. Freshly created projects
// then get the joined post-creation steps and the parameter substitution.
func (m *Materializer) Materialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if fsutil.Exists(m.bctx.PackageDir()) {
		logger.Info("Project already materialized, skipping template instantiation.",
			"path", m.bctx.PackageDir())
		return nil
	}

	if err := m.instantiateTemplate(ctx); err != nil {
		return err
	}
	if err := fsutil.EnsureDir(m.bctx.PackageDir()); err != nil {
		return err
	}
	if err := m.placeActivity(ctx); err != nil {
		return err
	}

	// The post-creation steps touch disjoint files and join here.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.injectTitleStrings(gctx) })
	g.Go(func() error { return m.updateManifest(gctx) })
	g.Go(func() error { return m.rewriteActivity(gctx) })
	g.Go(func() error { return m.runOnCreateHooks(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	return m.applyGradleParams(ctx)
}

// instantiateTemplate invokes the external template-copy step. Its failure
// is a user-facing build error carrying the captured output.
func (m *Materializer) instantiateTemplate(ctx context.Context) error {
	res, err := m.runner.Run(ctx, m.bctx.TemplateCommand,
		"--short-name", m.bctx.ShortName,
		"--template", m.bctx.SeedTemplate,
		"--scheme", string(m.bctx.Scheme),
		"--package", m.bctx.PackageName,
		"--dest", m.bctx.ProjectPath(),
	)
	if err != nil {
		return model.WrapBuildError(err, "failed to instantiate project template for %s", m.bctx.ShortName).
			WithOutput(res.Combined(), res.ExitCode)
	}
	ctxlog.FromContext(ctx).Debug("Project template instantiated.", "project", m.bctx.ProjectPath())
	return nil
}

// placeActivity moves the seed activity source into the app's package
// directory under its new class name, rewriting the package declaration and
// class identifier.
func (m *Materializer) placeActivity(ctx context.Context) error {
	seedPath := filepath.Join(m.bctx.AppTree(), "src", "main", "java",
		filepath.FromSlash(strings.ReplaceAll(seedPackage, ".", "/")), seedActivityClass+".java")

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return fmt.Errorf("failed to read seed activity %s: %w", seedPath, err)
	}
	text := string(data)
	text = strings.ReplaceAll(text, "package "+seedPackage+";", "package "+m.bctx.PackageName+";")
	text = strings.ReplaceAll(text, seedActivityClass, m.bctx.ActivityClass())

	dest := filepath.Join(m.bctx.PackageDir(), m.bctx.ActivityClass()+".java")
	if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write activity %s: %w", dest, err)
	}
	if err := os.Remove(seedPath); err != nil {
		return fmt.Errorf("failed to remove seed activity %s: %w", seedPath, err)
	}
	ctxlog.FromContext(ctx).Debug("Activity moved into app package.", "activity", m.bctx.ActivityName())
	return nil
}

// rewriteActivity retargets the placed activity at the engine: it extends
// the TeaLeaf base activity instead of the framework one, and the template's
// content-view call becomes the game start call.
func (m *Materializer) rewriteActivity(ctx context.Context) error {
	path := filepath.Join(m.bctx.PackageDir(), m.bctx.ActivityClass()+".java")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read activity %s: %w", path, err)
	}
	text := string(data)
	text = strings.ReplaceAll(text, "extends Activity", "extends "+baseActivityClass)
	text = strings.ReplaceAll(text, "setContentView(R.layout.main);", "startGame();")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write activity %s: %w", path, err)
	}
	return nil
}

// injectTitleStrings writes the app title into the default strings resource
// and one values directory per declared localized title.
func (m *Materializer) injectTitleStrings(ctx context.Context) error {
	stringsPath := filepath.Join(m.bctx.AppTree(), "src", "main", "res", "values", "strings.xml")
	data, err := os.ReadFile(stringsPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", stringsPath, err)
	}
	text := strings.ReplaceAll(string(data), "{{title}}", xmlEscape(m.man.Title))
	if err := os.WriteFile(stringsPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", stringsPath, err)
	}

	for locale, title := range m.localizedTitles() {
		dir := filepath.Join(m.bctx.AppTree(), "src", "main", "res", "values-"+locale)
		content := fmt.Sprintf("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<resources>\n    <string name=\"title\">%s</string>\n</resources>\n", xmlEscape(title))
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "strings.xml"), []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write localized strings for %s: %w", locale, err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Title strings injected.", "title", m.man.Title)
	return nil
}

// runOnCreateHooks invokes each module's declared on-create script, in
// declaration order, with the project and module paths as arguments.
func (m *Materializer) runOnCreateHooks(ctx context.Context) error {
	for _, mod := range m.modules {
		if mod.Config == nil || mod.Config.OnCreate == "" {
			continue
		}
		hook := mod.Resolve(mod.Config.OnCreate)
		res, err := m.runner.Run(ctx, hook, m.bctx.ProjectPath(), mod.Path)
		if err != nil {
			return model.WrapBuildError(err, "on-create hook of module %s failed", mod.Name).
				WithOutput(res.Combined(), res.ExitCode)
		}
		ctxlog.FromContext(ctx).Debug("Ran module on-create hook.", "module", mod.Name)
	}
	return nil
}

// localizedTitles reads the android "titles" object as locale -> title.
func (m *Materializer) localizedTitles() map[string]string {
	titles := map[string]string{}
	v, ok := ctyutil.Lookup(m.man.Android, "titles")
	if !ok {
		return titles
	}
	ctyutil.Flatten("", v, titles)
	return titles
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
