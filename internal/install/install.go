// Package install copies each plugin module's declared files into the
// generated project tree. Source files are re-homed by their package
// declaration and get per-file find/replace substitution, native libraries
// are duplicated into the per-architecture library directories, and
// everything else is copied verbatim. All install tasks across all modules
// are independent and run in parallel; completion is the join of every task.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/fsutil"
	"github.com/vk/droidkit/internal/manifest"
	"github.com/vk/droidkit/internal/model"
)

// nativeLibDirs are the per-architecture directories a native library is
// duplicated into: the legacy alias and the current architecture.
var nativeLibDirs = []string{"armeabi", "armeabi-v7a"}

// packageRe matches a Java-style package declaration.
var packageRe = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_][A-Za-z0-9_.]*)\s*;`)

// Installer copies module files into the generated project for one build.
type Installer struct {
	bctx    model.BuildContext
	man     *manifest.Manifest
	modules []*descriptor.Module
}

// New creates an Installer.
func New(bctx model.BuildContext, man *manifest.Manifest, modules []*descriptor.Module) *Installer {
	return &Installer{bctx: bctx, man: man, modules: modules}
}

// Apply schedules every declared copy/install task and waits for the join.
func (ins *Installer) Apply(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, mod := range ins.modules {
		if mod.Config == nil {
			continue
		}
		mod := mod
		for _, spec := range mod.Config.CopyFiles {
			spec := spec
			g.Go(func() error { return ins.installFile(gctx, mod.ConfigDir(), spec, ins.bctx.TealeafTree()) })
		}
		for _, spec := range mod.Config.CopyFilesToApp {
			spec := spec
			g.Go(func() error { return ins.installFile(gctx, mod.ConfigDir(), spec, ins.bctx.AppTree()) })
		}
		for _, spec := range mod.Config.CopyGameFiles {
			// Game files are sourced from the app's own root, not the module.
			spec := spec
			g.Go(func() error { return ins.installFile(gctx, ins.bctx.AppPath, spec, ins.bctx.AppTree()) })
		}
		for _, cf := range mod.Config.CopyCustomFiles {
			cf := cf
			g.Go(func() error { return ins.installCustom(gctx, mod, cf) })
		}
		for _, jar := range mod.Config.Jars {
			jar := jar
			g.Go(func() error { return ins.installJar(gctx, mod, jar) })
		}
	}

	return g.Wait()
}

// installFile dispatches one declared file to its strategy.
func (ins *Installer) installFile(ctx context.Context, srcRoot string, spec descriptor.FileSpec, destTree string) error {
	src := filepath.Join(srcRoot, filepath.FromSlash(spec.Path))
	switch classify(spec.Path) {
	case kindSource:
		return ins.installSource(ctx, src, spec, destTree)
	case kindNativeLib:
		return ins.installNativeLib(ctx, src)
	default:
		dest := filepath.Join(destTree, "src", "main", filepath.FromSlash(spec.Path))
		return fsutil.CopyFile(src, dest)
	}
}

// installSource re-homes a source file under the destination tree's java
// root according to its package declaration, applying the declared
// find/replace rules on the way. A missing package declaration is fatal: the
// destination path cannot be computed without it.
func (ins *Installer) installSource(ctx context.Context, src string, spec descriptor.FileSpec, destTree string) error {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read source file %s: %w", src, err)
	}
	text := string(data)

	m := packageRe.FindStringSubmatch(text)
	if m == nil {
		return fmt.Errorf("no package declaration found in %s", src)
	}
	pkgPath := strings.ReplaceAll(m[1], ".", string(filepath.Separator))

	for _, rule := range spec.Replace {
		value, ok := ins.man.AndroidString(rule.Key)
		if !ok {
			logger.Warn("Replace rule key missing from android config, skipping rule.",
				"file", filepath.Base(src), "key", rule.Key)
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid replace pattern %q for %s: %w", rule.Pattern, src, err)
		}
		text = re.ReplaceAllString(text, value)
	}

	dest := filepath.Join(destTree, "src", "main", "java", pkgPath, filepath.Base(src))
	if err := fsutil.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}
	if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	logger.Debug("Installed source file.", "src", src, "dest", dest)
	return nil
}

// installNativeLib duplicates a shared library into both architecture
// directories, unmodified.
func (ins *Installer) installNativeLib(ctx context.Context, src string) error {
	for _, arch := range nativeLibDirs {
		dest := filepath.Join(ins.bctx.LibsDir(), arch, filepath.Base(src))
		if err := fsutil.CopyFile(src, dest); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Installed native library.", "lib", filepath.Base(src))
	return nil
}

// installCustom copies a file to its explicitly declared destination, no
// transformation.
func (ins *Installer) installCustom(ctx context.Context, mod *descriptor.Module, cf descriptor.CustomFile) error {
	src := filepath.Join(mod.ConfigDir(), filepath.FromSlash(cf.From))
	dest := filepath.Join(ins.bctx.ProjectPath(), filepath.FromSlash(cf.To))
	if err := fsutil.CopyFile(src, dest); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Installed custom file.", "module", mod.Name, "dest", dest)
	return nil
}

// installJar copies an archive into the shared library directory, replacing
// any existing archive of the same name. The pre-delete tolerates absence.
func (ins *Installer) installJar(ctx context.Context, mod *descriptor.Module, jar string) error {
	src := filepath.Join(mod.ConfigDir(), filepath.FromSlash(jar))
	dest := filepath.Join(ins.bctx.LibsDir(), filepath.Base(jar))
	if err := fsutil.RemoveIfExists(dest); err != nil {
		return err
	}
	if err := fsutil.CopyFile(src, dest); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Installed jar.", "module", mod.Name, "jar", filepath.Base(jar))
	return nil
}
