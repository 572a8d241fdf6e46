// Package pipeline sequences the build: project creation, resource copying,
// native compilation and Gradle assembly, signing, artifact placement and
// device installation. The pipeline is a fixed, ordered list of stages with
// per-stage skip conditions; the first failing stage aborts the rest.
// Recognized toolchain failure signatures are rewritten into targeted
// diagnostics before propagating.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/fsutil"
	"github.com/vk/droidkit/internal/inject"
	"github.com/vk/droidkit/internal/install"
	"github.com/vk/droidkit/internal/manifest"
	"github.com/vk/droidkit/internal/model"
	"github.com/vk/droidkit/internal/project"
	"github.com/vk/droidkit/internal/tools"
)

// settleDelay compensates for asynchronous filesystem completion of the
// packaged artifact copy before device installation starts.
const settleDelay = 3 * time.Second

// Controller drives one build invocation through the staged pipeline.
type Controller struct {
	bctx    model.BuildContext
	man     *manifest.Manifest
	modules []*descriptor.Module
	runner  tools.CommandRunner

	// env resolves environment variables; tests substitute it.
	env func(string) string
	// settle is the pre-installation delay; tests shorten it.
	settle time.Duration
}

// New creates a Controller.
func New(bctx model.BuildContext, man *manifest.Manifest, modules []*descriptor.Module, runner tools.CommandRunner) *Controller {
	return &Controller{
		bctx:    bctx,
		man:     man,
		modules: modules,
		runner:  runner,
		env:     os.Getenv,
		settle:  settleDelay,
	}
}

// stage is one pipeline step. A non-empty skip reason bypasses run.
type stage struct {
	name string
	skip func() string
	run  func(ctx context.Context) error
}

func never() string { return "" }

func (c *Controller) stages() []stage {
	return []stage{
		{
			name: "create project",
			skip: func() string {
				if c.bctx.Repack {
					return "repack mode, project assumed already built"
				}
				return ""
			},
			run: c.createProject,
		},
		{
			name: "copy resources",
			skip: never,
			run:  c.copyResources,
		},
		{
			name: "build package",
			skip: c.skipUnlessAPK,
			run:  c.buildPackage,
		},
		{
			name: "sign apk",
			skip: func() string {
				if reason := c.skipUnlessAPK(); reason != "" {
					return reason
				}
				if c.bctx.Debug() && !c.bctx.Signing {
					return "debug build without explicit signing"
				}
				return ""
			},
			run: c.signAPK,
		},
		{
			name: "move apk",
			skip: c.skipUnlessAPK,
			run:  c.moveAPK,
		},
		{
			name: "install to devices",
			skip: func() string {
				if reason := c.skipUnlessAPK(); reason != "" {
					return reason
				}
				if !c.bctx.Install && !c.bctx.Open {
					return "device installation not requested"
				}
				return ""
			},
			run: c.installToDevices,
		},
	}
}

func (c *Controller) skipUnlessAPK() string {
	if !c.bctx.BuildAPK {
		return "apk packaging disabled"
	}
	return ""
}

// Run executes the pipeline and returns the final artifact path, or "" when
// packaging was disabled.
func (c *Controller) Run(ctx context.Context) (string, error) {
	logger := ctxlog.FromContext(ctx)
	for _, st := range c.stages() {
		if reason := st.skip(); reason != "" {
			logger.Info("Skipping stage.", "stage", st.name, "reason", reason)
			continue
		}
		logger.Info("Stage starting.", "stage", st.name)
		if err := st.run(ctx); err != nil {
			return "", fmt.Errorf("stage %q: %w", st.name, err)
		}
		logger.Debug("Stage finished.", "stage", st.name)
	}
	if !c.bctx.BuildAPK {
		return "", nil
	}
	return c.bctx.ArtifactPath(), nil
}

// createProject materializes the skeleton, installs module code and then
// injects module fragments. Installation must precede injection: the
// injector's jar aggregation scans the shared library directory, which the
// installer populates from each module's declared archives.
func (c *Controller) createProject(ctx context.Context) error {
	if err := project.New(c.bctx, c.man, c.modules, c.runner).Materialize(ctx); err != nil {
		return err
	}
	if err := install.New(c.bctx, c.man, c.modules).Apply(ctx); err != nil {
		return err
	}
	return inject.New(c.bctx, c.modules).Apply(ctx)
}

// copyResources mirrors the app's resource tree into the generated project's
// asset directory, when the app ships one.
func (c *Controller) copyResources(ctx context.Context) error {
	src := filepath.Join(c.bctx.AppPath, "resources")
	if !fsutil.Exists(src) {
		ctxlog.FromContext(ctx).Debug("App ships no resources directory, nothing to copy.")
		return nil
	}
	dest := filepath.Join(c.bctx.AppTree(), "src", "main", "assets", "resources")
	return fsutil.CopyTree(src, dest)
}

// buildPackage compiles the native engine and assembles the APK with Gradle.
// Recognized toolchain failures are rewritten by the classifier.
func (c *Controller) buildPackage(ctx context.Context) error {
	res, err := c.runner.Run(ctx, "ndk-build", "-C", filepath.Join(c.bctx.TealeafTree(), "jni"))
	if err != nil {
		return classify("ndk-build", res, err)
	}

	task := "assembleDebug"
	if !c.bctx.Debug() {
		task = "assembleRelease"
	}
	res, err = c.runner.Run(ctx, "gradle", "-p", c.bctx.ProjectPath(), task)
	if err != nil {
		return classify("gradle", res, err)
	}
	return nil
}

// gradleOutputAPK is where Gradle leaves the assembled package.
func (c *Controller) gradleOutputAPK() string {
	scheme := string(c.bctx.Scheme)
	return filepath.Join(c.bctx.AppTree(), "build", "outputs", "apk", scheme, "app-"+scheme+".apk")
}

// moveAPK copies the assembled package into the output bin directory. A
// missing package means Gradle reported success without producing one, which
// is a user-facing error.
func (c *Controller) moveAPK(ctx context.Context) error {
	src := c.gradleOutputAPK()
	if !fsutil.Exists(src) {
		return model.NewBuildError("packaged artifact was not produced at %s", src)
	}
	if err := fsutil.CopyFile(src, c.bctx.ArtifactPath()); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Packaged artifact ready.", "path", c.bctx.ArtifactPath())
	return nil
}
