package inject

import (
	"path/filepath"

	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/markers"
	"github.com/vk/droidkit/internal/model"
)

// Artifact describes one shared project file the injector merges plugin
// fragments into: where it lives, which marker regions it owns, the comment
// syntax its tokens use, and which descriptor field names each module's
// fragment file for it.
type Artifact struct {
	Name     string
	Style    markers.CommentStyle
	Regions  []string
	Path     func(bctx model.BuildContext) string
	Fragment func(d *descriptor.Descriptor) string
}

// artifacts is the fixed processing order. It is load-bearing: every stage
// reads and rewrites files a later stage may also read, so the injector
// walks this list strictly in series.
var artifacts = []Artifact{
	{
		Name:    "AndroidManifest.xml",
		Style:   markers.StyleXML,
		Regions: []string{"PLUGINS_MANIFEST", "PLUGINS_ACTIVITY", "PLUGINS_APPLICATION"},
		Path: func(bctx model.BuildContext) string {
			return bctx.ManifestXML()
		},
		Fragment: func(d *descriptor.Descriptor) string { return d.InjectionXML },
	},
	{
		Name:    "tealeaf build.gradle",
		Style:   markers.StyleSlash,
		Regions: []string{"PLUGINS_DEPENDENCIES", "MANIFEST_PLACEHOLDERS", "ANDROID_PLUGINS", "PLUGINS_PATCH", "ANDROID_PLUGINS_CUSTOM_SETTINGS"},
		Path: func(bctx model.BuildContext) string {
			return filepath.Join(bctx.TealeafTree(), "build.gradle")
		},
		Fragment: func(d *descriptor.Descriptor) string { return d.InjectionTealeafModuleGradleXML },
	},
	{
		Name:    "app build.gradle",
		Style:   markers.StyleSlash,
		Regions: []string{"MANIFEST_PLACEHOLDERS", "PLUGINS_DEPENDENCIES", "ANDROID_PLUGINS"},
		Path: func(bctx model.BuildContext) string {
			return filepath.Join(bctx.AppTree(), "build.gradle")
		},
		Fragment: func(d *descriptor.Descriptor) string { return d.InjectionAppGradleXML },
	},
	{
		Name:    "root build.gradle",
		Style:   markers.StyleSlash,
		Regions: []string{"GOOGLE_PLAY_PLUGINS_CLASSPATH", "PLUGINS_REPOSITORIES", "BUILDSCRIPT_REPOS"},
		Path: func(bctx model.BuildContext) string {
			return filepath.Join(bctx.ProjectPath(), "build.gradle")
		},
		Fragment: func(d *descriptor.Descriptor) string { return d.InjectionGradleClasspathXML },
	},
	{
		Name:    "styles.xml",
		Style:   markers.StyleXML,
		Regions: []string{"STYLES"},
		Path: func(bctx model.BuildContext) string {
			return filepath.Join(bctx.AppTree(), "src", "main", "res", "values", "styles.xml")
		},
		Fragment: func(d *descriptor.Descriptor) string { return d.InjectionStyles },
	},
	{
		Name:    "proguard-rules.pro",
		Style:   markers.StyleHash,
		Regions: []string{"PLUGINS_PROGUARD"},
		Path: func(bctx model.BuildContext) string {
			return filepath.Join(bctx.AppTree(), "proguard-rules.pro")
		},
		Fragment: func(d *descriptor.Descriptor) string { return d.ProguardXML },
	},
}
