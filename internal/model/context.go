package model

import "path/filepath"

// Scheme names a build flavor. It selects the Gradle assemble task and the
// default signing behavior.
type Scheme string

const (
	SchemeDebug   Scheme = "debug"
	SchemeRelease Scheme = "release"
)

// BuildContext is assembled once at pipeline start and passed (by value) into
// every component. All project-relative paths derive from it; nothing mutates
// it after construction.
type BuildContext struct {
	// AppPath is the root of the game app, where the manifest lives.
	AppPath string
	// OutputPath is the root under which the project tree and the final
	// artifact are placed.
	OutputPath string
	// ModulesPath is the directory the declared modules are resolved under.
	ModulesPath string

	ShortName   string
	PackageName string
	Scheme      Scheme

	// TemplateCommand is the external seed-template instantiation tool.
	TemplateCommand string
	// SeedTemplate is the name of the seed project template to instantiate.
	SeedTemplate string

	Signing      bool
	BuildAPK     bool
	Repack       bool
	Install      bool
	Open         bool
	ClearStorage bool
	Reveal       bool

	MinSDKVersion    int
	TargetSDKVersion int
}

// Debug reports whether this is a debug-scheme build.
func (c BuildContext) Debug() bool { return c.Scheme == SchemeDebug }

// ProjectPath is the root of the generated Android project.
func (c BuildContext) ProjectPath() string {
	return filepath.Join(c.OutputPath, c.ShortName)
}

// AppTree is the application Gradle module of the generated project.
func (c BuildContext) AppTree() string { return filepath.Join(c.ProjectPath(), "app") }

// TealeafTree is the engine Gradle module of the generated project.
func (c BuildContext) TealeafTree() string { return filepath.Join(c.ProjectPath(), "tealeaf") }

// LibsDir is the directory jar archives and native libraries are installed
// into.
func (c BuildContext) LibsDir() string { return filepath.Join(c.TealeafTree(), "libs") }

// ManifestXML is the path of the generated project's AndroidManifest.xml.
func (c BuildContext) ManifestXML() string {
	return filepath.Join(c.AppTree(), "src", "main", "AndroidManifest.xml")
}

// PackageDir is the Java package directory of the generated app sources. Its
// existence is the materialization probe: when present the project skeleton
// is assumed already instantiated.
func (c BuildContext) PackageDir() string {
	return filepath.Join(c.AppTree(), "src", "main", "java", filepath.FromSlash(packagePath(c.PackageName)))
}

// ActivityClass is the simple class name of the generated main activity.
func (c BuildContext) ActivityClass() string { return exportName(c.ShortName) + "Activity" }

// ActivityName is the fully qualified activity class name.
func (c BuildContext) ActivityName() string { return c.PackageName + "." + c.ActivityClass() }

// APKName is the file name of the packaged artifact.
func (c BuildContext) APKName() string {
	return c.ShortName + "-" + string(c.Scheme) + ".apk"
}

// ArtifactPath is the final location the packaged APK is copied to.
func (c BuildContext) ArtifactPath() string {
	return filepath.Join(c.OutputPath, "bin", c.APKName())
}

// packagePath converts a dotted package name to a slash path.
func packagePath(pkg string) string {
	out := make([]byte, len(pkg))
	for i := 0; i < len(pkg); i++ {
		if pkg[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = pkg[i]
		}
	}
	return string(out)
}

// exportName upper-cases the first byte of a short name so it can serve as a
// Java class name prefix.
func exportName(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
