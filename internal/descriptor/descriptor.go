// Package descriptor discovers and parses the per-module configuration
// descriptors that declare what each plugin module contributes to the
// generated project: injection fragments for the shared artifacts, files to
// install, jar archives, Gradle transforms and lifecycle hooks.
//
// A module without a descriptor file is valid and contributes nothing; any
// other read or parse failure is a fatal ConfigError.
package descriptor

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ConfigRelPath is the descriptor location inside a module, relative to the
// module root.
const ConfigRelPath = "android/config.json"

// ReplaceRule maps a regex pattern in an installed source file to a value
// looked up from the app's android configuration by dotted key. A rule whose
// key is absent from the configuration is skipped with a warning.
type ReplaceRule struct {
	Pattern string
	Key     string
}

// FileSpec is one file to install, with its optional find/replace rules.
type FileSpec struct {
	Path    string
	Replace []ReplaceRule
}

// CustomFile is a verbatim copy to an explicit destination inside the
// generated project.
type CustomFile struct {
	From string
	To   string
}

// Descriptor is the parsed module configuration. Every field is optional; a
// zero field means the module does not contribute to that concern.
type Descriptor struct {
	InjectionXML                    string
	InjectionTealeafModuleGradleXML string
	InjectionAppGradleXML           string
	InjectionGradleClasspathXML     string
	ProguardXML                     string
	InjectionStyles                 string
	InjectionXSL                    string
	TransformGradleApp              string
	TransformGradleTealeaf          string
	CopyFiles                       []FileSpec
	CopyFilesToApp                  []FileSpec
	CopyGameFiles                   []FileSpec
	CopyCustomFiles                 []CustomFile
	Jars                            []string
	OnCreate                        string

	// Raw is the whole descriptor as a cty object, for dotted lookups by
	// Gradle transforms.
	Raw cty.Value
}

// Ref names one module declared by the app manifest and where it lives.
type Ref struct {
	Name string
	Path string
}

// Module pairs a declared module with its parsed descriptor. Config is nil
// when the module ships no descriptor file.
type Module struct {
	Name   string
	Path   string
	Config *Descriptor
}

// ConfigError is a fatal descriptor read or parse failure.
type ConfigError struct {
	Module string
	Path   string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid module config for %s at %s: %v", e.Module, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
