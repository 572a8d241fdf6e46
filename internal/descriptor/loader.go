package descriptor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/droidkit/internal/ctxlog"
)

// LoadAll reads the descriptor of every declared module and returns them in
// declaration order. That order is load-bearing: the injector concatenates
// fragments in it. A module whose descriptor file does not exist contributes
// a nil Config.
func LoadAll(ctx context.Context, refs []Ref) ([]*Module, error) {
	logger := ctxlog.FromContext(ctx)
	modules := make([]*Module, 0, len(refs))

	for _, ref := range refs {
		configPath := filepath.Join(ref.Path, filepath.FromSlash(ConfigRelPath))
		src, err := os.ReadFile(configPath)
		if os.IsNotExist(err) {
			logger.Debug("Module has no descriptor, contributes nothing.", "module", ref.Name)
			modules = append(modules, &Module{Name: ref.Name, Path: ref.Path})
			continue
		}
		if err != nil {
			return nil, &ConfigError{Module: ref.Name, Path: configPath, Err: err}
		}

		desc, err := Parse(src, configPath)
		if err != nil {
			return nil, &ConfigError{Module: ref.Name, Path: configPath, Err: err}
		}
		logger.Debug("Loaded module descriptor.", "module", ref.Name, "path", configPath)
		modules = append(modules, &Module{Name: ref.Name, Path: ref.Path, Config: desc})
	}

	logger.Info("Module descriptors loaded.", "declared", len(refs))
	return modules, nil
}

// ConfigDir is the directory descriptor-relative paths resolve against.
func (m *Module) ConfigDir() string {
	return filepath.Join(m.Path, "android")
}

// Resolve turns a descriptor-relative path into an absolute one.
func (m *Module) Resolve(rel string) string {
	return filepath.Join(m.ConfigDir(), filepath.FromSlash(rel))
}

// Parse decodes one descriptor from its JSON source. The file is parsed with
// the HCL JSON syntax so field values arrive as cty values and keep the
// loose shapes the descriptor format allows (single string or list, string
// or object entries).
func Parse(src []byte, filename string) (*Descriptor, error) {
	file, diags := hcljson.Parse(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse descriptor: %w", diags)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read descriptor attributes: %w", diags)
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate descriptor field %q: %w", name, diags)
		}
		values[name] = val
	}

	desc := &Descriptor{}
	if len(values) > 0 {
		desc.Raw = cty.ObjectVal(values)
	}

	var err error
	for name, val := range values {
		switch name {
		case "injectionXML":
			desc.InjectionXML, err = stringField(name, val)
		case "injectionTealeafModuleGradleXML":
			desc.InjectionTealeafModuleGradleXML, err = stringField(name, val)
		case "injectionAppGradleXML":
			desc.InjectionAppGradleXML, err = stringField(name, val)
		case "injectionGradleClasspathXML":
			desc.InjectionGradleClasspathXML, err = stringField(name, val)
		case "proguardXML":
			desc.ProguardXML, err = stringField(name, val)
		case "injectionStyles":
			desc.InjectionStyles, err = stringField(name, val)
		case "injectionXSL":
			desc.InjectionXSL, err = stringField(name, val)
		case "transformGradleApp":
			desc.TransformGradleApp, err = stringField(name, val)
		case "transformGradleTealeaf":
			desc.TransformGradleTealeaf, err = stringField(name, val)
		case "copyFiles":
			desc.CopyFiles, err = fileSpecsField(name, val)
		case "copyFilesToApp":
			desc.CopyFilesToApp, err = fileSpecsField(name, val)
		case "copyGameFiles":
			desc.CopyGameFiles, err = fileSpecsField(name, val)
		case "copyCustomFiles":
			desc.CopyCustomFiles, err = customFilesField(name, val)
		case "jars":
			desc.Jars, err = stringListField(name, val)
		case "onCreate":
			desc.OnCreate, err = stringField(name, val)
		default:
			// Unknown keys are tolerated so descriptors can carry data for
			// other platforms.
		}
		if err != nil {
			return nil, err
		}
	}
	return desc, nil
}
