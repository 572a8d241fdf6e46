// Package manifest loads the declarative game-app manifest that drives a
// build: identity fields, declared plugin modules, and the android
// configuration object the injection and parameter machinery reads from.
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/ctyutil"
	"github.com/vk/droidkit/internal/model"
)

// FileName is the manifest location inside an app root.
const FileName = "manifest.json"

// Default SDK bounds applied when neither the CLI nor the android config
// declares them.
const (
	DefaultMinSDKVersion    = 19
	DefaultTargetSDKVersion = 27
)

// Manifest is the parsed game-app manifest.
type Manifest struct {
	AppID                 string
	ShortName             string
	Title                 string
	Version               string
	SupportedOrientations []string
	Modules               []string

	// Android is the raw android configuration object; NilVal when absent.
	Android cty.Value
	// Addons is the raw per-addon configuration object; NilVal when absent.
	Addons cty.Value
}

// Load reads and validates the manifest at the app root. Missing required
// fields are user-facing build errors.
func Load(ctx context.Context, appPath string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(appPath, FileName)

	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.NewBuildError("no %s found in %s", FileName, appPath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, diags := hcljson.Parse(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read %s attributes: %w", path, diags)
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate manifest field %q: %w", name, diags)
		}
		values[name] = val
	}

	m := &Manifest{Android: cty.NilVal, Addons: cty.NilVal}
	m.AppID, _ = ctyutil.StringValue(values["appID"])
	m.ShortName, _ = ctyutil.StringValue(values["shortName"])
	m.Title, _ = ctyutil.StringValue(values["title"])
	m.Version, _ = ctyutil.StringValue(values["version"])
	if v, ok := values["supportedOrientations"]; ok {
		if m.SupportedOrientations, err = ctyutil.StringList(v); err != nil {
			return nil, fmt.Errorf("manifest supportedOrientations: %w", err)
		}
	}
	if v, ok := values["modules"]; ok {
		if m.Modules, err = ctyutil.StringList(v); err != nil {
			return nil, fmt.Errorf("manifest modules: %w", err)
		}
	}
	if v, ok := values["android"]; ok {
		m.Android = v
	}
	if v, ok := values["addons"]; ok {
		m.Addons = v
	}

	for field, val := range map[string]string{"shortName": m.ShortName, "title": m.Title} {
		if val == "" {
			return nil, model.NewBuildError("manifest is missing required field %q", field)
		}
	}
	if m.Version == "" {
		m.Version = "1.0.0"
	}

	logger.Debug("Manifest loaded.", "shortName", m.ShortName, "modules", len(m.Modules))
	return m, nil
}

// AndroidString resolves a dotted key in the android configuration.
func (m *Manifest) AndroidString(dotted string) (string, bool) {
	return ctyutil.LookupString(m.Android, dotted)
}

// PackageName is the resolved application package: the android configuration
// wins, otherwise a package is derived from the short name.
func (m *Manifest) PackageName() string {
	if pkg, ok := m.AndroidString("packageName"); ok && pkg != "" {
		return pkg
	}
	return "com.tealeaf." + sanitizeIdent(m.ShortName)
}

// Orientation derives the manifest screenOrientation value from the declared
// supported orientations: both portrait and landscape mean the activity does
// not constrain it.
func (m *Manifest) Orientation() string {
	portrait, landscape := false, false
	for _, o := range m.SupportedOrientations {
		switch o {
		case "portrait":
			portrait = true
		case "landscape":
			landscape = true
		}
	}
	switch {
	case portrait && landscape:
		return "unspecified"
	case landscape:
		return "landscape"
	default:
		return "portrait"
	}
}

// StrippedAppID is the app id with every non-alphanumeric character removed,
// as required by the manifest parameter set.
func (m *Manifest) StrippedAppID() string {
	var b strings.Builder
	for _, r := range m.AppID {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SDKVersions resolves the SDK bounds: explicit CLI overrides win, then the
// android configuration, then the fixed defaults.
func (m *Manifest) SDKVersions(minOverride, targetOverride int) (minSDK, targetSDK int) {
	minSDK, targetSDK = DefaultMinSDKVersion, DefaultTargetSDKVersion
	if v, ok := m.AndroidString("minSdkVersion"); ok {
		fmt.Sscanf(v, "%d", &minSDK)
	}
	if v, ok := m.AndroidString("targetSdkVersion"); ok {
		fmt.Sscanf(v, "%d", &targetSDK)
	}
	if minOverride > 0 {
		minSDK = minOverride
	}
	if targetOverride > 0 {
		targetSDK = targetOverride
	}
	return minSDK, targetSDK
}

// sanitizeIdent keeps only the characters valid in a package segment.
func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
