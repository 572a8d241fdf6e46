package project

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/ctyutil"
	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/manifest"
	"github.com/vk/droidkit/internal/model"
)

// Defaults applied at the bottom of the parameter stack. Later layers
// override them.
var defaultParams = map[string]string{
	"versionCode":       "1",
	"buildToolsVersion": "28.0.3",
	"debuggable":        "false",
}

// BuildParams computes the flat parameter mapping that feeds manifest and
// Gradle substitution. Layering, weakest first: fixed defaults, the android
// configuration flattened to dotted keys, per-addon and per-module config
// flattened under their prefixes, then the fixed override set.
func BuildParams(man *manifest.Manifest, bctx model.BuildContext, modules []*descriptor.Module) map[string]string {
	params := map[string]string{}
	for k, v := range defaultParams {
		params[k] = v
	}

	ctyutil.Flatten("", man.Android, params)
	ctyutil.Flatten("addons", man.Addons, params)
	for _, mod := range modules {
		if mod.Config == nil {
			continue
		}
		ctyutil.Flatten("modules."+mod.Name, mod.Config.Raw, params)
	}

	minSDK, targetSDK := man.SDKVersions(bctx.MinSDKVersion, bctx.TargetSDKVersion)
	params["package"] = bctx.PackageName
	params["title"] = "@string/title"
	params["activity"] = bctx.ActivityName()
	params["version"] = man.Version
	params["appID"] = man.StrippedAppID()
	params["orientation"] = man.Orientation()
	params["debuggable"] = strconv.FormatBool(bctx.Debug())
	params["minSdkVersion"] = strconv.Itoa(minSDK)
	params["targetSdkVersion"] = strconv.Itoa(targetSDK)
	return params
}

// applyParams substitutes every {{key}} token in text.
func applyParams(text string, params map[string]string) string {
	for k, v := range params {
		text = strings.ReplaceAll(text, "{{"+k+"}}", v)
	}
	return text
}

// updateManifest applies the parameter mapping to the project manifest, then
// runs every module-declared manifest transform in series. Transforms mutate
// the same file, so they must not race; declaration order is the series
// order.
func (m *Materializer) updateManifest(ctx context.Context) error {
	path := m.bctx.ManifestXML()
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	params := BuildParams(m.man, m.bctx, m.modules)
	text := applyParams(string(data), params)

	for _, mod := range m.modules {
		if mod.Config == nil || mod.Config.InjectionXSL == "" {
			continue
		}
		entries, err := loadTransform(mod.Resolve(mod.Config.InjectionXSL))
		if err != nil {
			return fmt.Errorf("manifest transform of module %s: %w", mod.Name, err)
		}
		text = m.applyTransform(ctx, text, mod, entries)
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Manifest parameters applied.", "params", len(params))
	return nil
}

// applyTransform substitutes each transform token with the value its dotted
// key resolves to, looking first in the app's android configuration and then
// in the module's own descriptor. Unresolvable keys leave their token in
// place with a warning.
func (m *Materializer) applyTransform(ctx context.Context, text string, mod *descriptor.Module, entries []transformEntry) string {
	logger := ctxlog.FromContext(ctx)
	for _, e := range entries {
		value, ok := m.man.AndroidString(e.Key)
		if !ok {
			value, ok = ctyutil.LookupString(mod.Config.Raw, e.Key)
		}
		if !ok {
			logger.Warn("Transform key not found, token left in place.",
				"module", mod.Name, "token", e.Token, "key", e.Key)
			continue
		}
		text = strings.ReplaceAll(text, e.Token, value)
	}
	return text
}
