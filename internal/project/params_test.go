package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/manifest"
	"github.com/vk/droidkit/internal/model"
	"github.com/vk/droidkit/internal/testutil"
)

func paramsManifest() *manifest.Manifest {
	return &manifest.Manifest{
		AppID:                 "abc-123!",
		ShortName:             "swordfall",
		Title:                 "Sword Fall!",
		Version:               "2.5.0",
		SupportedOrientations: []string{"landscape"},
		Android: cty.ObjectVal(map[string]cty.Value{
			"versionCode": cty.NumberIntVal(17),
			"icons": cty.ObjectVal(map[string]cty.Value{
				"36": cty.StringVal("icon36.png"),
			}),
		}),
	}
}

func TestBuildParams(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	man := paramsManifest()

	mod := &descriptor.Module{
		Name: "billing",
		Config: &descriptor.Descriptor{
			Raw: cty.ObjectVal(map[string]cty.Value{
				"appKey": cty.StringVal("key-1"),
			}),
		},
	}

	params := BuildParams(man, bctx, []*descriptor.Module{mod})

	// Fixed overrides.
	assert.Equal(t, "com.example.swordfall", params["package"])
	assert.Equal(t, "@string/title", params["title"])
	assert.Equal(t, "com.example.swordfall.SwordfallActivity", params["activity"])
	assert.Equal(t, "2.5.0", params["version"])
	assert.Equal(t, "abc123", params["appID"])
	assert.Equal(t, "landscape", params["orientation"])
	assert.Equal(t, "true", params["debuggable"])

	// SDK bounds fall back to the fixed defaults.
	assert.Equal(t, "19", params["minSdkVersion"])
	assert.Equal(t, "27", params["targetSdkVersion"])

	// Android config and module config arrive flattened.
	assert.Equal(t, "17", params["versionCode"])
	assert.Equal(t, "icon36.png", params["icons.36"])
	assert.Equal(t, "key-1", params["modules.billing.appKey"])
}

func TestBuildParamsReleaseIsNotDebuggable(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	bctx.Scheme = model.SchemeRelease

	params := BuildParams(paramsManifest(), bctx, nil)
	assert.Equal(t, "false", params["debuggable"])
}

func TestBuildParamsSDKOverrides(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	bctx.MinSDKVersion = 23
	bctx.TargetSDKVersion = 31

	params := BuildParams(paramsManifest(), bctx, nil)
	assert.Equal(t, "23", params["minSdkVersion"])
	assert.Equal(t, "31", params["targetSdkVersion"])
}

func TestApplyParams(t *testing.T) {
	out := applyParams(`<manifest package="{{package}}" orientation="{{orientation}}" untouched="{{unknown}}"/>`,
		map[string]string{"package": "com.example.x", "orientation": "portrait"})
	assert.Equal(t, `<manifest package="com.example.x" orientation="portrait" untouched="{{unknown}}"/>`, out)
}

func TestLoadTransform(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	path := bctx.AppPath + "/transform.json"
	testutil.WriteFile(t, path, `{"%VERSION_CODE%": "versionCode", "%APP_KEY%": "billing.appKey"}`)

	entries, err := loadTransform(path)
	require.NoError(t, err)
	// Sorted by token for deterministic application.
	assert.Equal(t, []transformEntry{
		{Token: "%APP_KEY%", Key: "billing.appKey"},
		{Token: "%VERSION_CODE%", Key: "versionCode"},
	}, entries)
}
