package project

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/model"
	"github.com/vk/droidkit/internal/testutil"
	"github.com/vk/droidkit/internal/tools"
)

func TestMaterialize(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)
	runner := &testutil.FakeRunner{}

	m := New(bctx, paramsManifest(), nil, runner)
	require.NoError(t, m.Materialize(testutil.Context()))

	// Template instantiation ran once, parameterized with the app identity.
	calls := runner.CallsTo("tealeaf-new-project")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Args, "swordfall")
	assert.Contains(t, calls[0].Args, "com.example.swordfall")
	assert.Contains(t, calls[0].Args, "AndroidSeed")

	// The seed activity moved into the app package under its new name.
	activity := testutil.ReadFile(t, filepath.Join(bctx.PackageDir(), "SwordfallActivity.java"))
	assert.Contains(t, activity, "package com.example.swordfall;")
	assert.Contains(t, activity, "class SwordfallActivity extends TeaLeafActivity")
	assert.Contains(t, activity, "startGame();")
	assert.NotContains(t, activity, "setContentView")

	seedPath := filepath.Join(bctx.AppTree(), "src", "main", "java", "com", "tealeaf", "seed", "SeedActivity.java")
	assert.NoFileExists(t, seedPath)

	// Manifest parameters were substituted.
	manifestXML := testutil.ReadFile(t, bctx.ManifestXML())
	assert.Contains(t, manifestXML, `package="com.example.swordfall"`)
	assert.Contains(t, manifestXML, `android:screenOrientation="landscape"`)
	assert.Contains(t, manifestXML, `android:label="@string/title"`)

	// Title landed in the strings resource.
	stringsXML := testutil.ReadFile(t, filepath.Join(bctx.AppTree(), "src", "main", "res", "values", "strings.xml"))
	assert.Contains(t, stringsXML, "Sword Fall!")

	// Gradle tokens were substituted.
	appGradle := testutil.ReadFile(t, filepath.Join(bctx.AppTree(), "build.gradle"))
	assert.Contains(t, appGradle, "versionCode 17")
	assert.Contains(t, appGradle, `versionName "2.5.0"`)
	assert.Contains(t, appGradle, `buildToolsVersion "28.0.3"`)
}

// The package directory is the idempotence probe: a second materialization
// must not re-invoke the template step.
func TestMaterializeIsIdempotent(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)
	runner := &testutil.FakeRunner{}

	m := New(bctx, paramsManifest(), nil, runner)
	require.NoError(t, m.Materialize(testutil.Context()))
	require.NoError(t, m.Materialize(testutil.Context()))

	assert.Len(t, runner.CallsTo("tealeaf-new-project"), 1)
}

func TestMaterializeTemplateFailureIsBuildError(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)
	runner := &testutil.FakeRunner{Responses: map[string]testutil.Response{
		"tealeaf-new-project": {
			Result: tools.Result{Stderr: "template not found", ExitCode: 1},
			Err:    errors.New("exit status 1"),
		},
	}}

	m := New(bctx, paramsManifest(), nil, runner)
	err := m.Materialize(testutil.Context())
	require.Error(t, err)

	be, ok := model.AsBuildError(err)
	require.True(t, ok)
	assert.Contains(t, be.Output, "template not found")
	assert.Equal(t, 1, be.ExitCode)
}

func TestMaterializeRunsOnCreateHooks(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)
	runner := &testutil.FakeRunner{}

	mod := &descriptor.Module{
		Name:   "billing",
		Path:   filepath.Join(bctx.ModulesPath, "billing"),
		Config: &descriptor.Descriptor{OnCreate: "hooks/oncreate.sh"},
	}

	m := New(bctx, paramsManifest(), []*descriptor.Module{mod}, runner)
	require.NoError(t, m.Materialize(testutil.Context()))

	calls := runner.CallsTo(mod.Resolve("hooks/oncreate.sh"))
	require.Len(t, calls, 1)
	assert.Equal(t, []string{bctx.ProjectPath(), mod.Path}, calls[0].Args)
}

func TestMaterializeManifestTransform(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)

	// Give the seeded manifest a resolvable token and one whose key no
	// config object defines.
	manifestXML := testutil.ReadFile(t, bctx.ManifestXML())
	testutil.WriteFile(t, bctx.ManifestXML(),
		manifestXML+"<!-- %BILLING_KEY% %NOT_CONFIGURED% -->\n")

	mod := &descriptor.Module{
		Name: "billing",
		Path: filepath.Join(bctx.ModulesPath, "billing"),
		Config: &descriptor.Descriptor{
			InjectionXSL: "manifest-transform.json",
			Raw: cty.ObjectVal(map[string]cty.Value{
				"appKey": cty.StringVal("key-12345"),
			}),
		},
	}
	testutil.WriteFile(t, mod.Resolve("manifest-transform.json"),
		`{"%BILLING_KEY%": "appKey", "%NOT_CONFIGURED%": "missing.key"}`)

	man := paramsManifest()
	m := New(bctx, man, []*descriptor.Module{mod}, &testutil.FakeRunner{})
	require.NoError(t, m.Materialize(testutil.Context()))

	out := testutil.ReadFile(t, bctx.ManifestXML())
	// The token resolved from the module's own config object; the
	// unresolvable one stays put.
	assert.NotContains(t, out, "%BILLING_KEY%")
	assert.Contains(t, out, "key-12345")
	assert.Contains(t, out, "%NOT_CONFIGURED%")
}

func TestMaterializeLocalizedTitles(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)

	man := paramsManifest()
	man.Android = cty.ObjectVal(map[string]cty.Value{
		"titles": cty.ObjectVal(map[string]cty.Value{
			"fr": cty.StringVal("Chute d'Epee"),
		}),
	})

	m := New(bctx, man, nil, &testutil.FakeRunner{})
	require.NoError(t, m.Materialize(testutil.Context()))

	fr := testutil.ReadFile(t, filepath.Join(bctx.AppTree(), "src", "main", "res", "values-fr", "strings.xml"))
	assert.Contains(t, fr, "Chute d&apos;Epee")
}
