// Package testutil provides the shared fixtures for build component tests:
// a seeded project tree with every marker region present, module scaffolding
// helpers and a scripted CommandRunner.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/model"
)

// Context returns a context carrying a discard logger.
func Context() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// NewBuildContext returns a BuildContext rooted in fresh temp directories.
func NewBuildContext(t *testing.T) model.BuildContext {
	t.Helper()
	return model.BuildContext{
		AppPath:          t.TempDir(),
		OutputPath:       t.TempDir(),
		ModulesPath:      t.TempDir(),
		ShortName:        "swordfall",
		PackageName:      "com.example.swordfall",
		Scheme:           model.SchemeDebug,
		TemplateCommand:  "tealeaf-new-project",
		SeedTemplate:     "AndroidSeed",
		BuildAPK:         true,
		MinSDKVersion:    0,
		TargetSDKVersion: 0,
	}
}

// WriteFile writes content at path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// ReadFile reads path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const seedManifestXML = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="{{package}}">
<!--START_PLUGINS_MANIFEST-->
<!--END_PLUGINS_MANIFEST-->
  <application android:label="{{title}}" android:debuggable="{{debuggable}}">
<!--START_PLUGINS_APPLICATION-->
<!--END_PLUGINS_APPLICATION-->
    <activity android:name="{{activity}}" android:screenOrientation="{{orientation}}">
<!--START_PLUGINS_ACTIVITY-->
<!--END_PLUGINS_ACTIVITY-->
    </activity>
  </application>
</manifest>
`

const seedTealeafGradle = `apply plugin: 'com.android.library'
android {
//START_MANIFEST_PLACEHOLDERS
//END_MANIFEST_PLACEHOLDERS
//START_ANDROID_PLUGINS
//END_ANDROID_PLUGINS
//START_ANDROID_PLUGINS_CUSTOM_SETTINGS
//END_ANDROID_PLUGINS_CUSTOM_SETTINGS
}
dependencies {
//START_PLUGINS_DEPENDENCIES
//END_PLUGINS_DEPENDENCIES
}
//START_PLUGINS_PATCH
//END_PLUGINS_PATCH
`

const seedAppGradle = `apply plugin: 'com.android.application'
android {
    defaultConfig {
        versionCode __VERSION_CODE__
        versionName "__VERSION_NAME__"
    }
    buildToolsVersion "__BUILD_TOOLS_VERSION__"
//START_MANIFEST_PLACEHOLDERS
//END_MANIFEST_PLACEHOLDERS
//START_ANDROID_PLUGINS
//END_ANDROID_PLUGINS
}
dependencies {
//START_PLUGINS_DEPENDENCIES
//END_PLUGINS_DEPENDENCIES
}
`

const seedRootGradle = `buildscript {
    repositories {
//START_BUILDSCRIPT_REPOS
//END_BUILDSCRIPT_REPOS
    }
    dependencies {
//START_GOOGLE_PLAY_PLUGINS_CLASSPATH
//END_GOOGLE_PLAY_PLUGINS_CLASSPATH
    }
}
allprojects {
    repositories {
//START_PLUGINS_REPOSITORIES
//END_PLUGINS_REPOSITORIES
    }
}
`

const seedStylesXML = `<?xml version="1.0" encoding="utf-8"?>
<resources>
<!--START_STYLES-->
<!--END_STYLES-->
</resources>
`

const seedProguard = `-keep class com.tealeaf.** { *; }
#START_PLUGINS_PROGUARD
#END_PLUGINS_PROGUARD
`

const seedStringsXML = `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <string name="title">{{title}}</string>
</resources>
`

// SeedActivitySource is the template's placeholder activity, in its seed
// package, before materialization moves and rewrites it.
const SeedActivitySource = `package com.tealeaf.seed;

import android.app.Activity;
import android.os.Bundle;

public class SeedActivity extends Activity {
    @Override
    protected void onCreate(Bundle savedInstanceState) {
        super.onCreate(savedInstanceState);
        setContentView(R.layout.main);
    }
}
`

// SeedProject materializes a minimal generated-project tree under the build
// context's project path: all six shared artifacts with every marker region
// present, the way the seed template ships them.
func SeedProject(t *testing.T, bctx model.BuildContext) {
	t.Helper()
	WriteFile(t, bctx.ManifestXML(), seedManifestXML)
	WriteFile(t, filepath.Join(bctx.TealeafTree(), "build.gradle"), seedTealeafGradle)
	WriteFile(t, filepath.Join(bctx.AppTree(), "build.gradle"), seedAppGradle)
	WriteFile(t, filepath.Join(bctx.ProjectPath(), "build.gradle"), seedRootGradle)
	WriteFile(t, filepath.Join(bctx.AppTree(), "src", "main", "res", "values", "styles.xml"), seedStylesXML)
	WriteFile(t, filepath.Join(bctx.AppTree(), "proguard-rules.pro"), seedProguard)
	WriteFile(t, filepath.Join(bctx.AppTree(), "src", "main", "res", "values", "strings.xml"), seedStringsXML)
	WriteFile(t, filepath.Join(bctx.AppTree(), "src", "main", "java", "com", "tealeaf", "seed", "SeedActivity.java"), SeedActivitySource)
}
