package inject

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/droidkit/internal/descriptor"
	"github.com/vk/droidkit/internal/testutil"
)

func TestAggregateJars(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)
	testutil.WriteFile(t, filepath.Join(bctx.LibsDir(), "a.jar"), "")
	testutil.WriteFile(t, filepath.Join(bctx.LibsDir(), "b.jar"), "")
	testutil.WriteFile(t, filepath.Join(bctx.LibsDir(), "notes.txt"), "")

	in := New(bctx, nil)
	require.NoError(t, in.aggregateJars(testutil.Context()))

	gradle := testutil.ReadFile(t, filepath.Join(bctx.TealeafTree(), "build.gradle"))
	aIdx := strings.Index(gradle, "implementation files('libs/a.jar')")
	bIdx := strings.Index(gradle, "implementation files('libs/b.jar')")
	require.GreaterOrEqual(t, aIdx, 0)
	require.GreaterOrEqual(t, bIdx, 0)
	// Directory listing order.
	assert.Less(t, aIdx, bIdx)
	assert.NotContains(t, gradle, "notes.txt")
	assert.Equal(t, 1, strings.Count(gradle, "libs/a.jar"))
}

func TestAggregateJarsIsAdditive(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)
	testutil.WriteFile(t, filepath.Join(bctx.LibsDir(), "a.jar"), "")

	mod := fragmentModule(t, bctx, "billing",
		&descriptor.Descriptor{InjectionTealeafModuleGradleXML: "tealeaf.gradle"},
		map[string]string{"tealeaf.gradle": `//START_PLUGINS_DEPENDENCIES
implementation 'com.billing:sdk:1.0'
//END_PLUGINS_DEPENDENCIES
`})

	in := New(bctx, []*descriptor.Module{mod})
	require.NoError(t, in.Apply(testutil.Context()))

	gradle := testutil.ReadFile(t, filepath.Join(bctx.TealeafTree(), "build.gradle"))
	// The module's own dependency injection survives the jar aggregation
	// pass that runs right after it.
	assert.Contains(t, gradle, "implementation 'com.billing:sdk:1.0'")
	assert.Contains(t, gradle, "implementation files('libs/a.jar')")
}

func TestAggregateJarsSecondRunDoesNotDuplicate(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)
	testutil.WriteFile(t, filepath.Join(bctx.LibsDir(), "a.jar"), "")

	in := New(bctx, nil)
	require.NoError(t, in.aggregateJars(testutil.Context()))
	require.NoError(t, in.aggregateJars(testutil.Context()))

	gradle := testutil.ReadFile(t, filepath.Join(bctx.TealeafTree(), "build.gradle"))
	assert.Equal(t, 1, strings.Count(gradle, "libs/a.jar"))
}

func TestAggregateJarsNoLibsDirIsNoop(t *testing.T) {
	bctx := testutil.NewBuildContext(t)
	testutil.SeedProject(t, bctx)

	before := testutil.ReadFile(t, filepath.Join(bctx.TealeafTree(), "build.gradle"))
	in := New(bctx, nil)
	require.NoError(t, in.aggregateJars(testutil.Context()))
	assert.Equal(t, before, testutil.ReadFile(t, filepath.Join(bctx.TealeafTree(), "build.gradle")))
}
