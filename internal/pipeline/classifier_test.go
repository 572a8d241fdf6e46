package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/droidkit/internal/model"
	"github.com/vk/droidkit/internal/tools"
)

func TestClassify(t *testing.T) {
	raw := errors.New("exit status 1")

	testCases := []struct {
		name     string
		res      tools.Result
		contains string
	}{
		{
			name:     "sdk platform not installed",
			res:      tools.Result{Stderr: "Error: Target id 'android-27' not valid", ExitCode: 1},
			contains: "SDK platform",
		},
		{
			name:     "sdk tools missing by output",
			res:      tools.Result{Stderr: "sh: ndk-build: No such file or directory", ExitCode: 1},
			contains: "PATH",
		},
		{
			name:     "sdk tools missing by exit code",
			res:      tools.Result{Stderr: "command failed", ExitCode: 127},
			contains: "PATH",
		},
		{
			name:     "unknown failure keeps raw output",
			res:      tools.Result{Stdout: "BUILD FAILED in 4s", ExitCode: 1},
			contains: "gradle failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("gradle", tc.res, raw)
			require.Error(t, err)

			be, ok := model.AsBuildError(err)
			require.True(t, ok)
			assert.Contains(t, be.Message, tc.contains)
			assert.Equal(t, tc.res.ExitCode, be.ExitCode)
			assert.Equal(t, tc.res.Combined(), be.Output)
			// The original failure stays on the chain.
			assert.ErrorIs(t, err, raw)
		})
	}
}
