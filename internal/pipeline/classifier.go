package pipeline

import (
	"regexp"

	"github.com/vk/droidkit/internal/model"
	"github.com/vk/droidkit/internal/tools"
)

// outputPattern maps a recognizable toolchain failure signature, in captured
// output or exit code, to an actionable diagnostic.
type outputPattern struct {
	re         *regexp.Regexp
	exitCode   int // also matches this exit code when non-zero
	diagnostic string
}

var knownFailures = []outputPattern{
	{
		re:         regexp.MustCompile(`(?i)target[^\n]*not valid`),
		diagnostic: "the Android SDK platform this project targets is not installed; install it with sdkmanager and rebuild",
	},
	{
		re:         regexp.MustCompile(`(?i)no such file`),
		exitCode:   127,
		diagnostic: "Android SDK tools were not found; make sure the SDK and NDK are installed and on your PATH",
	},
}

// classify rewrites a failed tool invocation into a targeted user-facing
// diagnostic when its output matches a known signature; every other failure
// propagates as a build error carrying the raw captured output.
func classify(tool string, res tools.Result, err error) error {
	combined := res.Combined()
	for _, p := range knownFailures {
		if p.re.MatchString(combined) || (p.exitCode != 0 && res.ExitCode == p.exitCode) {
			return model.WrapBuildError(err, "%s", p.diagnostic).WithOutput(combined, res.ExitCode)
		}
	}
	return model.WrapBuildError(err, "%s failed", tool).WithOutput(combined, res.ExitCode)
}
