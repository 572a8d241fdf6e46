package inject

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/fsutil"
	"github.com/vk/droidkit/internal/markers"
)

// aggregateJars scans the installed-jars directory and appends one Gradle
// dependency declaration per archive into the PLUGINS_DEPENDENCIES region of
// the tealeaf build file. The append is additive over the region's current
// content and deduplicated, so re-running the injector does not stack
// duplicate declarations.
func (in *Injector) aggregateJars(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	names, err := fsutil.ListByExtension(in.bctx.LibsDir(), ".jar")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	gradlePath := filepath.Join(in.bctx.TealeafTree(), "build.gradle")
	base, err := os.ReadFile(gradlePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", gradlePath, err)
	}

	start, end := markers.StyleSlash.Tokens("PLUGINS_DEPENDENCIES")
	payload := markers.Extract(string(base), start, end)
	for _, name := range names {
		line := fmt.Sprintf("implementation files('libs/%s')", name)
		if containsLine(payload, line) {
			continue
		}
		payload += line + "\n"
	}

	text := markers.Replace(string(base), start, end, payload)
	if err := os.WriteFile(gradlePath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", gradlePath, err)
	}
	logger.Debug("Aggregated jar dependencies.", "jars", len(names))
	return nil
}

func containsLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}
