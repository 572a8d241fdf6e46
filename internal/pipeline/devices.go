package pipeline

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/model"
)

// parseDeviceList extracts device identifiers from `adb devices` output:
// tab-separated lines whose state field is "device" or "emulator". Malformed
// lines are silently excluded.
func parseDeviceList(out string) []string {
	var devices []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) != 2 || fields[0] == "" {
			continue
		}
		switch fields[1] {
		case "device", "emulator":
			devices = append(devices, fields[0])
		}
	}
	return devices
}

// installToDevices installs the packaged artifact on every connected device
// after the settle delay, independently per device: one device failing does
// not block the others. Uninstall and open are best-effort and their errors
// are ignored by design of the install flow.
func (c *Controller) installToDevices(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	// Wait out the artifact copy before handing the path to adb.
	time.Sleep(c.settle)

	res, err := c.runner.Run(ctx, "adb", "devices")
	if err != nil {
		return model.WrapBuildError(err, "failed to list connected devices").
			WithOutput(res.Combined(), res.ExitCode)
	}
	devices := parseDeviceList(res.Stdout)
	if len(devices) == 0 {
		logger.Warn("No connected devices found, nothing to install to.")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, device := range devices {
		device := device
		g.Go(func() error {
			c.installToDevice(gctx, device)
			return nil
		})
	}
	return g.Wait()
}

// installToDevice runs the per-device sequence. Failures are logged, never
// returned, so sibling devices proceed.
func (c *Controller) installToDevice(ctx context.Context, device string) {
	logger := ctxlog.FromContext(ctx).With("device", device)

	// Stale installs block install -r across signatures; ignore the error.
	if _, err := c.runner.Run(ctx, "adb", "-s", device, "uninstall", c.bctx.PackageName); err != nil {
		logger.Debug("Uninstall failed, continuing.", "error", err)
	}

	if res, err := c.runner.Run(ctx, "adb", "-s", device, "install", "-r", c.bctx.ArtifactPath()); err != nil {
		logger.Error("Install failed.", "error", err, "output", res.Combined())
		return
	}
	logger.Info("Installed.", "apk", c.bctx.APKName())

	if c.bctx.ClearStorage {
		if _, err := c.runner.Run(ctx, "adb", "-s", device, "shell", "pm", "clear", c.bctx.PackageName); err != nil {
			logger.Debug("Clear storage failed, continuing.", "error", err)
		}
	}

	if c.bctx.Open {
		activity := c.bctx.PackageName + "/" + c.bctx.ActivityName()
		if _, err := c.runner.Run(ctx, "adb", "-s", device, "shell", "am", "start", "-n", activity); err != nil {
			logger.Debug("Open failed, continuing.", "error", err)
		}
	}
}
