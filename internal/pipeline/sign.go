package pipeline

import (
	"context"

	"github.com/vk/droidkit/internal/ctxlog"
	"github.com/vk/droidkit/internal/model"
)

// signingEnvVars are all required before any signing subprocess is spawned.
var signingEnvVars = []string{
	"DEVKIT_ANDROID_KEYSTORE",
	"DEVKIT_ANDROID_STOREPASS",
	"DEVKIT_ANDROID_KEYPASS",
	"DEVKIT_ANDROID_KEY",
}

// checkSigningEnv verifies the signing environment, naming the first missing
// variable.
func (c *Controller) checkSigningEnv() error {
	for _, name := range signingEnvVars {
		if c.env(name) == "" {
			return model.NewBuildError("missing required environment variable %s", name)
		}
	}
	return nil
}

// signAPK signs the assembled package in place with the configured keystore.
func (c *Controller) signAPK(ctx context.Context) error {
	if err := c.checkSigningEnv(); err != nil {
		return err
	}

	res, err := c.runner.Run(ctx, "apksigner", "sign",
		"--ks", c.env("DEVKIT_ANDROID_KEYSTORE"),
		"--ks-key-alias", c.env("DEVKIT_ANDROID_KEY"),
		"--ks-pass", "pass:"+c.env("DEVKIT_ANDROID_STOREPASS"),
		"--key-pass", "pass:"+c.env("DEVKIT_ANDROID_KEYPASS"),
		c.gradleOutputAPK(),
	)
	if err != nil {
		return model.WrapBuildError(err, "failed to sign %s", c.bctx.APKName()).
			WithOutput(res.Combined(), res.ExitCode)
	}
	ctxlog.FromContext(ctx).Info("APK signed.", "apk", c.bctx.APKName())
	return nil
}
