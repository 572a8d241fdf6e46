// Package tools abstracts the external toolchain processes the build drives:
// the seed-template instantiation command, the native compiler, Gradle, the
// APK signer and adb. The pipeline depends only on the CommandRunner
// interface so tests substitute a scripted fake.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vk/droidkit/internal/ctxlog"
)

// Result captures what an external process produced, regardless of whether
// it succeeded.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout followed by stderr, for diagnostics and for
// pattern classification of tool failures.
func (r Result) Combined() string {
	if r.Stdout == "" {
		return r.Stderr
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}

// CommandRunner runs one external command to completion and captures its
// output. Implementations must populate the Result even on failure so the
// caller can classify the captured output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner is the os/exec backed CommandRunner used in production.
type ExecRunner struct {
	// Dir, when set, is the working directory commands run in.
	Dir string
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// Run executes the command and waits for it. A non-zero exit returns both a
// populated Result and a non-nil error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running external command.", "command", name, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: 0}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		logger.Debug("External command failed.", "command", name,
			"exitCode", res.ExitCode, "output", res.Combined())
		return res, fmt.Errorf("%s exited with code %d: %w", name, res.ExitCode, err)
	}
	// The process never started (command not found, permission denied).
	res.ExitCode = 127
	return res, fmt.Errorf("failed to start %s: %w", name, err)
}
