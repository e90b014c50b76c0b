// SPDX-License-Identifier: MPL-2.0

// Package bridge executes command, copy, and remove operations on a remote
// platform host through caller-supplied command templates (SSH-style or
// container-exec-style). The bridge itself is stateless: every operation is
// parameterized by the strings held in a Bridge value.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"
)

const (
	// RemoteAuthFile is the well-known path of the provisioned copy of the
	// local authorization file on the remote host. Commands that embed the
	// local path are rewritten to reference this path before execution.
	RemoteAuthFile = "/tmp/.isauth"

	// SourcePlaceholder and TargetPlaceholder are the substitution points
	// in the copy template.
	SourcePlaceholder = "__SOURCE__"
	TargetPlaceholder = "__TARGET__"

	// NotConfiguredExitCode marks results that never reached a process.
	NotConfiguredExitCode = -1
)

// ErrNotConfigured is the sentinel error wrapped by NotConfiguredError.
var ErrNotConfigured = errors.New("remote execution not configured")

type (
	// Result is the outcome of one bridge operation. Non-zero exit codes
	// from the underlying command are carried here, never returned as
	// errors: the caller decides whether a given failure is fatal.
	Result struct {
		ExitCode  int
		Output    string
		ErrOutput string
		// Error is set only for infrastructure failures (operation not
		// configured, command could not be spawned), not for non-zero
		// exits of a started process.
		Error error
	}

	// Runner spawns a process and waits for it. It exists as a seam so
	// tests can intercept every external invocation.
	Runner func(ctx context.Context, name string, args ...string) *Result

	// NotConfiguredError is returned (inside a Result) when an operation
	// is attempted without the corresponding command template. Failing
	// fast here is deliberate: there is no sane default remote host to
	// time out against.
	NotConfiguredError struct {
		Op string
	}

	// MissingPlaceholderError is returned when the copy template lacks a
	// required substitution point.
	MissingPlaceholderError struct {
		Placeholder string
	}

	// Bridge holds the remote-access configuration for one environment.
	Bridge struct {
		// ConnectString is the remote invocation prefix, e.g.
		// "ssh -i /home/u/.ssh/id_rsa u@host" or "docker exec -i isctr".
		ConnectString string
		// CopyString is the copy template containing __SOURCE__ and
		// __TARGET__, e.g. "scp -i key __SOURCE__ u@host:__TARGET__".
		CopyString string
		// LocalAuthFile is the local authorization file whose remote copy
		// is provisioned lazily before command execution.
		LocalAuthFile string
		// Timeout bounds each external invocation; zero means unbounded,
		// matching the platform tooling's own behavior.
		Timeout time.Duration
		// Logger receives provisioning warnings. Defaults to log.Default().
		Logger *log.Logger
		// Runner overrides process spawning; nil means Run.
		Runner Runner
	}
)

// Error implements the error interface.
func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("remote %s is not configured: no connection details in the authorization file", e.Op)
}

// Unwrap returns ErrNotConfigured so callers can use errors.Is.
func (e *NotConfiguredError) Unwrap() error { return ErrNotConfigured }

// Error implements the error interface.
func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("remote copy template is missing the %s placeholder", e.Placeholder)
}

// Run is the default Runner. It captures stdout and stderr and surfaces the
// process exit code; only spawn failures populate Result.Error.
func Run(ctx context.Context, name string, args ...string) *Result {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Output: stdout.String(), ErrOutput: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = NotConfiguredExitCode
			res.Error = fmt.Errorf("failed to run %s: %w", name, err)
		}
	}
	return res
}

// Configured reports whether a connect string is present.
func (b *Bridge) Configured() bool {
	return strings.TrimSpace(b.ConnectString) != ""
}

// Execute runs command on the remote host. Before running it provisions the
// remote authorization-file copy if absent and rewrites any reference to
// the local authorization file path so that commands composed against the
// local path work unmodified on the remote side.
func (b *Bridge) Execute(ctx context.Context, command string) *Result {
	if !b.Configured() {
		return b.notConfigured("execution")
	}

	if res := b.ensureRemoteAuthFile(ctx); res != nil {
		return res
	}

	if b.LocalAuthFile != "" {
		command = strings.ReplaceAll(command, b.LocalAuthFile, RemoteAuthFile)
	}
	return b.execRemote(ctx, command)
}

// Copy transfers a local file to the remote host by substituting source and
// target into the copy template. Both placeholders must be present;
// a template missing one would silently produce a broken command, so the
// bridge refuses it up front.
func (b *Bridge) Copy(ctx context.Context, source, target string) *Result {
	if strings.TrimSpace(b.CopyString) == "" {
		return b.notConfigured("copy")
	}
	for _, placeholder := range []string{SourcePlaceholder, TargetPlaceholder} {
		if !strings.Contains(b.CopyString, placeholder) {
			err := &MissingPlaceholderError{Placeholder: placeholder}
			return &Result{ExitCode: NotConfiguredExitCode, ErrOutput: err.Error(), Error: err}
		}
	}

	cmdText := strings.ReplaceAll(b.CopyString, SourcePlaceholder, source)
	cmdText = strings.ReplaceAll(cmdText, TargetPlaceholder, target)

	argv, err := shell.Fields(cmdText, nil)
	if err != nil {
		return b.badTemplate("copy", err)
	}
	return b.run(ctx, argv)
}

// Remove deletes a file on the remote host through the connect string.
func (b *Bridge) Remove(ctx context.Context, file string) *Result {
	if !b.Configured() {
		return b.notConfigured("removal")
	}
	return b.execRemote(ctx, "rm -f "+file)
}

// execRemote appends command to the connect-string argv and runs it. No
// provisioning or path rewriting happens here.
func (b *Bridge) execRemote(ctx context.Context, command string) *Result {
	argv, err := shell.Fields(b.ConnectString, nil)
	if err != nil {
		return b.badTemplate("connect", err)
	}
	if len(argv) == 0 {
		return b.notConfigured("execution")
	}

	if isShellStyle(argv[0]) {
		// SSH-style invocations take the whole remote command as a single
		// argument and let the remote login shell interpret it.
		argv = append(argv, command)
	} else {
		// Container-exec-style invocations take an argv directly.
		words, err := shell.Fields(command, nil)
		if err != nil {
			return b.badTemplate("command", err)
		}
		argv = append(argv, words...)
	}
	return b.run(ctx, argv)
}

// ensureRemoteAuthFile provisions the remote authorization-file copy when a
// local file is configured and the remote copy does not exist yet. The
// check-then-copy is idempotent so repeated Execute calls do not re-transfer
// the file. Returns nil when execution may proceed.
func (b *Bridge) ensureRemoteAuthFile(ctx context.Context) *Result {
	if b.LocalAuthFile == "" {
		return nil
	}
	if _, err := os.Stat(b.LocalAuthFile); err != nil {
		// Nothing to provision; commands that need credentials will fail
		// remotely with their own diagnostics.
		return nil
	}

	probe := b.execRemote(ctx, "test -f "+RemoteAuthFile)
	if probe.Error != nil {
		return probe
	}
	if probe.ExitCode == 0 {
		return nil
	}

	b.logger().Debug("provisioning remote authorization file",
		"local", b.LocalAuthFile, "remote", RemoteAuthFile)
	if res := b.Copy(ctx, b.LocalAuthFile, RemoteAuthFile); res.ExitCode != 0 {
		b.logger().Warn("failed to provision remote authorization file",
			"remote", RemoteAuthFile, "stderr", res.ErrOutput)
		return res
	}
	return nil
}

func (b *Bridge) run(ctx context.Context, argv []string) *Result {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	runner := b.Runner
	if runner == nil {
		runner = Run
	}
	return runner(ctx, argv[0], argv[1:]...)
}

func (b *Bridge) notConfigured(op string) *Result {
	err := &NotConfiguredError{Op: op}
	return &Result{ExitCode: NotConfiguredExitCode, ErrOutput: err.Error(), Error: err}
}

func (b *Bridge) badTemplate(kind string, err error) *Result {
	wrapped := fmt.Errorf("failed to parse remote %s string: %w", kind, err)
	return &Result{ExitCode: NotConfiguredExitCode, ErrOutput: wrapped.Error(), Error: wrapped}
}

func (b *Bridge) logger() *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.Default()
}

// isShellStyle reports whether the connect-string binary passes the remote
// command through an interactive login shell (ssh) rather than taking an
// argv directly (docker exec, podman exec).
func isShellStyle(binary string) bool {
	return filepath.Base(binary) == "ssh"
}
