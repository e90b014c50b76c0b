// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// call records one runner invocation.
type call struct {
	name string
	args []string
}

// fakeRunner returns canned results in order and records every invocation.
type fakeRunner struct {
	calls   []call
	results []*Result
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) *Result {
	f.calls = append(f.calls, call{name: name, args: args})
	if len(f.results) > 0 {
		res := f.results[0]
		f.results = f.results[1:]
		return res
	}
	return &Result{}
}

// writeAuthFile creates a throwaway local authorization file and returns its path.
func writeAuthFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".isauth")
	if err := os.WriteFile(path, []byte("user=isadmin\npassword=x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecuteNotConfigured(t *testing.T) {
	f := &fakeRunner{}
	b := &Bridge{Runner: f.run}

	res := b.Execute(context.Background(), "ls /opt")

	if res.ExitCode != NotConfiguredExitCode {
		t.Errorf("expected exit code %d, got %d", NotConfiguredExitCode, res.ExitCode)
	}
	if res.ErrOutput == "" {
		t.Error("expected descriptive stderr for unconfigured bridge")
	}
	var notConfigured *NotConfiguredError
	if !errors.As(res.Error, &notConfigured) {
		t.Errorf("expected NotConfiguredError, got %v", res.Error)
	}
	if len(f.calls) != 0 {
		t.Errorf("no process may be spawned when unconfigured, saw %v", f.calls)
	}
}

func TestExecuteSSHStyleQuotesAndRewrites(t *testing.T) {
	authPath := writeAuthFile(t)
	f := &fakeRunner{results: []*Result{
		{ExitCode: 0}, // test -f: remote copy already present
		{ExitCode: 0, Output: "done\n"},
	}}
	b := &Bridge{
		ConnectString: "ssh -i /home/u/.ssh/id_rsa u@host1",
		CopyString:    "scp -i /home/u/.ssh/id_rsa __SOURCE__ u@host1:__TARGET__",
		LocalAuthFile: authPath,
		Runner:        f.run,
	}

	res := b.Execute(context.Background(), "istool export -af "+authPath+" -ar all.isx")
	if res.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(f.calls) != 2 {
		t.Fatalf("expected probe + command, got %d calls: %v", len(f.calls), f.calls)
	}

	probe := f.calls[0]
	if probe.name != "ssh" || probe.args[len(probe.args)-1] != "test -f "+RemoteAuthFile {
		t.Errorf("unexpected existence probe: %+v", probe)
	}

	run := f.calls[1]
	if run.name != "ssh" {
		t.Errorf("expected ssh invocation, got %q", run.name)
	}
	// The remote command must arrive as a single argument with the local
	// auth path rewritten to the remote copy.
	last := run.args[len(run.args)-1]
	want := "istool export -af " + RemoteAuthFile + " -ar all.isx"
	if last != want {
		t.Errorf("expected single rewritten remote argument %q, got %q", want, last)
	}
}

func TestExecuteCopiesAuthFileWhenAbsent(t *testing.T) {
	authPath := writeAuthFile(t)
	f := &fakeRunner{results: []*Result{
		{ExitCode: 1}, // test -f: absent
		{ExitCode: 0}, // scp
		{ExitCode: 0, Output: "ok"},
	}}
	b := &Bridge{
		ConnectString: "ssh u@host1",
		CopyString:    "scp __SOURCE__ u@host1:__TARGET__",
		LocalAuthFile: authPath,
		Runner:        f.run,
	}

	res := b.Execute(context.Background(), "dsjob -lprojects")
	if res.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(f.calls) != 3 {
		t.Fatalf("expected probe + copy + command, got %v", f.calls)
	}
	copyCall := f.calls[1]
	if copyCall.name != "scp" {
		t.Errorf("expected scp provisioning call, got %+v", copyCall)
	}
	joined := strings.Join(copyCall.args, " ")
	if !strings.Contains(joined, authPath) || !strings.Contains(joined, RemoteAuthFile) {
		t.Errorf("copy call must transfer %s to %s, got %q", authPath, RemoteAuthFile, joined)
	}
}

func TestExecuteDockerStyleAppendsArgv(t *testing.T) {
	f := &fakeRunner{results: []*Result{{ExitCode: 0}}}
	b := &Bridge{
		ConnectString: "docker exec -i isserver",
		Runner:        f.run,
	}

	res := b.Execute(context.Background(), "cat /opt/IBM/InformationServer/Version.xml")
	if res.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(f.calls) != 1 {
		t.Fatalf("expected a single call, got %v", f.calls)
	}
	got := f.calls[0]
	if got.name != "docker" {
		t.Errorf("expected docker invocation, got %q", got.name)
	}
	wantArgs := []string{"exec", "-i", "isserver", "cat", "/opt/IBM/InformationServer/Version.xml"}
	if strings.Join(got.args, " ") != strings.Join(wantArgs, " ") {
		t.Errorf("expected argv %v, got %v", wantArgs, got.args)
	}
}

func TestCopyValidatesPlaceholders(t *testing.T) {
	f := &fakeRunner{}
	b := &Bridge{
		ConnectString: "ssh u@host1",
		CopyString:    "scp __SOURCE__ u@host1:/tmp/fixed", // no __TARGET__
		Runner:        f.run,
	}

	res := b.Copy(context.Background(), "/tmp/a", "/tmp/b")
	if res.ExitCode != NotConfiguredExitCode {
		t.Errorf("expected fail-fast exit code, got %d", res.ExitCode)
	}
	var missing *MissingPlaceholderError
	if !errors.As(res.Error, &missing) {
		t.Fatalf("expected MissingPlaceholderError, got %v", res.Error)
	}
	if missing.Placeholder != TargetPlaceholder {
		t.Errorf("expected missing %s, got %s", TargetPlaceholder, missing.Placeholder)
	}
	if len(f.calls) != 0 {
		t.Errorf("broken template must not spawn a process, saw %v", f.calls)
	}
}

func TestCopySubstitutesPlaceholders(t *testing.T) {
	f := &fakeRunner{results: []*Result{{ExitCode: 0}}}
	b := &Bridge{
		CopyString: "docker cp __SOURCE__ isserver:__TARGET__",
		Runner:     f.run,
	}

	res := b.Copy(context.Background(), "/tmp/local.isx", "/tmp/remote.isx")
	if res.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	got := strings.Join(f.calls[0].args, " ")
	if got != "cp /tmp/local.isx isserver:/tmp/remote.isx" {
		t.Errorf("unexpected substituted argv: %q", got)
	}
}

func TestRemove(t *testing.T) {
	f := &fakeRunner{results: []*Result{{ExitCode: 0}}}
	b := &Bridge{ConnectString: "ssh u@host1", Runner: f.run}

	res := b.Remove(context.Background(), "/tmp/export.isx")
	if res.ExitCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	last := f.calls[0].args[len(f.calls[0].args)-1]
	if last != "rm -f /tmp/export.isx" {
		t.Errorf("unexpected remove command: %q", last)
	}
}

func TestRemoveNotConfigured(t *testing.T) {
	b := &Bridge{}
	res := b.Remove(context.Background(), "/tmp/x")
	if res.ExitCode != NotConfiguredExitCode {
		t.Errorf("expected exit code %d, got %d", NotConfiguredExitCode, res.ExitCode)
	}
}

func TestNonZeroExitSurfacesInResult(t *testing.T) {
	f := &fakeRunner{results: []*Result{{ExitCode: 2, ErrOutput: "No such file or directory"}}}
	b := &Bridge{ConnectString: "docker exec -i isserver", Runner: f.run}

	res := b.Execute(context.Background(), "ls /nope")
	if res.ExitCode != 2 {
		t.Errorf("expected exit code 2, got %d", res.ExitCode)
	}
	if res.Error != nil {
		t.Errorf("non-zero exits are results, not errors; got %v", res.Error)
	}
}
