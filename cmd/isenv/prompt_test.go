// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("isadmin\n"))

	got, err := promptLine(in, &out, "Username: ")
	if err != nil {
		t.Fatalf("promptLine() error = %v", err)
	}
	if got != "isadmin" {
		t.Errorf("promptLine() = %q, want %q", got, "isadmin")
	}
	if !strings.Contains(out.String(), "Username: ") {
		t.Errorf("prompt label not written, got %q", out.String())
	}
}

func TestPromptLineTrimsCarriageReturn(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("isadmin\r\n"))

	got, err := promptLine(in, &out, "> ")
	if err != nil {
		t.Fatalf("promptLine() error = %v", err)
	}
	if got != "isadmin" {
		t.Errorf("promptLine() = %q, want %q", got, "isadmin")
	}
}

func TestPromptLineLastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("isadmin"))

	got, err := promptLine(in, &out, "> ")
	if err != nil {
		t.Fatalf("promptLine() error = %v", err)
	}
	if got != "isadmin" {
		t.Errorf("promptLine() = %q, want %q", got, "isadmin")
	}
}

func TestPromptPasswordMatch(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("secret\nsecret\n"))

	got, err := promptPassword(in, &out)
	if err != nil {
		t.Fatalf("promptPassword() error = %v", err)
	}
	if got != "secret" {
		t.Errorf("promptPassword() = %q, want %q", got, "secret")
	}
}

func TestPromptPasswordMismatch(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("secret\ntypo\n"))

	_, err := promptPassword(in, &out)
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("promptPassword() error = %v, want ErrPasswordMismatch", err)
	}
}

func TestExitErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := &ExitError{Code: 3, Err: cause}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}

	bare := &ExitError{Code: 3}
	if bare.Error() != "exit status 3" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 3")
	}
}
