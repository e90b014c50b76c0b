// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrPasswordMismatch is returned when the two password entries differ.
var ErrPasswordMismatch = errors.New("passwords do not match")

// promptLine prints label and reads one line, without the trailing newline.
func promptLine(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads a value without echo when stdin is a terminal, and
// falls back to a plain line read otherwise (pipes, tests).
func promptSecret(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		value, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}
	return promptLine(in, out, "")
}

// promptPassword asks for the password twice and requires both entries to
// match before returning it.
func promptPassword(in *bufio.Reader, out io.Writer) (string, error) {
	first, err := promptSecret(in, out, "Password: ")
	if err != nil {
		return "", err
	}
	second, err := promptSecret(in, out, "Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPasswordMismatch
	}
	return first, nil
}
