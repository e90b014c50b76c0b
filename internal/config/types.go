// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCommandTimeout is the sentinel error wrapped by InvalidCommandTimeoutError.
var ErrInvalidCommandTimeout = errors.New("invalid command timeout")

type (
	// Config holds the isenv settings loaded from the CUE config file.
	Config struct {
		// InstallRoot is the platform installation root.
		InstallRoot string `mapstructure:"install_root"`
		// AuthFile is the authorization file location.
		AuthFile string `mapstructure:"auth_file"`
		// CommandTimeout bounds external commands, as a duration string.
		// Empty means unbounded, which matches the platform's own tools.
		CommandTimeout string `mapstructure:"command_timeout"`
		// Verbose enables verbose output.
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidCommandTimeoutError is returned when CommandTimeout does not
	// parse as a duration or is negative. It wraps ErrInvalidCommandTimeout
	// for errors.Is() compatibility.
	InvalidCommandTimeoutError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidCommandTimeoutError) Error() string {
	return fmt.Sprintf("invalid command timeout %q (must be a non-negative Go duration, e.g. \"90s\")", e.Value)
}

// Unwrap returns ErrInvalidCommandTimeout so callers can use errors.Is.
func (e *InvalidCommandTimeoutError) Unwrap() error { return ErrInvalidCommandTimeout }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		InstallRoot:    "/opt/IBM/InformationServer",
		CommandTimeout: "",
		Verbose:        false,
	}
}

// Timeout parses CommandTimeout. The zero value means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.CommandTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil || d < 0 {
		return 0, &InvalidCommandTimeoutError{Value: c.CommandTimeout}
	}
	return d, nil
}

// Validate checks constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}
