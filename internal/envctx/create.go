// SPDX-License-Identifier: MPL-2.0

package envctx

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"isenv-cli/internal/authfile"
	"isenv-cli/internal/bridge"
)

// Remote access types accepted by AddRemoteConnectionDetails.
const (
	AccessSSH    AccessType = "ssh"
	AccessDocker AccessType = "docker"
)

// encryptRelPath locates the platform's password encryption command under
// the install root. It only exists on the platform host.
const encryptRelPath = "ASBNode/bin/encrypt.sh"

var (
	// ErrHostRequired is the sentinel error wrapped by HostRequiredError.
	ErrHostRequired = errors.New("operation requires the platform host")
	// ErrInvalidAccessType is the sentinel error wrapped by InvalidAccessTypeError.
	ErrInvalidAccessType = errors.New("invalid remote access type")
	// ErrEncryptFailed is the sentinel error wrapped by EncryptError.
	ErrEncryptFailed = errors.New("password encryption failed")
)

type (
	// AccessType selects how a remote platform host is reached.
	AccessType string

	// HostRequiredError is returned when a host-only operation is invoked
	// off-host. It wraps ErrHostRequired for errors.Is() compatibility.
	HostRequiredError struct {
		Op string
	}

	// InvalidAccessTypeError is returned for an unrecognized AccessType.
	InvalidAccessTypeError struct {
		Value AccessType
	}

	// EncryptError is returned when the platform encryption command exits
	// non-zero. Nothing is persisted in that case.
	EncryptError struct {
		ExitCode int
		Stderr   string
	}
)

// Error implements the error interface.
func (e *HostRequiredError) Error() string {
	return fmt.Sprintf("cannot %s: this operation requires the platform host", e.Op)
}

// Unwrap returns ErrHostRequired so callers can use errors.Is.
func (e *HostRequiredError) Unwrap() error { return ErrHostRequired }

// Error implements the error interface.
func (e *InvalidAccessTypeError) Error() string {
	return fmt.Sprintf("invalid remote access type %q (must be %q or %q)", e.Value, AccessSSH, AccessDocker)
}

// Unwrap returns ErrInvalidAccessType so callers can use errors.Is.
func (e *InvalidAccessTypeError) Unwrap() error { return ErrInvalidAccessType }

// Error implements the error interface.
func (e *EncryptError) Error() string {
	msg := fmt.Sprintf("password encryption failed with exit code %d", e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap returns ErrEncryptFailed so callers can use errors.Is.
func (e *EncryptError) Unwrap() error { return ErrEncryptFailed }

// CreateAuthFile encrypts password through the platform's encryption
// command and persists an authorization file at path. It requires the
// on-host path since the encryption command exists only there, and fails
// without writing anything when encryption fails. On success the context
// adopts path as its active authorization file.
func (c *Context) CreateAuthFile(ctx context.Context, username, password, path string) error {
	if !c.onHost {
		return &HostRequiredError{Op: "create authorization file"}
	}
	if path == "" {
		path = c.authFile
	}
	if path == "" {
		return fmt.Errorf("no authorization file path given and no default available")
	}

	encryptCmd := filepath.Join(c.installRoot, filepath.FromSlash(encryptRelPath))
	res := c.runLocal(ctx, encryptCmd, password)
	if res.Error != nil {
		return fmt.Errorf("failed to run encryption command %s: %w", encryptCmd, res.Error)
	}
	if res.ExitCode != 0 {
		return &EncryptError{ExitCode: res.ExitCode, Stderr: res.ErrOutput}
	}
	encrypted := strings.TrimRight(res.Output, "\r\n")

	domain, err := c.ResolveDomain()
	if err != nil {
		return fmt.Errorf("failed to resolve domain tier for authorization file: %w", err)
	}
	engine, err := c.ResolveEngine()
	if err != nil {
		return fmt.Errorf("failed to resolve engine tier for authorization file: %w", err)
	}

	fields := &authfile.Fields{
		User:     username,
		Password: encrypted,
		Domain:   domain,
		Server:   engine,
	}
	if err := authfile.Write(path, fields); err != nil {
		return err
	}

	c.setAuthFile(path)
	return nil
}

// AddRemoteConnectionDetails builds the connect and copy command templates
// for the chosen access type, appends them to the authorization file at
// path, and adopts them for this context's remote operations. The SSH form
// honors an optional port; the Docker form ignores key and port.
func (c *Context) AddRemoteConnectionDetails(path string, access AccessType, username, privateKey, hostOrContainer string, port int) error {
	if path == "" {
		path = c.authFile
	}

	var connect, copyTmpl string
	switch access {
	case AccessSSH:
		if username == "" || hostOrContainer == "" {
			return fmt.Errorf("ssh access requires a username and a host")
		}
		connect = "ssh"
		copyTmpl = "scp"
		if privateKey != "" {
			connect += " -i " + privateKey
			copyTmpl += " -i " + privateKey
		}
		if port > 0 {
			connect += " -p " + strconv.Itoa(port)
			copyTmpl += " -P " + strconv.Itoa(port)
		}
		connect += " " + username + "@" + hostOrContainer
		copyTmpl += " " + bridge.SourcePlaceholder + " " + username + "@" + hostOrContainer + ":" + bridge.TargetPlaceholder
	case AccessDocker:
		if hostOrContainer == "" {
			return fmt.Errorf("docker access requires a container name")
		}
		connect = "docker exec -i " + hostOrContainer
		copyTmpl = "docker cp " + bridge.SourcePlaceholder + " " + hostOrContainer + ":" + bridge.TargetPlaceholder
	default:
		return &InvalidAccessTypeError{Value: access}
	}

	err := authfile.Append(path,
		authfile.KeyRemoteConnectString+"="+connect,
		authfile.KeyRemoteCopyString+"="+copyTmpl,
	)
	if err != nil {
		return err
	}

	c.connect = connect
	c.copyTmpl = copyTmpl
	c.setAuthFile(path)
	return nil
}
