// SPDX-License-Identifier: MPL-2.0

package envctx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"isenv-cli/internal/authfile"
	"isenv-cli/internal/bridge"
	"isenv-cli/internal/inventory"

	"github.com/charmbracelet/log"
)

const (
	// DefaultInstallRoot is the conventional platform installation root.
	DefaultInstallRoot = "/opt/IBM/InformationServer"

	// DefaultMarkerFile is the fixed-path file whose presence signals that
	// this process runs on the platform host. Its content is the engine
	// installation directory.
	DefaultMarkerFile = "/.dshome"

	// inventoryFileName is the install-registry XML under the install root.
	inventoryFileName = "Version.xml"

	// VersionUnknown is reported when no inventory could be retrieved.
	VersionUnknown = "unknown"

	// SourceInventory resolves tier and version values from the parsed
	// install registry.
	SourceInventory Source = "inventory"
	// SourceAuthFile resolves tier values lazily from the authorization
	// file; the platform version is unknown on this path.
	SourceAuthFile Source = "authfile"
)

// ErrMissingField is the sentinel error wrapped by MissingFieldError.
var ErrMissingField = errors.New("missing authorization file field")

type (
	// Source is the resolution source selected once at construction.
	Source string

	// MissingFieldError is returned when a required value is absent from
	// the authorization file. It wraps ErrMissingField for errors.Is().
	MissingFieldError struct {
		Field string
		Path  string
	}

	// Context is the per-process environment context. It is not designed
	// for concurrent mutation; concurrent reads of resolved values are
	// safe once construction returns.
	Context struct {
		installRoot string
		engineHome  string
		markerPath  string
		onHost      bool
		source      Source
		snapshot    *inventory.Snapshot
		authFile    string
		connect     string
		copyTmpl    string
		timeout     time.Duration
		logger      *log.Logger
		runner      bridge.Runner

		credMu     sync.Mutex
		credLoaded bool
		creds      *authfile.Fields
		credErr    error
	}
)

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("authorization file %s has no %q line", e.Path, e.Field)
}

// Unwrap returns ErrMissingField so callers can use errors.Is.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// New constructs the environment context, resolving the on-host/remote
// decision and the resolution source exactly once. Construction never
// fails: when neither a local installation nor remote inventory is
// reachable, the context downgrades to authorization-file-only resolution.
func New(ctx context.Context, opts ...Option) *Context {
	c := &Context{
		installRoot: DefaultInstallRoot,
		markerPath:  DefaultMarkerFile,
		logger:      log.NewWithOptions(os.Stderr, log.Options{Prefix: "isenv"}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.authFile == "" {
		if path, err := authfile.DefaultPath(); err == nil {
			c.authFile = path
		}
	}

	// Remote connection templates live in the authorization file once
	// added; pick them up unless the caller supplied its own.
	if c.connect == "" && c.copyTmpl == "" && c.authFile != "" {
		if fields, err := authfile.Read(c.authFile); err == nil {
			c.connect = fields.RemoteConnectString
			c.copyTmpl = fields.RemoteCopyString
		}
	}

	c.detect(ctx)
	return c
}

// detect resolves onHost and the resolution source.
func (c *Context) detect(ctx context.Context) {
	if data, err := os.ReadFile(c.markerPath); err == nil {
		c.onHost = true
		c.engineHome = strings.TrimSpace(string(data))
		if c.engineHome != "" {
			// Marker content is <root>/Server/DSEngine; the install root
			// is two levels up.
			c.installRoot = filepath.Dir(filepath.Dir(c.engineHome))
		}
	} else if info, statErr := os.Stat(c.installRoot); statErr == nil && info.IsDir() {
		// The marker is the authoritative signal; a bare install root
		// directory without it is unexpected but treated as on-host.
		c.onHost = true
		c.logger.Warn("host marker file missing, treating existing install root as the platform host",
			"marker", c.markerPath, "root", c.installRoot)
	}

	if c.onHost {
		c.source = c.loadLocalInventory()
		return
	}
	c.source = c.loadRemoteInventory(ctx)
}

func (c *Context) loadLocalInventory() Source {
	path := c.inventoryPath()
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("failed to read install inventory, falling back to authorization file",
			"path", path, "err", err)
		return SourceAuthFile
	}
	snap, err := inventory.Parse(data)
	if err != nil {
		c.logger.Warn("malformed install inventory, falling back to authorization file",
			"path", path, "err", err)
		return SourceAuthFile
	}
	c.snapshot = snap
	return SourceInventory
}

func (c *Context) loadRemoteInventory(ctx context.Context) Source {
	b := c.bridge()
	if !b.Configured() {
		return SourceAuthFile
	}

	res := b.Execute(ctx, "cat "+c.inventoryPath())
	if res.Error != nil || res.ExitCode != 0 {
		c.logger.Warn("failed to retrieve remote install inventory, falling back to authorization file",
			"exitCode", res.ExitCode, "stderr", strings.TrimSpace(res.ErrOutput))
		return SourceAuthFile
	}
	snap, err := inventory.Parse([]byte(res.Output))
	if err != nil {
		c.logger.Warn("malformed remote install inventory, falling back to authorization file", "err", err)
		return SourceAuthFile
	}
	c.snapshot = snap
	return SourceInventory
}

// OnHost reports whether this process runs on the platform host.
func (c *Context) OnHost() bool { return c.onHost }

// Source returns the resolution source selected at construction.
func (c *Context) Source() Source { return c.source }

// InstallRoot returns the platform installation root path.
func (c *Context) InstallRoot() string { return c.installRoot }

// EngineHome returns the engine installation directory from the host
// marker, or "" when the marker was absent.
func (c *Context) EngineHome() string { return c.engineHome }

// AuthFilePath returns the active authorization file location.
func (c *Context) AuthFilePath() string { return c.authFile }

// Inventory returns the parsed install snapshot, or nil when resolution
// runs off the authorization file.
func (c *Context) Inventory() *inventory.Snapshot { return c.snapshot }

// Version returns the installed platform version, or VersionUnknown when
// no inventory was retrieved.
func (c *Context) Version() string {
	if c.snapshot != nil {
		return c.snapshot.CurrentVersion
	}
	return VersionUnknown
}

// ResolveDomain returns the services-tier address as "host:port".
func (c *Context) ResolveDomain() (string, error) {
	if c.source == SourceInventory {
		return c.snapshot.DomainHost + ":" + c.snapshot.ConsolePort, nil
	}
	fields, err := c.credentials()
	if err != nil {
		return "", err
	}
	if fields.Domain == "" {
		return "", &MissingFieldError{Field: authfile.KeyDomain, Path: c.authFile}
	}
	return fields.Domain, nil
}

// ResolveEngine returns the engine-tier identifier, upper-cased.
func (c *Context) ResolveEngine() (string, error) {
	if c.source == SourceInventory {
		return strings.ToUpper(c.snapshot.EngineHost), nil
	}
	fields, err := c.credentials()
	if err != nil {
		return "", err
	}
	if fields.Server == "" {
		return "", &MissingFieldError{Field: authfile.KeyServer, Path: c.authFile}
	}
	return strings.ToUpper(fields.Server), nil
}

// Username returns the username from the authorization file.
func (c *Context) Username() (string, error) {
	fields, err := c.credentials()
	if err != nil {
		return "", err
	}
	if fields.User == "" {
		return "", &MissingFieldError{Field: authfile.KeyUser, Path: c.authFile}
	}
	return fields.User, nil
}

// Password returns the platform-encrypted password from the authorization
// file. It is never decrypted here; the platform tools accept the
// encrypted form.
func (c *Context) Password() (string, error) {
	fields, err := c.credentials()
	if err != nil {
		return "", err
	}
	if fields.Password == "" {
		return "", &MissingFieldError{Field: authfile.KeyPassword, Path: c.authFile}
	}
	return fields.Password, nil
}

// credentials reads the authorization file on first access and memoizes
// the result (including a read failure) for the context's lifetime.
func (c *Context) credentials() (*authfile.Fields, error) {
	c.credMu.Lock()
	defer c.credMu.Unlock()

	if !c.credLoaded {
		c.creds, c.credErr = authfile.Read(c.authFile)
		c.credLoaded = true
	}
	return c.creds, c.credErr
}

// setAuthFile adopts a new authorization file location and drops any
// memoized credentials so the next access reads the new file.
func (c *Context) setAuthFile(path string) {
	c.credMu.Lock()
	defer c.credMu.Unlock()
	c.authFile = path
	c.credLoaded = false
	c.creds = nil
	c.credErr = nil
}

func (c *Context) inventoryPath() string {
	return filepath.Join(c.installRoot, inventoryFileName)
}

// bridge builds the remote execution bridge from this context's state.
func (c *Context) bridge() *bridge.Bridge {
	return &bridge.Bridge{
		ConnectString: c.connect,
		CopyString:    c.copyTmpl,
		LocalAuthFile: c.authFile,
		Timeout:       c.timeout,
		Logger:        c.logger,
		Runner:        c.runner,
	}
}
