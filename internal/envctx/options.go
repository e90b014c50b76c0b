// SPDX-License-Identifier: MPL-2.0

package envctx

import (
	"time"

	"isenv-cli/internal/bridge"

	"github.com/charmbracelet/log"
)

// Option configures a Context during New.
type Option func(*Context)

// WithInstallRoot overrides the default platform installation root.
func WithInstallRoot(root string) Option {
	return func(c *Context) { c.installRoot = root }
}

// WithAuthFile sets the authorization file location.
func WithAuthFile(path string) Option {
	return func(c *Context) { c.authFile = path }
}

// WithRemoteStrings sets the remote connect and copy command templates,
// taking precedence over templates stored in the authorization file.
func WithRemoteStrings(connect, copyTemplate string) Option {
	return func(c *Context) {
		c.connect = connect
		c.copyTmpl = copyTemplate
	}
}

// WithCommandTimeout bounds every external command spawned through the
// context. Zero, the default, means unbounded.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *Context) { c.timeout = d }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithRunner replaces process spawning; used by tests to intercept every
// external invocation.
func WithRunner(r bridge.Runner) Option {
	return func(c *Context) { c.runner = r }
}

// WithMarkerFile overrides the host marker path; used by tests, which
// cannot place files at the fixed root-level location.
func WithMarkerFile(path string) Option {
	return func(c *Context) { c.markerPath = path }
}
