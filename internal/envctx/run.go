// SPDX-License-Identifier: MPL-2.0

package envctx

import (
	"context"

	"isenv-cli/internal/bridge"
)

// RunCommand executes command on the platform: directly through the local
// shell when on-host, otherwise through the remote execution bridge. This
// routing is what lets callers compose platform commands without knowing
// where the platform lives.
func (c *Context) RunCommand(ctx context.Context, command string) *bridge.Result {
	if c.onHost {
		return c.runLocal(ctx, "sh", "-c", command)
	}
	return c.bridge().Execute(ctx, command)
}

// CopyFile copies a file onto the platform host (locally a plain cp).
func (c *Context) CopyFile(ctx context.Context, source, target string) *bridge.Result {
	if c.onHost {
		return c.runLocal(ctx, "cp", source, target)
	}
	return c.bridge().Copy(ctx, source, target)
}

// RemoveFile removes a file on the platform host.
func (c *Context) RemoveFile(ctx context.Context, path string) *bridge.Result {
	if c.onHost {
		return c.runLocal(ctx, "rm", "-f", path)
	}
	return c.bridge().Remove(ctx, path)
}

// runLocal spawns a local process with the context's timeout applied.
func (c *Context) runLocal(ctx context.Context, name string, args ...string) *bridge.Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	runner := c.runner
	if runner == nil {
		runner = bridge.Run
	}
	return runner(ctx, name, args...)
}
