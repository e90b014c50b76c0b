// SPDX-License-Identifier: MPL-2.0

// Package envctx resolves the environment context for platform CLI tools.
//
// A Context is constructed once per process. Construction decides whether
// the process runs on the platform host (host marker file present, or the
// install root exists locally) or remotely. On-host contexts read the
// install inventory from local disk; remote contexts retrieve it through
// the remote execution bridge, and fall back to authorization-file values
// when that fails too. Every file and command operation is then routed
// through the same decision, so callers never need to know where the
// platform actually lives.
package envctx
