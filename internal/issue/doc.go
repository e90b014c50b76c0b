// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling for the CLI front-ends.
//
// It defines error types carrying remediation steps plus a small registry of
// Markdown-rendered guidance pages for the failure modes users actually hit
// (missing authorization file, host-only operations invoked remotely, and so on).
package issue
