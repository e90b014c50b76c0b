// SPDX-License-Identifier: MPL-2.0

// Command isenv manages the environment context for platform CLI tools:
// authorization-file creation, remote connection details, and environment
// inspection.
package main

func main() {
	Execute()
}
