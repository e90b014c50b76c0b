// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"isenv-cli/internal/bridge"
	"isenv-cli/internal/issue"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Run a shell command on the platform host",
	Long: `Run a shell command on the platform host.

On the platform host the command runs through the local shell. Anywhere
else it runs through the remote connect command recorded in the
authorization file, and any reference to the local authorization file is
rewritten to its copy on the platform host.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := newEnvContext(cmd.Context())
	if err != nil {
		return err
	}

	res := env.RunCommand(cmd.Context(), strings.Join(args, " "))
	if res.Output != "" {
		fmt.Fprint(cmd.OutOrStdout(), res.Output)
	}
	if res.ErrOutput != "" {
		fmt.Fprint(os.Stderr, res.ErrOutput)
	}

	if res.Error != nil {
		if errors.Is(res.Error, bridge.ErrNotConfigured) {
			renderIssue(issue.RemoteNotConfiguredId)
		}
		return &ExitError{Code: 1, Err: res.Error}
	}
	if res.ExitCode != 0 {
		return &ExitError{Code: res.ExitCode, Err: fmt.Errorf("command exited with code %d", res.ExitCode)}
	}
	return nil
}
