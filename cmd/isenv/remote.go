// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"

	"isenv-cli/internal/envctx"

	"github.com/spf13/cobra"
)

var (
	remoteAccess    string
	remoteUser      string
	remoteKey       string
	remoteHost      string
	remoteContainer string
	remotePort      int
	remoteTarget    string

	remoteCmd = &cobra.Command{
		Use:   "remote",
		Short: "Manage remote connection details",
		Long: `Manage the remote connection details stored in the authorization file.

When this process does not run on the platform host, platform commands
are executed through a recorded connect command (ssh or docker exec) and
files are moved through a recorded copy command (scp or docker cp).`,
	}

	remoteAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Record connect and copy commands for a remote platform host",
		RunE:  runRemoteAdd,
	}
)

func init() {
	remoteAddCmd.Flags().StringVarP(&remoteAccess, "type", "t", "", "access type: ssh or docker")
	remoteAddCmd.Flags().StringVarP(&remoteUser, "user", "u", "", "ssh username")
	remoteAddCmd.Flags().StringVarP(&remoteKey, "key", "k", "", "ssh private key file")
	remoteAddCmd.Flags().StringVar(&remoteHost, "host", "", "ssh host")
	remoteAddCmd.Flags().StringVar(&remoteContainer, "container", "", "container name for docker access")
	remoteAddCmd.Flags().IntVar(&remotePort, "port", 0, "ssh port (default 22)")
	remoteAddCmd.Flags().StringVarP(&remoteTarget, "file", "f", "", "authorization file to append to (default $HOME/"+defaultAuthFileName+")")

	if err := remoteAddCmd.MarkFlagRequired("type"); err != nil {
		panic(err)
	}

	remoteCmd.AddCommand(remoteAddCmd)
}

func runRemoteAdd(cmd *cobra.Command, args []string) error {
	env, err := newEnvContext(cmd.Context())
	if err != nil {
		return err
	}

	access := envctx.AccessType(remoteAccess)
	target := remoteHost
	if access == envctx.AccessDocker {
		target = remoteContainer
	}

	err = env.AddRemoteConnectionDetails(remoteTarget, access, remoteUser, remoteKey, target, remotePort)
	if err != nil {
		if errors.Is(err, envctx.ErrInvalidAccessType) {
			return &ExitError{Code: 1, Err: err}
		}
		return &ExitError{Code: 1, Err: fmt.Errorf("failed to record remote connection details: %w", err)}
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Recorded remote connection details in ")+ValueStyle.Render(env.AuthFilePath()))
	return nil
}
