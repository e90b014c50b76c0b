// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"isenv-cli/internal/envctx"
	"isenv-cli/internal/issue"

	"github.com/spf13/cobra"
)

var (
	authfileUser     string
	authfilePassword string
	authfileTarget   string

	authfileCmd = &cobra.Command{
		Use:   "authfile",
		Short: "Manage the authorization file",
		Long: `Manage the authorization file holding the platform credentials.

The file stores the username, the platform-encrypted password, and the
resolved services and engine tier addresses. Creating it requires the
platform host, where the platform's encryption command is available.`,
	}

	authfileCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an authorization file with encrypted credentials",
		RunE:  runAuthfileCreate,
	}
)

func init() {
	authfileCreateCmd.Flags().StringVarP(&authfileUser, "user", "u", "", "platform username (prompted when omitted)")
	authfileCreateCmd.Flags().StringVarP(&authfilePassword, "password", "p", "", "platform password (prompted when omitted)")
	authfileCreateCmd.Flags().StringVarP(&authfileTarget, "file", "f", "", "authorization file to write (default $HOME/"+defaultAuthFileName+")")

	authfileCmd.AddCommand(authfileCreateCmd)
}

func runAuthfileCreate(cmd *cobra.Command, args []string) error {
	env, err := newEnvContext(cmd.Context())
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	username := authfileUser
	if username == "" {
		username, err = promptLine(in, out, "Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if username == "" {
		return &ExitError{Code: 1, Err: fmt.Errorf("a username is required")}
	}

	password := authfilePassword
	if password == "" {
		password, err = promptPassword(in, out)
		if errors.Is(err, ErrPasswordMismatch) {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+"passwords do not match")
			return &ExitError{Code: 1, Err: err}
		}
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	if err := env.CreateAuthFile(cmd.Context(), username, password, authfileTarget); err != nil {
		switch {
		case errors.Is(err, envctx.ErrHostRequired):
			renderIssue(issue.HostRequiredId)
		case errors.Is(err, envctx.ErrEncryptFailed):
			renderIssue(issue.EncryptFailedId)
		case errors.Is(err, envctx.ErrMissingField):
			renderIssue(issue.AuthFileNotFoundId)
		}
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(out, SuccessStyle.Render("Created ")+ValueStyle.Render(env.AuthFilePath()))
	return nil
}
