// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"isenv-cli/internal/envctx"
	"isenv-cli/internal/issue"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved platform environment",
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	env, err := newEnvContext(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Platform environment"))

	location := "remote"
	if env.OnHost() {
		location = "this host"
	}
	printField(out, "Location", location)
	printField(out, "Install root", env.InstallRoot())
	if env.EngineHome() != "" {
		printField(out, "Engine home", env.EngineHome())
	}
	printField(out, "Resolution", string(env.Source()))
	printField(out, "Version", env.Version())
	printField(out, "Auth file", env.AuthFilePath())

	domain, err := env.ResolveDomain()
	if err != nil {
		return infoResolveError(err, "services tier")
	}
	printField(out, "Services tier", domain)

	engine, err := env.ResolveEngine()
	if err != nil {
		return infoResolveError(err, "engine tier")
	}
	printField(out, "Engine tier", engine)

	if snap := env.Inventory(); snap != nil {
		if len(snap.Products) > 0 {
			printField(out, "Products", strings.Join(snap.Products, ", "))
		}
		for _, patch := range snap.Patches {
			printField(out, "Patch", patch.ID+" ("+patch.Date+")")
		}
	}
	return nil
}

func printField(out io.Writer, label, value string) {
	fmt.Fprintf(out, "  %-14s %s\n", label+":", ValueStyle.Render(value))
}

func infoResolveError(err error, what string) error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, envctx.ErrMissingField) {
		renderIssue(issue.AuthFileNotFoundId)
	}
	return &ExitError{Code: 1, Err: fmt.Errorf("failed to resolve the %s: %w", what, err)}
}
