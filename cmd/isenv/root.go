// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"isenv-cli/internal/config"
	"isenv-cli/internal/envctx"
	"isenv-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// installRoot overrides the platform installation root
	installRoot string
	// authFilePath overrides the authorization file location
	authFilePath string

	// cfg holds the loaded configuration; nil until initRootConfig runs.
	cfg *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "isenv",
		Short: "Environment context for platform CLI tools",
		Long: TitleStyle.Render("isenv") + SubtitleStyle.Render(" - Environment context for platform CLI tools") + `

isenv resolves where the data-integration platform lives (this host or a
remote one), which version is installed, and which credentials to use,
so that the platform's command-line tools can be driven from anywhere.

Credentials live in an authorization file (` + "`~/.isauth`" + ` by default)
holding the username and the platform-encrypted password, plus optional
remote connect/copy command templates for off-host execution.

` + SubtitleStyle.Render("Examples:") + `
  isenv info                       Show the resolved environment
  isenv authfile create            Create an authorization file (on-host)
  isenv remote add --type ssh --host ishost --user isuser
                                   Record SSH connection details
  isenv run "dsjob -lprojects"     Run a command on the platform host`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/isenv/config.cue)")
	rootCmd.PersistentFlags().StringVar(&installRoot, "install-root", "", "platform installation root (default "+envctx.DefaultInstallRoot+")")
	rootCmd.PersistentFlags().StringVar(&authFilePath, "auth-file", "", "authorization file (default $HOME/"+defaultAuthFileName+")")

	// Add subcommands
	rootCmd.AddCommand(authfileCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(runCmd)
}

const defaultAuthFileName = ".isauth"

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	loaded, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	cfg = loaded

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.Verbose
	}
}

// newEnvContext builds the environment context for a command invocation,
// layering CLI flags over the loaded configuration.
func newEnvContext(ctx context.Context) (*envctx.Context, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "isenv"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	opts := []envctx.Option{envctx.WithLogger(logger)}

	root := installRoot
	if root == "" && cfg != nil {
		root = cfg.InstallRoot
	}
	if root != "" {
		opts = append(opts, envctx.WithInstallRoot(root))
	}

	auth := authFilePath
	if auth == "" && cfg != nil {
		auth = cfg.AuthFile
	}
	if auth != "" {
		opts = append(opts, envctx.WithAuthFile(auth))
	}

	var timeout time.Duration
	if cfg != nil {
		d, err := cfg.Timeout()
		if err != nil {
			return nil, err
		}
		timeout = d
	}
	if timeout > 0 {
		opts = append(opts, envctx.WithCommandTimeout(timeout))
	}

	return envctx.New(ctx, opts...), nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue prints the curated help page for id to stderr, falling back
// to the raw markdown when rendering fails.
func renderIssue(id issue.Id) {
	is := issue.Get(id)
	if is == nil {
		return
	}
	out, err := is.Render("dark")
	if err != nil {
		out = string(is.MarkdownMsg())
	}
	fmt.Fprintln(os.Stderr, out)
}
