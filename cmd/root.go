package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"tmplsync/internal/store"
	tmplsync "tmplsync/internal/sync"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates a named project or template does not exist.
	ExitCodeNotFound = 2
)

// rootCmd represents the base command for the tmplsync application.
var rootCmd = &cobra.Command{
	Use:   "tmplsync",
	Short: "Keep project configurations in sync with their templates",
	Long: `tmplsync maintains template/implementation relationships between project
configuration documents. A project marked as an implementation of a template
has its configuration overwritten from the template on every sync, with
locally-owned fields (parameters, triggers, disabled flag, description,
matrix axes) preserved according to per-implementation sync settings.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "tmplsync version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the exit code based on the error type. This gives
// scripts a way to tell "no such project" apart from real failures.
func getExitCode(err error) int {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return ExitCodeNotFound
	}

	var tmplNotFound *tmplsync.TemplateNotFoundError
	if errors.As(err, &tmplNotFound) {
		return ExitCodeNotFound
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newListCmd())
}
