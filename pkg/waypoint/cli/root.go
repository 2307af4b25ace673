// Package cli implements the waypoint command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Language string
}

// NewRootCommand creates the root command for the waypoint CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "waypoint",
		Short: "waypoint - navigation stack tooling",
		Long:  "Replay navigation scripts against a controller and inspect saved navigation state.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Verbose {
				internal.SetRawLogLevel("debug")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Language, "lang", "", "language for titles and messages (en|es)")

	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // A script step failed
	ExitCommandError = 2 // Bad input file or flags
)

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}
