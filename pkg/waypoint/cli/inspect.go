package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/i18n"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/persist"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <state.toml>",
		Short: "Print a saved navigation stack",
		Long: `Print the stack stored in a state file written by a savable controller,
bottom entry first, with localized destination titles.

Examples:
  waypoint inspect state.toml
  waypoint inspect state.toml --lang es`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			localizer, err := i18n.New(rootOpts.Language)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid language", err)
			}
			state, err := persist.NewFileStore(args[0]).Load(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read state", err)
			}
			return printState(cmd.OutOrStdout(), state, localizer)
		},
	}
	return cmd
}

func printState(out io.Writer, state map[string]any, localizer *i18n.Localizer) error {
	if len(state) == 0 {
		fmt.Fprintln(out, "No saved state.")
		return nil
	}

	// Restoring into a throwaway controller validates the file the same way an app would.
	key, _ := state["key"].(string)
	c, err := router.New(router.Options{Key: key, Start: "inspect", Host: storage.New()})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create controller", err)
	}
	defer c.Reset()
	if err := c.RestoreState(state); err != nil {
		return WrapExitError(ExitFailure, "invalid state", err)
	}

	name := key
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(out, "%s: %s\n", name, localizer.Depth(c.Len()))
	for i, e := range c.Entries() {
		marker := " "
		if e == c.Current() {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %d %s (%s) id=%s", marker, i, localizer.Title(e.Destination()), e.Destination(), e.ID())
		if args, ok := e.Args(); ok {
			fmt.Fprintf(out, " args=%v", args)
		}
		if result, ok := e.Result(); ok {
			fmt.Fprintf(out, " result=%v", result)
		}
		if saved := e.SavedState(); len(saved) > 0 {
			fmt.Fprintf(out, " ui-state=%d", len(saved))
		}
		fmt.Fprintln(out)
	}
	return nil
}
