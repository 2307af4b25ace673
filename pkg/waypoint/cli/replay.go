package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/i18n"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/lifecycle"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/persist"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	StateFile     string
	SequentialIDs bool
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Run a navigation script and print the stack after every step",
		Long: `Run a YAML navigation script against a fresh controller.

After each step the stack is printed bottom first, the current entry marked with '*'.
Entries that leave the stack are torn down and reported with the number of models
closed. The final state can be written with --state for later inspection.

Examples:
  waypoint replay flow.yaml
  waypoint replay flow.yaml --sequential-ids --state state.toml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := LoadScript(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load script", err)
			}
			return runReplay(cmd.Context(), opts, script, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.StateFile, "state", "", "write the final saved state to this TOML file")
	cmd.Flags().BoolVar(&opts.SequentialIDs, "sequential-ids", false, "use entry-1, entry-2, ... instead of random ids")

	return cmd
}

// recordingModel is the closable model created by the "model" op.
type recordingModel struct {
	key string
	out io.Writer
}

func (m *recordingModel) Close() error {
	fmt.Fprintf(m.out, "  model %s closed\n", m.key)
	return nil
}

type replayer struct {
	script    *Script
	opts      router.Options
	out       io.Writer
	localizer *i18n.Localizer

	host       *storage.Storage
	controller *router.Controller
	dispatcher *lifecycle.Dispatcher
	saved      map[string]any
	total      lifecycle.Stats
}

func runReplay(ctx context.Context, opts *ReplayOptions, script *Script, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	localizer, err := i18n.New(opts.Language)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid language", err)
	}

	mode, _ := router.ParseStorageMode(script.Mode)
	r := &replayer{
		script:    script,
		out:       out,
		localizer: localizer,
		host:      storage.New(),
		opts: router.Options{
			Key:          script.Key,
			Start:        router.Destination(script.Start),
			StartArgs:    script.StartArgs,
			Destinations: script.destinations(),
			Mode:         mode,
		},
	}
	if opts.SequentialIDs {
		n := 0
		r.opts.NewID = func() string {
			n++
			return fmt.Sprintf("entry-%d", n)
		}
	}

	if err := r.attach(); err != nil {
		return WrapExitError(ExitCommandError, "failed to create controller", err)
	}
	fmt.Fprintf(out, "start\n%s", r.controller.Dump())

	for i, step := range script.Steps {
		fmt.Fprintf(out, "step %d: %s", i+1, step.Op)
		if step.Destination != "" {
			fmt.Fprintf(out, " %s", step.Destination)
		}
		fmt.Fprintln(out)

		err := r.apply(step)
		switch {
		case err != nil && step.ExpectError:
			fmt.Fprintf(out, "  expected error: %s\n", localizer.Describe(err))
		case err != nil:
			return WrapExitError(ExitFailure, fmt.Sprintf("step %d (%s) failed", i+1, step.Op), err)
		case step.ExpectError:
			return WrapExitError(ExitFailure, fmt.Sprintf("step %d (%s) succeeded, expected an error", i+1, step.Op), nil)
		}
		fmt.Fprint(out, r.controller.Dump())
	}

	stats := r.stats()
	fmt.Fprintf(out, "closed entries=%d models=%d failures=%d storages=%d\n",
		stats.Entries, stats.Models, stats.ModelFailures, stats.Storages)
	fmt.Fprintf(out, "showing %q, %s\n", localizer.Title(r.controller.Current().Destination()), localizer.Depth(r.controller.Len()))

	if opts.StateFile != "" {
		if err := persist.NewFileStore(opts.StateFile).Save(ctx, r.controller.SaveState()); err != nil {
			return WrapExitError(ExitCommandError, "failed to write state", err)
		}
	}
	return nil
}

func (r *replayer) attach() error {
	opts := r.opts
	opts.Host = r.host
	c, err := router.New(opts)
	if err != nil {
		return err
	}
	if r.dispatcher != nil {
		r.total = r.stats()
	}
	r.controller = c
	r.dispatcher = lifecycle.Attach(c)
	r.dispatcher.OnClosed(func(e *router.Entry, s lifecycle.Stats) {
		fmt.Fprintf(r.out, "  closed %s id=%s models=%d\n", e.Destination(), e.ID(), s.Models)
	})
	return nil
}

func (r *replayer) stats() lifecycle.Stats {
	s := r.dispatcher.Stats()
	return lifecycle.Stats{
		Entries:       r.total.Entries + s.Entries,
		Models:        r.total.Models + s.Models,
		ModelFailures: r.total.ModelFailures + s.ModelFailures,
		Storages:      r.total.Storages + s.Storages,
	}
}

func (r *replayer) apply(step Step) error {
	c := r.controller
	switch step.Op {
	case OpNavigate:
		return c.Navigate(router.Destination(step.Destination), step.navOptions()...)
	case OpReplace:
		return c.Replace(router.Destination(step.Destination), step.navOptions()...)
	case OpBack:
		if step.Result != nil {
			return c.BackWithResult(step.Result)
		}
		return c.Back()
	case OpReset:
		c.Reset()
		return nil
	case OpSave:
		r.saved = c.SaveState()
		return nil
	case OpRestore:
		if r.saved == nil && c.Mode() == router.ModeSavable {
			return fmt.Errorf("restore before save")
		}
		if step.Fresh {
			r.host = storage.New()
		}
		if err := r.attach(); err != nil {
			return err
		}
		return r.controller.RestoreState(r.saved)
	case OpModel:
		c.EntryStorage(c.Current()).Model(storage.ModelKey(step.Key), func() storage.Closable {
			return &recordingModel{key: step.Key, out: r.out}
		})
		return nil
	}
	return fmt.Errorf("unknown op %q", step.Op)
}
