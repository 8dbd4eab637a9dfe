package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/shuffle/internal/rename"
	"github.com/calvinalkan/shuffle/internal/workspace"
)

const (
	msgRandomized = "Files randomized successfully!"
	msgRestored   = "Files returned to normal!"
	msgStripped   = "Prefixes removed and CSV recreated!"
)

// action is one of the workspace operations that renames files.
type action struct {
	run     func(*workspace.Workspace) (workspace.Result, error)
	success string
}

var (
	actionRandomize = action{run: (*workspace.Workspace).Randomize, success: msgRandomized}
	actionRestore   = action{run: (*workspace.Workspace).Restore, success: msgRestored}
	actionStrip     = action{run: (*workspace.Workspace).Strip, success: msgStripped}
)

// RandomizeCmd returns the randomize command.
func RandomizeCmd(e *env) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("randomize", flag.ContinueOnError),
		Usage:   "randomize",
		Aliases: []string{"rs"},
		Short:   "Give every file a fresh random numeric prefix",
		Long: `Restore any previous prefixes, then prefix every file in the directory
with a unique random number (_<n><name>). The tracker records each
file's original name so the change can be undone.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execAction(o, e, actionRandomize)
		},
	}
}

// RestoreCmd returns the restore command.
func RestoreCmd(e *env) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("restore", flag.ContinueOnError),
		Usage:   "restore",
		Aliases: []string{"cb"},
		Short:   "Change files back to their original names",
		Long: `Rename every tracked file back to the original name recorded in the
tracker. A file is skipped if its original name is already taken.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execAction(o, e, actionRestore)
		},
	}
}

// StripCmd returns the strip command.
func StripCmd(e *env) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("strip", flag.ContinueOnError),
		Usage:   "strip",
		Aliases: []string{"rp"},
		Short:   "Remove prefixes and recreate the tracker",
		Long: `Remove any leading _<digits> prefix from file names and rebuild the
tracker from scratch. Use this when the tracker is missing or out of sync.

Files whose original name started with an underscore and digits lose
that part of their name.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execAction(o, e, actionStrip)
		},
	}
}

// execAction runs a and reports its outcomes. Per-file failures become
// warnings; only a listing or save failure is returned as an error.
func execAction(o *IO, e *env, a action) error {
	res, err := a.run(e.ws)

	reportOutcomes(o, res.Report, e.verbose)

	if err != nil {
		return err
	}

	o.Println(a.success)

	return nil
}

func reportOutcomes(o *IO, r rename.Report, verbose bool) {
	for _, out := range r.Outcomes {
		if verbose {
			o.Println(out.String())
		}

		if out.Status == rename.StatusFailed {
			o.Warn(out.String(), "the file keeps its current name")
		}
	}
}
