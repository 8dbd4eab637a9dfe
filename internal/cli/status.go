package cli

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/shuffle/internal/tracker"
)

// StatusCmd returns the status command.
func StatusCmd(e *env) *Command {
	flags := flag.NewFlagSet("status", flag.ContinueOnError)
	flags.Bool("plain", false, "Print tab separated rows without a table")

	return &Command{
		Flags:   flags,
		Usage:   "status [--plain]",
		Aliases: []string{"ls"},
		Short:   "Show the tracker table",
		Long: `Show the tracker's mode and every tracked file, reconciled with the
current directory listing. Nothing is renamed or saved.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			plain, _ := flags.GetBool("plain")

			return execStatus(o, e, plain)
		},
	}
}

func execStatus(o *IO, e *env, plain bool) error {
	res, err := e.ws.Status()
	if err != nil {
		return err
	}

	if plain {
		o.Printf("mode\t%s\n", res.Table.Mode)

		for _, rec := range res.Table.Records {
			o.Printf("%s\t%s\n", rec.Original, rec.Current)
		}

		return nil
	}

	o.Println("mode:", res.Table.Mode)
	if res.Source == tracker.SourceTracker {
		o.Println("tracker:", e.ws.TrackerPath())
	} else {
		o.Printf("tracker: %s (missing or unreadable, showing %s table)\n", e.ws.TrackerPath(), res.Source)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Original", "Current"})

	for i, rec := range res.Table.Records {
		t.AppendRow(table.Row{i + 1, rec.Original, rec.Current})
	}

	t.AppendFooter(table.Row{"", "files", res.Table.Len()})

	o.Println(t.Render())

	return nil
}
