// Package rename applies and reverts prefixes on disk, one file at a time,
// using a [tracker.Table] as the source of truth.
//
// Every operation is best effort: a file that cannot be renamed is reported
// in the returned [Report] and processing continues with the next one.
// Renames never overwrite an existing file.
package rename

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/calvinalkan/shuffle/internal/fs"
	"github.com/calvinalkan/shuffle/internal/prefix"
	"github.com/calvinalkan/shuffle/internal/tracker"
)

// Engine renames files inside a single directory.
type Engine struct {
	fs  fs.FS
	dir string
}

// New returns an engine working in dir.
func New(fsys fs.FS, dir string) *Engine {
	return &Engine{fs: fsys, dir: dir}
}

// Apply assigns labels to records in table order and renames each file from
// its original name to "_" + label + original.
//
// The returned table holds the intended prefixed names even where the rename
// was skipped, and is in [tracker.ModePrefixed]. Records beyond the last label
// keep their original name. t is not modified.
func (e *Engine) Apply(t tracker.Table, labels []string) (tracker.Table, Report) {
	out := t.Clone()

	var report Report

	for i, rec := range out.Records {
		if i >= len(labels) {
			out.Records[i].Current = rec.Original
			report.add(Outcome{From: rec.Original, To: rec.Original, Status: StatusSkipped, Err: ErrNoLabel})

			continue
		}

		candidate := prefix.Apply(labels[i], rec.Original)
		out.Records[i].Current = candidate

		report.add(e.move(rec.Original, candidate))
	}

	out.SetMode(tracker.ModePrefixed)

	return out, report
}

// Revert renames every record's current file back to its original name.
// The table is left untouched: current names still show the last prefixed
// names afterwards.
func (e *Engine) Revert(t tracker.Table) Report {
	var report Report

	for _, rec := range t.Records {
		if rec.Current == "" {
			report.add(Outcome{From: rec.Current, To: rec.Original, Status: StatusSkipped, Err: ErrNoCurrentName})
			continue
		}

		report.add(e.move(rec.Current, rec.Original))
	}

	return report
}

// Restore reverts t and returns the table that describes the directory
// afterwards. When no file is left stuck at its prefixed name the table is t
// in [tracker.ModeUnchanged]. Otherwise it stays in [tracker.ModePrefixed]:
// reverted records take their original as current name and stuck ones keep
// the prefixed name, so a later restore can pick them up again.
func (e *Engine) Restore(t tracker.Table) (tracker.Table, Report) {
	report := e.Revert(t)
	out := t.Clone()

	if !slices.ContainsFunc(report.Outcomes, stuck) {
		out.SetMode(tracker.ModeUnchanged)
		return out, report
	}

	for i, o := range report.Outcomes {
		if !stuck(o) {
			out.Records[i].Current = out.Records[i].Original
		}
	}

	out.SetMode(tracker.ModePrefixed)

	return out, report
}

// stuck reports whether o left an existing file at its prefixed name.
func stuck(o Outcome) bool {
	return o.Status == StatusFailed || errors.Is(o.Err, ErrDestinationExists)
}

// Rerandomize reverts t and then applies labels to it, so files end up with
// fresh prefixes whatever state they were in.
func (e *Engine) Rerandomize(t tracker.Table, labels []string) (tracker.Table, Report) {
	reverted := e.Revert(t)
	out, applied := e.Apply(t, labels)

	return out, reverted.Merge(applied)
}

// Strip removes recognized prefixes from names and rebuilds the table from
// what it finds, without consulting any previous tracker.
//
// Every name becomes one record: a prefixed name yields
// (original=stripped, current=name), anything else tracks itself. A stripped
// name already claimed by another file is left prefixed and tracks itself, so
// originals stay unique. The table is in [tracker.ModeUnchanged].
func (e *Engine) Strip(names []string) (tracker.Table, Report) {
	claimed := make(map[string]bool, len(names))

	for _, name := range names {
		if !prefix.Has(name) {
			claimed[name] = true
		}
	}

	t := tracker.Table{Mode: tracker.ModeUnchanged, Records: make([]tracker.Record, 0, len(names))}

	var report Report

	for _, name := range names {
		stripped, ok := prefix.Strip(name)

		switch {
		case !ok:
			t.Records = append(t.Records, tracker.Record{Original: name, Current: name})

		case stripped == "":
			t.Records = append(t.Records, tracker.Record{Original: name, Current: name})
			report.add(Outcome{From: name, To: stripped, Status: StatusSkipped, Err: ErrEmptyStrippedName})

		case claimed[stripped]:
			t.Records = append(t.Records, tracker.Record{Original: name, Current: name})
			report.add(Outcome{From: name, To: stripped, Status: StatusSkipped, Err: ErrDestinationExists})

		default:
			claimed[stripped] = true
			t.Records = append(t.Records, tracker.Record{Original: stripped, Current: name})
			report.add(e.move(name, stripped))
		}
	}

	return t, report
}

// move renames from to to inside the engine directory if from exists and to
// does not.
func (e *Engine) move(from, to string) Outcome {
	o := Outcome{From: from, To: to}

	if from == to {
		o.Status, o.Err = StatusSkipped, ErrSameName
		return o
	}

	src := filepath.Join(e.dir, from)
	dst := filepath.Join(e.dir, to)

	srcExists, err := e.fs.Exists(src)
	if err != nil {
		o.Status, o.Err = StatusFailed, err
		return o
	}

	if !srcExists {
		o.Status, o.Err = StatusSkipped, ErrSourceMissing
		return o
	}

	dstExists, err := e.fs.Exists(dst)
	if err != nil {
		o.Status, o.Err = StatusFailed, err
		return o
	}

	if dstExists {
		o.Status, o.Err = StatusSkipped, ErrDestinationExists
		return o
	}

	err = e.fs.RenameNoReplace(src, dst)

	switch {
	case err == nil:
		o.Status = StatusRenamed
	case errors.Is(err, os.ErrExist):
		o.Status, o.Err = StatusSkipped, ErrDestinationExists
	default:
		o.Status, o.Err = StatusFailed, err
	}

	return o
}
