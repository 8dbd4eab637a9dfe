// Package workspace binds one directory to its tracker and rename engine and
// exposes the user-level actions: open, randomize, restore, strip and status.
//
// Every action re-reads the directory and the tracker from disk, so edits made
// between actions (files added, tracker deleted) are picked up.
package workspace

import (
	"fmt"

	"github.com/calvinalkan/shuffle/internal/debuglog"
	"github.com/calvinalkan/shuffle/internal/fs"
	"github.com/calvinalkan/shuffle/internal/prefix"
	"github.com/calvinalkan/shuffle/internal/rename"
	"github.com/calvinalkan/shuffle/internal/tracker"
)

// Options configures a [Workspace].
type Options struct {
	// Dir is the directory whose files are shuffled.
	Dir string
	// TrackerPath is the tracker file. It must live in Dir.
	TrackerPath string
	// Template seeds a directory without a usable tracker. Optional.
	Template string
	// Reserved names are never listed, tracked or renamed.
	Reserved tracker.Reserved
	// Labels returns count distinct labels. Defaults to [prefix.Generate].
	Labels func(count int) []string
	// Log receives diagnostics. Defaults to discarding.
	Log *debuglog.Logger
}

// Workspace runs actions against one directory.
type Workspace struct {
	fs       fs.FS
	dir      string
	store    *tracker.Store
	engine   *rename.Engine
	reserved tracker.Reserved
	labels   func(count int) []string
	log      *debuglog.Logger
}

// Result describes what an action did.
type Result struct {
	// Table is the tracker table after the action.
	Table tracker.Table
	// Report holds one outcome per attempted rename.
	Report rename.Report
	// Source is where the table was loaded from before the action.
	Source tracker.Source
	// Delta is what reconciliation changed.
	Delta tracker.Delta
}

// New returns a workspace for opts.Dir.
func New(fsys fs.FS, opts Options) *Workspace {
	labels := opts.Labels
	if labels == nil {
		labels = prefix.Generate
	}

	logger := opts.Log
	if logger == nil {
		logger = debuglog.Discard()
	}

	reserved := opts.Reserved
	if reserved == nil {
		reserved = tracker.NewReserved()
	}

	return &Workspace{
		fs:       fsys,
		dir:      opts.Dir,
		store:    tracker.NewStore(fsys, opts.TrackerPath, opts.Template),
		engine:   rename.New(fsys, opts.Dir),
		reserved: reserved,
		labels:   labels,
		log:      logger,
	}
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// TrackerPath returns the tracker file path.
func (w *Workspace) TrackerPath() string {
	return w.store.Path()
}

// TrackerExists reports whether a tracker file is present, usable or not.
func (w *Workspace) TrackerExists() (bool, error) {
	exists, err := w.fs.Exists(w.store.Path())
	if err != nil {
		return false, fmt.Errorf("check tracker: %w", err)
	}

	return exists, nil
}

// Open loads (or initializes) the tracker, reconciles it with the directory
// and saves it. No file is renamed.
func (w *Workspace) Open() (Result, error) {
	res, _, err := w.load()
	if err != nil {
		return res, err
	}

	return res, w.save(res.Table)
}

// Randomize reverts any previous prefixes and applies fresh ones, one label
// per file currently in the directory. The tracker ends in prefixed mode.
func (w *Workspace) Randomize() (Result, error) {
	res, live, err := w.load()
	if err != nil {
		return res, err
	}

	labels := w.labels(len(live))
	w.log.Printf("randomize: %d records, %d labels", res.Table.Len(), len(labels))

	res.Table, res.Report = w.engine.Rerandomize(res.Table, labels)
	res.Table.SetMode(tracker.ModePrefixed)
	w.logReport("randomize", res.Report)

	return res, w.save(res.Table)
}

// Restore renames every tracked file back to its original name. The tracker
// ends in unchanged mode unless some file could not be moved back, in which
// case it stays prefixed so the next restore retries that file.
func (w *Workspace) Restore() (Result, error) {
	res, _, err := w.load()
	if err != nil {
		return res, err
	}

	res.Table, res.Report = w.engine.Restore(res.Table)
	w.logReport("restore", res.Report)

	return res, w.save(res.Table)
}

// Strip removes recognized prefixes from every file name and replaces the
// tracker with a table rebuilt from the result. Any previous tracker is
// ignored.
func (w *Workspace) Strip() (Result, error) {
	live, err := tracker.ListFiles(w.fs, w.dir, w.reserved)
	if err != nil {
		return Result{}, err
	}

	var res Result

	res.Source = tracker.SourceSynthesized
	res.Table, res.Report = w.engine.Strip(live)
	w.logReport("strip", res.Report)

	return res, w.save(res.Table)
}

// Status returns the reconciled tracker table without saving it or renaming
// anything.
func (w *Workspace) Status() (Result, error) {
	res, _, err := w.load()

	return res, err
}

// load lists the directory, loads the tracker and reconciles the two.
// It returns the listing too, since randomize sizes its labels by it.
func (w *Workspace) load() (Result, []string, error) {
	live, err := tracker.ListFiles(w.fs, w.dir, w.reserved)
	if err != nil {
		return Result{}, nil, err
	}

	loaded := w.store.LoadOrInitialize(live)
	if loaded.Cause != nil {
		w.log.Printf("tracker: using %s: %v", loaded.Source, loaded.Cause)
	} else {
		w.log.Printf("tracker: using %s", loaded.Source)
	}

	table, delta := tracker.Reconcile(loaded.Table, live, w.reserved)

	for _, name := range delta.Added {
		w.log.Printf("reconcile: added %q", name)
	}

	for _, rec := range delta.Removed {
		w.log.Printf("reconcile: removed %q (current %q)", rec.Original, rec.Current)
	}

	return Result{Table: table, Source: loaded.Source, Delta: delta}, live, nil
}

func (w *Workspace) save(t tracker.Table) error {
	if err := w.store.Save(t); err != nil {
		w.log.Printf("save: %v", err)
		return err
	}

	w.log.Printf("save: %d records, mode %s", t.Len(), t.Mode)

	return nil
}

func (w *Workspace) logReport(action string, r rename.Report) {
	if !w.log.Enabled() {
		return
	}

	for _, o := range r.Outcomes {
		w.log.Printf("%s: %s", action, o)
	}

	w.log.Printf("%s: renamed=%d skipped=%d failed=%d", action,
		r.Count(rename.StatusRenamed), r.Count(rename.StatusSkipped), r.Count(rename.StatusFailed))
}
