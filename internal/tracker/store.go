package tracker

import (
	"errors"
	"fmt"
	"os"

	"github.com/calvinalkan/shuffle/internal/fs"
)

// DefaultFileName is the tracker file name used when none is configured.
const DefaultFileName = "DO_NOT_DELETE_all_file_names.csv"

const filePerms = 0o644

// Source says where [Store.LoadOrInitialize] got its table from.
type Source uint8

const (
	// SourceTracker means the persisted tracker was read.
	SourceTracker Source = iota
	// SourceTemplate means the tracker was unusable and the template was read.
	SourceTemplate
	// SourceSynthesized means a fresh table was built from the listing.
	SourceSynthesized
)

func (s Source) String() string {
	switch s {
	case SourceTracker:
		return "tracker"
	case SourceTemplate:
		return "template"
	case SourceSynthesized:
		return "synthesized"
	default:
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
}

// Loaded is the result of [Store.LoadOrInitialize].
type Loaded struct {
	Table  Table
	Source Source
	// Cause explains why the tracker (and template) were not used.
	// Nil when Source is SourceTracker.
	Cause error
}

// Store reads and writes one directory's tracker file.
//
// There is no locking: two processes working on the same directory can
// interleave their read-modify-write cycles.
type Store struct {
	fs       fs.FS
	path     string
	template string
}

// NewStore returns a store for the tracker at path. template is an optional
// tracker file used to seed a directory that has no usable tracker.
func NewStore(fsys fs.FS, path, template string) *Store {
	return &Store{fs: fsys, path: path, template: template}
}

// Path returns the tracker file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the tracker file.
// Errors match [ErrTrackerMissing] or [ErrTrackerCorrupt].
func (s *Store) Load() (Table, error) {
	return loadFile(s.fs, s.path)
}

// LoadOrInitialize never fails. It returns the persisted table if readable,
// else the template if configured and readable, else a table synthesized from
// live with every name tracking itself.
func (s *Store) LoadOrInitialize(live []string) Loaded {
	t, err := s.Load()
	if err == nil {
		return Loaded{Table: t, Source: SourceTracker}
	}

	cause := err

	if s.template != "" {
		t, tmplErr := loadFile(s.fs, s.template)
		if tmplErr == nil {
			return Loaded{Table: t, Source: SourceTemplate, Cause: cause}
		}

		cause = errors.Join(cause, fmt.Errorf("%w: %w", ErrTemplateUnusable, tmplErr))
	}

	return Loaded{Table: Synthesize(live), Source: SourceSynthesized, Cause: cause}
}

// Save rewrites the tracker file in full. Readers see either the previous or
// the new table.
func (s *Store) Save(t Table) error {
	data, err := Encode(t)
	if err != nil {
		return fmt.Errorf("encode tracker: %w", err)
	}

	err = s.fs.WriteFileAtomic(s.path, data, filePerms)
	if err != nil {
		return fmt.Errorf("save tracker: %w", err)
	}

	return nil
}

func loadFile(fsys fs.FS, path string) (Table, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, fmt.Errorf("%w: %s", ErrTrackerMissing, path)
		}

		return Table{}, fmt.Errorf("%w: %s: %w", ErrTrackerCorrupt, path, err)
	}

	t, err := Decode(data)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %w", ErrTrackerCorrupt, path, err)
	}

	return t, nil
}
