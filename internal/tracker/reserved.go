package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/calvinalkan/shuffle/internal/fs"
)

// Reserved is the set of file names that are never tracked or renamed: the
// tracker file itself, the running binary, config files and anything the
// user configured.
type Reserved map[string]struct{}

// NewReserved returns a set of the given names. Empty names are ignored.
func NewReserved(names ...string) Reserved {
	r := make(Reserved, len(names))
	r.Add(names...)

	return r
}

// Add inserts names into the set. Empty names are ignored.
func (r Reserved) Add(names ...string) {
	for _, name := range names {
		if name != "" {
			r[name] = struct{}{}
		}
	}
}

// Contains reports whether name is reserved. Safe on a nil set.
func (r Reserved) Contains(name string) bool {
	_, ok := r[name]
	return ok
}

// Names returns the reserved names sorted.
func (r Reserved) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Filter returns names without the reserved ones, preserving order.
func (r Reserved) Filter(names []string) []string {
	out := make([]string, 0, len(names))

	for _, name := range names {
		if !r.Contains(name) {
			out = append(out, name)
		}
	}

	return out
}

// ListFiles returns the names of the regular files directly inside dir,
// sorted, excluding reserved names. Symlinks count when they point at a
// regular file. Subdirectories are never listed.
func ListFiles(fsys fs.FS, dir string, reserved Reserved) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if reserved.Contains(name) {
			continue
		}

		switch typ := entry.Type(); {
		case typ.IsRegular():
			names = append(names, name)
		case typ&os.ModeSymlink != 0:
			info, statErr := fsys.Stat(filepath.Join(dir, name))
			if statErr == nil && info.Mode().IsRegular() {
				names = append(names, name)
			}
		}
	}

	return names, nil
}
