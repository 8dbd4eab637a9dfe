// Package tracker holds the durable record that makes shuffling reversible:
// an ordered table of original name to current name pairs plus the mode of
// the whole table.
//
// The table is reconciled against the live directory on every run (new files
// are appended, vanished files dropped) and persisted as a single CSV file in
// the shuffled directory. See [Reconcile] and [Store].
package tracker

import (
	"fmt"
	"slices"
	"strings"
)

// Mode says whether the Current column is expected to hold prefixed names.
type Mode uint8

const (
	// ModeUnchanged means files carry their original names.
	ModeUnchanged Mode = iota
	// ModePrefixed means files carry "_<N>" prefixed names.
	ModePrefixed
)

func (m Mode) String() string {
	switch m {
	case ModeUnchanged:
		return "unchanged"
	case ModePrefixed:
		return "prefixed"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses "unchanged" or "prefixed" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unchanged":
		return ModeUnchanged, nil
	case "prefixed":
		return ModePrefixed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadMode, s)
	}
}

// Record is one tracked file.
type Record struct {
	// Original is the name before any prefixing. Unique within a table.
	Original string
	// Current is the name the file had on disk at the last operation.
	// Empty when unknown (rows from old trackers).
	Current string
}

// Table is the ordered set of tracked files. Order is insertion order.
type Table struct {
	Mode    Mode
	Records []Record
}

// Synthesize builds a fresh unchanged table where every name tracks itself.
func Synthesize(names []string) Table {
	t := Table{Mode: ModeUnchanged, Records: make([]Record, 0, len(names))}
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}

		seen[name] = true
		t.Records = append(t.Records, Record{Original: name, Current: name})
	}

	return t
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	return Table{Mode: t.Mode, Records: slices.Clone(t.Records)}
}

// Len returns the number of records.
func (t Table) Len() int {
	return len(t.Records)
}

// Index returns the position of the record with the given original name, or -1.
func (t Table) Index(original string) int {
	return slices.IndexFunc(t.Records, func(r Record) bool { return r.Original == original })
}

// SetMode relabels the table. Record names are left alone.
func (t *Table) SetMode(m Mode) {
	t.Mode = m
}
