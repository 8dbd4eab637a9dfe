// Package fs provides the filesystem abstraction used by the tracker and the
// rename engine, so both can run against the real disk or a fault injector.
//
// The main types are:
//   - [FS]: interface for the filesystem operations shuffle needs
//   - [Real]: production implementation using [os] and atomic writes
//   - [Chaos]: testing implementation that injects failures
//
// Example usage:
//
//	fsys := fs.NewReal()
//	entries, err := fsys.ReadDir(dir)
//	if err != nil {
//	    return err
//	}
package fs

import (
	"os"
)

// FS defines filesystem operations for listing a directory, renaming files in
// it and persisting the tracker file.
//
// Two implementations are provided:
//   - [Real]: production use, wraps [os] package
//   - [Chaos]: testing use, injects failures
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// --- Convenience Methods ---

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so a reader sees either the old or the new
	// contents, never a mix.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// --- Directory Operations ---

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	// Entries are sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// --- Metadata ---

	// Stat returns file info, following symlinks. See [os.Stat].
	// Returns [os.ErrNotExist] if file doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// --- Mutations ---

	// RenameNoReplace renames oldpath to newpath but fails with an error
	// matching [os.ErrExist] if newpath already exists.
	//
	// On Linux the check and the rename are a single renameat2 call. Elsewhere
	// the check happens immediately before the rename.
	RenameNoReplace(oldpath, newpath string) error
}
