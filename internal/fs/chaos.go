package fs

import (
	"io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	// Read faults
	ReadFailRate    float64 // Fail ReadFile entirely
	PartialReadRate float64 // Return truncated data from ReadFile

	// Write faults
	WriteFailRate float64 // Fail WriteFileAtomic (old contents stay in place)

	// Other faults
	RenameFailRate     float64 // Fail Rename/RenameNoReplace
	StatFailRate       float64 // Fail Stat/Exists
	ReadDirFailRate    float64 // Fail ReadDir entirely
	ReadDirPartialRate float64 // Return partial directory listing
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		ReadFailRate:       0.02,
		PartialReadRate:    0.02,
		WriteFailRate:      0.02,
		RenameFailRate:     0.05,
		StatFailRate:       0.01,
		ReadDirFailRate:    0.02,
		ReadDirPartialRate: 0.02,
	}
}

// PathState tracks the fault state of a path for consistent error injection.
type PathState int

const (
	// PathNormal means no persistent fault - errors are transient.
	// This is the zero value, so untracked paths are normal.
	PathNormal PathState = iota
	// PathIOError is sticky - the path has a "bad sector" and always returns EIO.
	PathIOError
	// PathReadOnly is sticky for writes - filesystem is read-only, returns EROFS.
	PathReadOnly
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS.
	// It ignores fault rates and also ignores any sticky path state.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// Chaos wraps an [FS] and injects failures for testing.
//
// Errors are state-aware: once a path gets EIO (bad sector), it stays broken.
// Errors are also reality-aware: ENOENT is only returned if the file really
// doesn't exist on the underlying filesystem.
//
// All injected errors are real OS errors (syscall.Errno wrapped in
// os.PathError) so code using errors.Is() behaves as it would on disk.
//
// Use [Chaos.SetMode] to control behavior, [Chaos.SetPathState] to break a
// specific path, and [Chaos.Stats] to inspect how many faults were injected.
type Chaos struct {
	fs     FS
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.RWMutex
	pathStates map[string]PathState

	readFails       atomic.Int64
	partialReads    atomic.Int64
	writeFails      atomic.Int64
	readDirFails    atomic.Int64
	partialReadDirs atomic.Int64
	renameFails     atomic.Int64
	statFails       atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:         fs,
		rng:        rand.New(rand.NewSource(seed)),
		config:     config,
		pathStates: make(map[string]PathState),
	}
}

// SetMode updates Chaos behavior. Switching modes never clears sticky path
// state. The default for a new [Chaos] is [ChaosModePassthrough].
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails       int64
	PartialReads    int64
	WriteFails      int64
	ReadDirFails    int64
	PartialReadDirs int64
	RenameFails     int64
	StatFails       int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:       c.readFails.Load(),
		PartialReads:    c.partialReads.Load(),
		WriteFails:      c.writeFails.Load(),
		ReadDirFails:    c.readDirFails.Load(),
		PartialReadDirs: c.partialReadDirs.Load(),
		RenameFails:     c.renameFails.Load(),
		StatFails:       c.statFails.Load(),
	}
}

// TotalFaults returns the total number of injected faults.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.ReadFails + s.PartialReads + s.WriteFails + s.ReadDirFails +
		s.PartialReadDirs + s.RenameFails + s.StatFails
}

// PathState returns the current fault state for a path.
func (c *Chaos) PathState(path string) PathState {
	return c.getState(path)
}

// SetPathState marks path with a sticky fault state (for testing).
// Passing [PathNormal] clears it.
func (c *Chaos) SetPathState(path string, state PathState) {
	c.setState(path, state)
}

// ResetAllPathStates clears all fault states (for testing).
func (c *Chaos) ResetAllPathStates() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pathStates = make(map[string]PathState)
}

// should returns true with the given probability when chaos is injecting.
func (c *Chaos) should(mode ChaosMode, rate float64) bool {
	if mode != ChaosModeInject {
		return false
	}

	return c.randFloat() < rate
}

// randFloat returns a random float64 in [0.0, 1.0) (thread-safe).
func (c *Chaos) randFloat() float64 {
	c.mu.Lock()
	result := c.rng.Float64()
	c.mu.Unlock()

	return result
}

// randIntn returns a random int in [0, n) (thread-safe).
func (c *Chaos) randIntn(n int) int {
	c.mu.Lock()
	result := c.rng.Intn(n)
	c.mu.Unlock()

	return result
}

func (c *Chaos) getState(path string) PathState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.pathStates[path]
}

func (c *Chaos) setState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == PathNormal {
		delete(c.pathStates, path)
	} else {
		c.pathStates[path] = state
	}
}

// errToState converts an error to a path state for tracking.
func errToState(err syscall.Errno) PathState {
	switch err {
	case syscall.EIO:
		return PathIOError
	case syscall.EROFS:
		return PathReadOnly
	default:
		return PathNormal
	}
}

// pathError creates an *os.PathError with the given operation, path, and errno.
// This matches what the real OS returns, so errors.Is() works correctly.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &fs.PathError{Op: op, Path: path, Err: errno}
	markInjectedPathError(pe)

	return pe
}

func (c *Chaos) pickRandom(errs []syscall.Errno) syscall.Errno {
	return errs[c.randIntn(len(errs))]
}

// pickError selects an error consistent with the operation and with whether
// the path really exists.
func (c *Chaos) pickError(op string, path string) (syscall.Errno, error) {
	var realExists bool

	switch op {
	case "rename", "stat", "read":
		exists, err := c.fs.Exists(path)
		if err != nil {
			return 0, err
		}

		realExists = exists
	}

	var valid []syscall.Errno

	switch op {
	case "read":
		if realExists {
			valid = []syscall.Errno{syscall.EACCES, syscall.EIO, syscall.EINTR}
		} else {
			valid = []syscall.Errno{syscall.ENOENT, syscall.EACCES, syscall.EIO}
		}

	case "write":
		valid = []syscall.Errno{syscall.EACCES, syscall.EIO, syscall.ENOSPC, syscall.EDQUOT, syscall.EROFS}

	case "rename":
		if realExists {
			valid = []syscall.Errno{syscall.EACCES, syscall.EIO, syscall.ENOSPC, syscall.EXDEV, syscall.EROFS}
		} else {
			valid = []syscall.Errno{syscall.ENOENT, syscall.EIO}
		}

	case "stat":
		if realExists {
			valid = []syscall.Errno{syscall.EACCES, syscall.EIO}
		} else {
			valid = []syscall.Errno{syscall.ENOENT, syscall.EACCES, syscall.EIO}
		}

	default:
		valid = []syscall.Errno{syscall.EIO}
	}

	err := c.pickRandom(valid)
	c.setState(path, errToState(err))

	return err, nil
}

// --- Convenience Methods ---

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.ReadFile(path)
	}

	if c.getState(path) == PathIOError {
		c.readFails.Add(1)

		return nil, pathError("read", path, syscall.EIO)
	}

	if c.should(mode, c.config.ReadFailRate) {
		errno, err := c.pickError("read", path)
		if err != nil {
			return nil, err
		}

		c.readFails.Add(1)

		return nil, pathError("read", path, errno)
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if c.should(mode, c.config.PartialReadRate) && len(data) > 1 {
		c.partialReads.Add(1)
		cutoff := c.randIntn(len(data)-1) + 1

		return data[:cutoff], nil
	}

	return data, nil
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.WriteFileAtomic(path, data, perm)
	}

	switch c.getState(path) {
	case PathIOError:
		c.writeFails.Add(1)

		return pathError("write", path, syscall.EIO)
	case PathReadOnly:
		c.writeFails.Add(1)

		return pathError("write", path, syscall.EROFS)
	}

	if c.should(mode, c.config.WriteFailRate) {
		errno, err := c.pickError("write", path)
		if err != nil {
			return err
		}

		c.writeFails.Add(1)

		return pathError("write", path, errno)
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

// --- Directory Operations ---

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.ReadDir(path)
	}

	if c.getState(path) == PathIOError {
		c.readDirFails.Add(1)

		return nil, pathError("readdir", path, syscall.EIO)
	}

	if c.should(mode, c.config.ReadDirFailRate) {
		errno, err := c.pickError("stat", path)
		if err != nil {
			return nil, err
		}

		c.readDirFails.Add(1)

		return nil, pathError("readdir", path, errno)
	}

	entries, err := c.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}

	if c.should(mode, c.config.ReadDirPartialRate) && len(entries) > 1 {
		c.partialReadDirs.Add(1)
		cutoff := c.randIntn(len(entries)-1) + 1

		return entries[:cutoff], nil
	}

	return entries, nil
}

// --- Metadata ---

func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.Stat(path)
	}

	if c.getState(path) == PathIOError {
		c.statFails.Add(1)

		return nil, pathError("stat", path, syscall.EIO)
	}

	if c.should(mode, c.config.StatFailRate) {
		errno, err := c.pickError("stat", path)
		if err != nil {
			return nil, err
		}

		c.statFails.Add(1)

		return nil, pathError("stat", path, errno)
	}

	return c.fs.Stat(path)
}

func (c *Chaos) Exists(path string) (bool, error) {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return c.fs.Exists(path)
	}

	if c.getState(path) == PathIOError {
		c.statFails.Add(1)

		return false, pathError("stat", path, syscall.EIO)
	}

	if c.should(mode, c.config.StatFailRate) {
		errno, err := c.pickError("stat", path)
		if err != nil {
			return false, err
		}

		// ENOENT is a valid answer for Exists, not an error.
		if errno == syscall.ENOENT {
			return false, nil
		}

		c.statFails.Add(1)

		return false, pathError("stat", path, errno)
	}

	return c.fs.Exists(path)
}

// --- Mutations ---

func (c *Chaos) RenameNoReplace(oldpath, newpath string) error {
	err := c.renameFault(oldpath, newpath)
	if err != nil {
		return err
	}

	return c.fs.RenameNoReplace(oldpath, newpath)
}

// renameFault returns the injected error for a rename, or nil to let the
// rename through to the wrapped FS.
func (c *Chaos) renameFault(oldpath, newpath string) error {
	mode := ChaosMode(c.mode.Load())
	if mode == ChaosModePassthrough {
		return nil
	}

	oldState := c.getState(oldpath)
	newState := c.getState(newpath)

	if oldState == PathIOError || newState == PathIOError {
		c.renameFails.Add(1)

		return pathError("rename", oldpath, syscall.EIO)
	}

	if oldState == PathReadOnly || newState == PathReadOnly {
		c.renameFails.Add(1)

		return pathError("rename", oldpath, syscall.EROFS)
	}

	if c.should(mode, c.config.RenameFailRate) {
		errno, err := c.pickError("rename", oldpath)
		if err != nil {
			return err
		}

		c.renameFails.Add(1)

		return pathError("rename", oldpath, errno)
	}

	return nil
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
