// Package debuglog provides an optional append-only debug log file.
//
// A Logger with no file discards everything, so callers can log
// unconditionally.
package debuglog

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger writes timestamped debug lines to a file, or nowhere.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	std  *log.Logger
}

// Discard returns a Logger that drops all output.
func Discard() *Logger {
	return &Logger{}
}

// Open opens (or creates) path for appending. An empty path returns a
// discarding Logger.
func Open(path string) (*Logger, error) {
	if path == "" {
		return Discard(), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}

	l := &Logger{file: f}
	l.std = log.New(l, "", log.LstdFlags|log.Lmicroseconds)

	return l, nil
}

// Write implements io.Writer.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return len(p), nil
	}

	n, err := l.file.Write(p)
	// Sync so lines survive a crash mid-rename.
	_ = l.file.Sync()

	return n, err
}

// Printf logs a formatted line. Safe on a nil or discarding Logger.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.std == nil {
		return
	}

	l.std.Printf(format, args...)
}

// Enabled reports whether output goes anywhere.
func (l *Logger) Enabled() bool {
	return l != nil && l.std != nil
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil

	return err
}
