package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestChaos_ErrorInjectionDoesNotDeadlock(t *testing.T) {
	realFS := NewReal()
	chaosFS := NewChaos(realFS, 0, ChaosConfig{
		WriteFailRate:  1.0, // Always inject an error (exercise pickError/pickRandom).
		RenameFailRate: 1.0,
	})
	chaosFS.SetMode(ChaosModeInject)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	done := make(chan error, 2)

	go func() {
		done <- chaosFS.WriteFileAtomic(path, []byte("y"), 0o644)
		done <- chaosFS.RenameNoReplace(path, filepath.Join(dir, "moved.txt"))
	}()

	for range 2 {
		select {
		case err := <-done:
			if err == nil {
				t.Fatalf("injected operation unexpectedly succeeded")
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("operation hung (possible deadlock in chaos error injection)")
		}
	}
}

func TestInjectedErrors_PreserveOsErrorClassification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "path")

	cases := []struct {
		name  string
		errno syscall.Errno
	}{
		{name: "ENOENT", errno: syscall.ENOENT},
		{name: "EACCES", errno: syscall.EACCES},
		{name: "EPERM", errno: syscall.EPERM},
		{name: "EROFS", errno: syscall.EROFS},
		{name: "EIO", errno: syscall.EIO},
		{name: "ENOSPC", errno: syscall.ENOSPC},
	}

	classifiers := []struct {
		name string
		fn   func(error) bool
	}{
		{name: "os.IsNotExist", fn: os.IsNotExist},
		{name: "os.IsPermission", fn: os.IsPermission},
		{name: "os.IsExist", fn: os.IsExist},
		{name: "os.IsTimeout", fn: os.IsTimeout},
	}

	targets := []struct {
		name string
		err  error
	}{
		{name: "io/fs.ErrNotExist", err: iofs.ErrNotExist},
		{name: "io/fs.ErrPermission", err: iofs.ErrPermission},
		{name: "io/fs.ErrExist", err: iofs.ErrExist},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := &iofs.PathError{Op: "op", Path: path, Err: tc.errno}
			injected := pathError("op", path, tc.errno)

			if got, want := IsInjected(base), false; got != want {
				t.Fatalf("IsInjected(base)=%t, want %t", got, want)
			}

			if got, want := IsInjected(injected), true; got != want {
				t.Fatalf("IsInjected(injected)=%t, want %t", got, want)
			}

			var pathErr *os.PathError
			if got, want := errors.As(injected, &pathErr), true; got != want {
				t.Fatalf("errors.As(injected, *os.PathError)=%t, want %t (got %T)", got, want, injected)
			}

			if got, want := pathErr.Op, "op"; got != want {
				t.Fatalf("PathError.Op=%q, want %q", got, want)
			}

			if got, want := pathErr.Path, path; got != want {
				t.Fatalf("PathError.Path=%q, want %q", got, want)
			}

			// Our injection marker must not break stdlib error classification helpers.
			for _, c := range classifiers {
				if got, want := c.fn(injected), c.fn(base); got != want {
					t.Fatalf("%s(injected)=%t, want %t (base=%v injected=%v)", c.name, got, want, base, injected)
				}
			}

			// errors.Is should behave the same as a plain *fs.PathError with the errno.
			if got, want := errors.Is(injected, tc.errno), errors.Is(base, tc.errno); got != want {
				t.Fatalf("errors.Is(err, %s)=%t, want %t (base=%v injected=%v)", tc.name, got, want, base, injected)
			}

			for _, target := range targets {
				if got, want := errors.Is(injected, target.err), errors.Is(base, target.err); got != want {
					t.Fatalf("errors.Is(injected, %s)=%t, want %t (base=%v injected=%v)", target.name, got, want, base, injected)
				}
			}
		})
	}
}
