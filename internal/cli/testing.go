package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/calvinalkan/shuffle/internal/tracker"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "shuffle" or "--cwd" - those are added automatically.
// Stdin is empty, so running without a command ends the session at once.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader
	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"shuffle", "--cwd", r.Dir}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// WriteFiles creates files in the test directory. Each file's content is its name.
func (r *CLI) WriteFiles(names ...string) {
	r.t.Helper()

	for _, name := range names {
		err := os.WriteFile(filepath.Join(r.Dir, name), []byte(name), 0o600)
		if err != nil {
			r.t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// Files returns the sorted file names in the test directory, without the
// default tracker file.
func (r *CLI) Files() []string {
	r.t.Helper()

	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		r.t.Fatalf("failed to read dir: %v", err)
	}

	var names []string

	for _, e := range entries {
		if e.Name() != tracker.DefaultFileName {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	return names
}

// TrackerPath returns the path to the default tracker file.
func (r *CLI) TrackerPath() string {
	return filepath.Join(r.Dir, tracker.DefaultFileName)
}

// ReadTracker reads and returns the content of the default tracker file.
func (r *CLI) ReadTracker() string {
	r.t.Helper()

	content, err := os.ReadFile(r.TrackerPath())
	if err != nil {
		r.t.Fatalf("failed to read tracker: %v", err)
	}

	return string(content)
}

// WriteTracker writes content to the default tracker file.
func (r *CLI) WriteTracker(content string) {
	r.t.Helper()

	err := os.WriteFile(r.TrackerPath(), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write tracker: %v", err)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
