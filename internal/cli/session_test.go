package cli_test

import (
	"bytes"
	"io"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/calvinalkan/shuffle/internal/cli"
)

func Test_Session_Randomize_Then_Restore_When_Commands_Entered(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFiles("a.txt", "b.txt")

	stdout, stderr, code := c.RunWithInput("rs\n")

	if got, want := code, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d\nstderr: %s", got, want, stderr)
	}

	cli.AssertContains(t, stdout, "Choose an action:")
	cli.AssertContains(t, stdout, "Your choice: ")
	cli.AssertContains(t, stdout, "Files randomized successfully!")
	cli.AssertContains(t, stdout, "Exiting program. Goodbye!")
	cli.AssertNotContains(t, stdout, "Welcome back!")

	got := c.Files()
	if !slices.Equal(got, []string{"_1a.txt", "_2b.txt"}) && !slices.Equal(got, []string{"_1b.txt", "_2a.txt"}) {
		t.Fatalf("unexpected files after rs: %v", got)
	}

	stdout, _, _ = c.RunWithInput("CB\nex\n")

	cli.AssertContains(t, stdout, "Welcome back!")
	cli.AssertContains(t, stdout, "Files returned to normal!")

	if got := c.Files(); !slices.Equal(got, []string{"a.txt", "b.txt"}) {
		t.Fatalf("files = %v, want [a.txt b.txt]", got)
	}
}

func Test_Session_Creates_Tracker_On_Start(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFiles("b.txt", "a.txt")

	c.RunWithInput("ex\n")

	if got, want := c.ReadTracker(), "original,new,mode\na.txt,a.txt,unchanged\nb.txt,b.txt,unchanged\n"; got != want {
		t.Fatalf("tracker=%q, want=%q", got, want)
	}
}

func Test_Session_Reports_Invalid_Input_And_Continues(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFiles("_7a.txt")

	stdout, _, code := c.RunWithInput("nope\n\n  rp  \nex\n")

	if got, want := code, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d", got, want)
	}

	if got, want := strings.Count(stdout, "Invalid input. Please try 'rs', 'cb', 'rp', or 'ex'."), 2; got != want {
		t.Errorf("invalid input messages=%d, want=%d\nstdout:\n%s", got, want, stdout)
	}

	cli.AssertContains(t, stdout, "Prefixes removed and CSV recreated!")

	if got := c.Files(); !slices.Equal(got, []string{"a.txt"}) {
		t.Fatalf("files = %v, want [a.txt]", got)
	}
}

func Test_Session_Picks_Up_Files_Added_Between_Commands(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFiles("a.txt")

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	done := make(chan string, 1)

	go func() {
		stdout, _, _ := c.RunWithInput(pr)
		done <- stdout
	}()

	write := func(s string) {
		if _, err := pw.Write([]byte(s)); err != nil {
			t.Errorf("write input: %v", err)
		}
	}

	write("rs\n")
	// The next Prompt only reads once rs has finished, so the file lands
	// between the two commands.
	write("")
	c.WriteFiles("b.txt")
	write("cb\n")
	write("ex\n")

	stdout := <-done

	cli.AssertContains(t, stdout, "Files returned to normal!")

	if got := c.Files(); !slices.Equal(got, []string{"a.txt", "b.txt"}) {
		t.Fatalf("files = %v, want [a.txt b.txt]", got)
	}

	cli.AssertContains(t, c.ReadTracker(), "b.txt,b.txt,unchanged\n")
}

func Test_Session_Ends_When_Input_Closes(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, _, code := c.RunWithInput("")

	if got, want := code, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stdout, "Exiting program. Goodbye!")
}

func Test_Session_Ends_When_Signal_Received(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	var stdout, stderr bytes.Buffer

	code := cli.Run(pr, &stdout, &stderr, []string{"shuffle", "--cwd", dir}, map[string]string{}, sigCh)

	if got, want := code, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stdout.String(), "Exiting program. Goodbye!")
}
