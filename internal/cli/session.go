package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

const (
	menu = "Choose an action:\n" +
		"  'rs' - Randomly sort files with numbered prefixes\n" +
		"  'cb' - Change back to original names\n" +
		"  'rp' - Remove prefixes and recreate CSV (if missing)\n" +
		"         (Note: files originally starting with a number may have that number removed)\n" +
		"  'ex' - Exit\n"
	prompt = "Your choice: "

	msgWelcomeBack = "Welcome back!"
	msgGoodbye     = "Exiting program. Goodbye!"
	msgInvalid     = "Invalid input. Please try 'rs', 'cb', 'rp', or 'ex'."
)

var sessionChoices = []string{"rs", "cb", "rp", "ex"}

// lineReader reads one line of user input after showing a prompt.
// Returns io.EOF when input ends and liner.ErrPromptAborted on Ctrl-C.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// runSession runs the interactive loop until the user exits, input ends or
// ctx is cancelled. Always returns exit code 0: failures are reported and
// the loop continues.
func runSession(ctx context.Context, in io.Reader, o *IO, e *env) int {
	existed, err := e.ws.TrackerExists()
	if err != nil {
		o.Warn(err.Error(), "check the directory permissions")
	}

	res, err := e.ws.Open()
	if err != nil {
		o.ErrPrintln("error:", err)
	} else if existed {
		o.Println(msgWelcomeBack)
	}

	if !res.Delta.Empty() && e.verbose {
		o.Printf("tracker: %d added, %d removed\n", len(res.Delta.Added), len(res.Delta.Removed))
	}

	o.FlushWarnings()

	reader := newLineReader(in, o.Out())
	defer func() { _ = reader.Close() }()

	for {
		o.Printf("%s", menu)

		line, err := readLine(ctx, reader, prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, context.Canceled) {
				o.ErrPrintln("error: reading input:", err)
			}

			o.Println()
			o.Println(msgGoodbye)

			return 0
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		if choice != "" {
			reader.AppendHistory(choice)
		}

		var a *action

		switch choice {
		case "rs":
			a = &actionRandomize
		case "cb":
			a = &actionRestore
		case "rp":
			a = &actionStrip
		case "ex":
			o.Println(msgGoodbye)

			return 0
		default:
			o.Println(msgInvalid)

			continue
		}

		if err := execAction(o, e, *a); err != nil {
			o.ErrPrintln("error:", err)
		}

		o.FlushWarnings()
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine prompts in a goroutine so a cancelled ctx ends the wait.
// On cancel the goroutine stays blocked on input until the process exits.
func readLine(ctx context.Context, r lineReader, prompt string) (string, error) {
	ch := make(chan lineResult, 1)

	go func() {
		line, err := r.Prompt(prompt)
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.line, res.err
	}
}

// newLineReader uses liner when both in and out are terminals, and a plain
// line scanner otherwise (pipes, tests).
func newLineReader(in io.Reader, out io.Writer) lineReader {
	if isTerminal(in) && isTerminal(out) {
		return newLinerReader()
	}

	return &scanReader{scanner: bufio.NewScanner(orEmpty(in)), out: out}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

func orEmpty(in io.Reader) io.Reader {
	if in == nil {
		return strings.NewReader("")
	}

	return in
}

// scanReader reads lines from a non-interactive input.
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scanReader) Prompt(prompt string) (string, error) {
	_, _ = fmt.Fprint(s.out, prompt)

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return s.scanner.Text(), nil
}

func (s *scanReader) AppendHistory(string) {}

func (s *scanReader) Close() error { return nil }

// linerReader wraps liner with history persisted under the XDG state dir.
type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader() *linerReader {
	r := &linerReader{state: liner.NewLiner()}

	r.state.SetCtrlCAborts(true)
	r.state.SetCompleter(completeChoice)

	if path, err := xdg.StateFile("shuffle/history"); err == nil {
		r.historyPath = path

		if f, err := os.Open(path); err == nil {
			_, _ = r.state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *linerReader) Close() error {
	if r.historyPath != "" {
		if f, err := os.Create(r.historyPath); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return r.state.Close()
}

// completeChoice completes the session commands.
func completeChoice(line string) []string {
	prefix := strings.ToLower(strings.TrimSpace(line))

	var out []string

	for _, c := range sessionChoices {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}

	return out
}
