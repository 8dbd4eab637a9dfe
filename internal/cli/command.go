package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "shuffle" in help.
	// Includes the command name and arguments/flags.
	// Examples: "randomize", "status [--plain]"
	Usage string

	// Aliases are alternative names, e.g. the two-letter session commands.
	Aliases []string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// Matches reports whether name is the command's name or one of its aliases.
func (c *Command) Matches(name string) bool {
	return name == c.Name() || slices.Contains(c.Aliases, name)
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	usage := c.Usage
	if len(c.Aliases) > 0 {
		usage += " (" + strings.Join(c.Aliases, ", ") + ")"
	}

	return fmt.Sprintf("  %-26s %s", usage, c.Short)
}

// PrintHelp prints the full help output for "shuffle <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: shuffle", c.Usage)

	if len(c.Aliases) > 0 {
		o.Println("Aliases:", strings.Join(c.Aliases, ", "))
	}

	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")
		o.Printf("%s", c.Flags.FlagUsages())
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.printHelpTo(o)

		return 1
	}

	if extra := c.Flags.Args(); len(extra) > 0 {
		o.ErrPrintln("error:", fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(extra, " ")))

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	return 0
}

// printHelpTo writes help to stderr, used after a flag error so stdout
// stays empty.
func (c *Command) printHelpTo(o *IO) {
	errIO := NewIO(o.errOut, o.errOut)
	c.PrintHelp(errIO)
}
