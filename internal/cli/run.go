// Package cli implements the shuffle command line: global flags, one-shot
// subcommands and the interactive session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/shuffle/internal/config"
	"github.com/calvinalkan/shuffle/internal/debuglog"
	"github.com/calvinalkan/shuffle/internal/fs"
	"github.com/calvinalkan/shuffle/internal/tracker"
	"github.com/calvinalkan/shuffle/internal/workspace"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUnexpectedArgs = errors.New("unexpected arguments")
)

// globalOptions are the parsed global flags.
type globalOptions struct {
	flags      *flag.FlagSet
	cwd        string
	configPath string
	tracker    string
	template   string
	debugLog   string
	reserve    []string
	verbose    bool
	help       bool
}

func newGlobalFlags() *globalOptions {
	g := &globalOptions{flags: flag.NewFlagSet("shuffle", flag.ContinueOnError)}

	fl := g.flags
	fl.SetInterspersed(false)
	fl.SetOutput(&strings.Builder{})
	fl.StringVarP(&g.cwd, "cwd", "C", "", "Run as if started in `dir`")
	fl.StringVarP(&g.configPath, "config", "c", "", "Use specified config `file`")
	fl.StringVar(&g.tracker, "tracker", "", "Tracker file `name` inside the directory")
	fl.StringVar(&g.template, "template", "", "Tracker `file` used to seed a directory without one")
	fl.StringArrayVar(&g.reserve, "reserve", nil, "Never touch file `name` (repeatable)")
	fl.StringVar(&g.debugLog, "debug-log", "", "Append diagnostics to `file`")
	fl.BoolVarP(&g.verbose, "verbose", "v", false, "Print every rename outcome")
	fl.BoolVarP(&g.help, "help", "h", false, "Show help")

	return g
}

func (g *globalOptions) overrides() config.Overrides {
	o := config.Overrides{Reserved: g.reserve}

	if g.flags.Changed("tracker") {
		o.TrackerFile = &g.tracker
	}

	if g.flags.Changed("template") {
		o.Template = &g.template
	}

	if g.flags.Changed("debug-log") {
		o.DebugLog = &g.debugLog
	}

	return o
}

// env bundles what every command needs.
type env struct {
	cfg     config.Config
	ws      *workspace.Workspace
	verbose bool
}

// Run is the main entry point. Returns exit code.
//
// With no command it starts the interactive session on in. sigCh, if not nil,
// ends the session (or the running command's wait) when a signal arrives.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, environ map[string]string, sigCh <-chan os.Signal) int {
	globals := newGlobalFlags()

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	if err := globals.flags.Parse(rest); err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals.flags)

		return 1
	}

	if globals.help {
		printUsage(out, globals.flags)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: globals.cwd,
		ConfigPath:      globals.configPath,
		Overrides:       globals.overrides(),
		Env:             environ,
	})
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals.flags)

		return 1
	}

	logger, err := debuglog.Open(cfg.DebugLog)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = logger.Close() }()

	var self []string
	if len(args) > 0 && args[0] != "" {
		self = append(self, filepath.Base(args[0]))
	}

	reserved := tracker.NewReserved(cfg.ReservedNames(self...)...)
	logger.Printf("start: dir=%s tracker=%s reserved=%v", cfg.Dir, cfg.TrackerPath, reserved.Names())

	e := &env{
		cfg: cfg,
		ws: workspace.New(fs.NewReal(), workspace.Options{
			Dir:         cfg.Dir,
			TrackerPath: cfg.TrackerPath,
			Template:    cfg.Template,
			Reserved:    reserved,
			Log:         logger,
		}),
		verbose: globals.verbose,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				logger.Printf("signal: %v", sig)
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	o := NewIO(out, errOut)

	cmdArgs := globals.flags.Args()
	if len(cmdArgs) == 0 {
		return runSession(ctx, in, o, e)
	}

	name := strings.ToLower(cmdArgs[0])

	if name == "help" {
		printUsage(out, globals.flags)

		return 0
	}

	for _, cmd := range commands(e) {
		if !cmd.Matches(name) {
			continue
		}

		code := cmd.Run(ctx, o, cmdArgs[1:])
		if finish := o.Finish(); code == 0 {
			code = finish
		}

		return code
	}

	fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, cmdArgs[0]))
	fprintln(errOut)
	printUsage(errOut, globals.flags)

	return 1
}

// commands returns all one-shot commands in help order.
func commands(e *env) []*Command {
	return []*Command{
		RandomizeCmd(e),
		RestoreCmd(e),
		StripCmd(e),
		StatusCmd(e),
		PrintConfigCmd(&e.cfg),
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet) {
	fprintln(w, `shuffle - reversibly randomize file names with numeric prefixes

Usage: shuffle [flags] [command]

Without a command, shuffle starts an interactive session.

Commands:`)

	for _, cmd := range commands(&env{}) {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, "Global flags:")
	_, _ = fmt.Fprint(w, globals.FlagUsages())
}
