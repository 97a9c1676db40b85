// Package cmd implements the CLI command structure for fvp.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/fvp-go/internal/config"
	"github.com/nibzard/fvp-go/internal/hooks"
	"github.com/nibzard/fvp-go/internal/logging"
	"github.com/nibzard/fvp-go/internal/loop"
	"github.com/nibzard/fvp-go/internal/prompts"
	"github.com/nibzard/fvp-go/internal/task"
	"github.com/nibzard/fvp-go/internal/todo"
	"github.com/nibzard/fvp-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

var commandNames = []string{"run", "tui", "ls", "doctor", "tail", "init", "version", "help"}

// cli carries the streams every command reads from and writes to.
type cli struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{in: bufio.NewReader(in), out: out, errOut: errOut}
}

// Run executes the fvp CLI.
func Run(ctx context.Context, args []string) error {
	return newCLI(os.Stdin, os.Stdout, os.Stderr).run(ctx, args)
}

func (c *cli) run(ctx context.Context, args []string) error {
	// If no args or first arg is a flag or a task file, use "run" as default
	subcommand := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if isCommand(args[0]) {
			subcommand = args[0]
			args = args[1:]
		} else if fi, err := os.Stat(args[0]); err != nil || fi.IsDir() {
			fmt.Fprintf(c.errOut, "Unknown command: %s\n", args[0])
			c.printUsage(c.errOut)
			return fmt.Errorf("unknown command: %s", args[0])
		}
	}

	switch subcommand {
	case "run":
		return c.runCommand(ctx, args, false)
	case "tui":
		return c.runCommand(ctx, args, true)
	case "ls":
		return c.lsCommand(args)
	case "doctor":
		return c.doctorCommand(args)
	case "tail":
		return c.tailCommand(ctx, args)
	case "init":
		return c.initCommand(args)
	case "version":
		return c.versionCommand()
	default:
		c.printUsage(c.out)
		return nil
	}
}

func isCommand(name string) bool {
	for _, cmd := range commandNames {
		if cmd == name {
			return true
		}
	}
	return false
}

// commandFlags is a flag set shared by a subcommand and the config layer.
type commandFlags struct {
	*flag.FlagSet
	help    *bool
	version *bool
}

func (c *cli) newFlagSet(name string) *commandFlags {
	fs := flag.NewFlagSet("fvp "+name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	cf := &commandFlags{FlagSet: fs}
	cf.help = fs.Bool("help", false, "Show help")
	fs.BoolVar(cf.help, "h", false, "Show help")
	cf.version = fs.Bool("version", false, "Show version")
	fs.BoolVar(cf.version, "v", false, "Show version")
	fs.Usage = func() { c.printUsage(c.errOut) }
	return cf
}

// load parses args into the command's flags and the layered config.
// It reports handled when -help or -version short-circuited the command.
func (c *cli) load(cf *commandFlags, args []string) (cws *config.ConfigWithSources, handled bool, err error) {
	cws, err = config.LoadWithSources(cf.FlagSet, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("loading config: %w", err)
	}
	if *cf.help {
		c.printUsage(c.out)
		return nil, true, nil
	}
	if *cf.version {
		return nil, true, c.versionCommand()
	}
	return cws, false, nil
}

func (c *cli) logger(cfg *config.Config) *log.Logger {
	return logging.NewConsoleLoggerFromConfig(c.errOut, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

// runCommand runs a prioritization session over the configured task file.
func (c *cli) runCommand(ctx context.Context, args []string, forceTUI bool) error {
	name := "run"
	if forceTUI {
		name = "tui"
	}
	cf := c.newFlagSet(name)
	cws, handled, err := c.load(cf, args)
	if handled || err != nil {
		return err
	}
	cfg := cws.Config
	if forceTUI {
		cfg.UI = config.UITUI
	}
	logger := c.logger(cfg)

	file, err := todo.Load(cfg.TaskFile)
	if err != nil {
		return fmt.Errorf("loading task file: %w", err)
	}
	for _, w := range file.Validate().Warnings {
		logger.Warn(w)
	}
	list, err := file.List()
	if err != nil {
		return fmt.Errorf("loading task file %s: %w", cfg.TaskFile, err)
	}

	colorMode, err := ui.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}
	renderer := prompts.NewRenderer(prompts.NewStore(cfg.PromptDir))
	console := ui.NewConsole(c.out, renderer, ui.WithColorMode(colorMode))
	term := prompts.NewTerminal(c.in, c.out, renderer)

	if cfg.Confirm {
		ok, err := c.confirm(ctx, term, console, list)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(c.out, "Quitting...")
			return nil
		}
	}

	var runLog *logging.RunLogger
	if cfg.SessionLog {
		runLog, err = logging.NewRunLogger(cfg.LogDir, cfg.TaskFile)
		if err != nil {
			return fmt.Errorf("creating session log: %w", err)
		}
		defer runLog.Close()
		logger.Debug("session log", "path", runLog.LogPath)
	}

	tui := cfg.UI == config.UITUI
	events := []logging.EventWriter{runLog.EventWriter()}
	if !tui {
		// The TUI owns the terminal, so console events only go out in line mode.
		events = append(events, logging.NewConsoleEventWriter(logger))
	}
	opts := []loop.Option{
		loop.WithEventWriter(logging.NewMultiEventWriter(events...)),
		loop.WithOnComplete(c.completionHook(cfg, runLog, logger, tui)),
	}

	var l *loop.Loop
	if tui {
		l, err = ui.RunTUI(ctx, list, ui.TUIOptions{
			Title:       cfg.TaskFile,
			Prompts:     renderer,
			LoopOptions: opts,
		})
	} else {
		l = loop.New(list, term, console, opts...)
		err = l.Run(ctx)
	}
	if err != nil && l != nil {
		logger.Debug("session stopped", "state", l.State(), "comparisons", l.Comparisons(), "err", err)
	}
	if errors.Is(err, loop.ErrQuit) {
		fmt.Fprintln(c.out, "Quitting...")
		return nil
	}
	if err != nil {
		return err
	}
	if tui {
		if err := console.Render(list); err != nil {
			return err
		}
	}
	return console.Summary(list.Stats(), l.Comparisons())
}

// confirm shows the list and asks whether to start the session.
func (c *cli) confirm(ctx context.Context, term *prompts.Terminal, console *ui.Console, list *task.List) (bool, error) {
	if err := console.Render(list); err != nil {
		return false, err
	}
	for {
		fmt.Fprint(c.out, "Proceed? [y/n]: ")
		line, err := term.ReadLine(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}
		switch prompts.Normalize(prompts.KindCompare, line) {
		case prompts.Affirmative:
			return true, nil
		case prompts.Negative, prompts.Quit:
			return false, nil
		}
		if err != nil {
			fmt.Fprintln(c.out)
			return false, nil
		}
	}
}

// completionHook runs the configured hook for every completed task.
// A failing hook is logged and the session continues.
func (c *cli) completionHook(cfg *config.Config, runLog *logging.RunLogger, logger *log.Logger, quiet bool) func(context.Context, *task.Task) {
	if strings.TrimSpace(cfg.HookCommand) == "" {
		return nil
	}
	logPath := ""
	if runLog != nil {
		logPath = runLog.LogPath
	}
	stdout, stderr := c.out, c.errOut
	if quiet {
		stdout, stderr = io.Discard, io.Discard
	}
	return func(ctx context.Context, t *task.Task) {
		res, err := hooks.Invoke(ctx, hooks.Options{
			Command: cfg.HookCommand,
			TaskID:  t.ID(),
			Content: t.Content(),
			LogPath: logPath,
			WorkDir: cfg.ProjectRoot,
			Stdout:  stdout,
			Stderr:  stderr,
		})
		if err != nil {
			logger.Warn("hook failed", "task", t.Content(), "exit_code", res.ExitCode, "err", err)
			return
		}
		logger.Debug("hook ran", "task", t.Content(), "command", strings.Join(res.Command, " "))
	}
}

// lsCommand prints the task file the way a session would start.
func (c *cli) lsCommand(args []string) error {
	cf := c.newFlagSet("ls")
	verbose := cf.Bool("ids", false, "Show task ids")
	cws, handled, err := c.load(cf, args)
	if handled || err != nil {
		return err
	}
	cfg := cws.Config

	file, err := todo.Load(cfg.TaskFile)
	if err != nil {
		return fmt.Errorf("loading task file: %w", err)
	}
	list, err := file.List()
	if err != nil {
		if errors.Is(err, todo.ErrNoTasks) {
			fmt.Fprintln(c.out, "No tasks found.")
			return nil
		}
		return err
	}

	colorMode, err := ui.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}
	renderer := prompts.NewRenderer(prompts.NewStore(cfg.PromptDir))
	if err := ui.NewConsole(c.out, renderer, ui.WithColorMode(colorMode)).Render(list); err != nil {
		return err
	}
	if *verbose {
		fmt.Fprintln(c.out)
		for _, t := range list.Entries() {
			fmt.Fprintf(c.out, "  [%s] %s\n", t.ID(), t.Content())
		}
	}
	return nil
}

// tailCommand tails the latest session log for the task file.
func (c *cli) tailCommand(ctx context.Context, args []string) error {
	cf := c.newFlagSet("tail")
	follow := cf.Bool("f", false, "Follow the log (like tail -f)")
	cf.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := cf.Int("n", 0, "Number of lines to show (0 = all)")
	listRuns := cf.Bool("runs", false, "List session logs instead of tailing")
	cws, handled, err := c.load(cf, args)
	if handled || err != nil {
		return err
	}
	cfg := cws.Config

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.TaskFile)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	if *listRuns {
		runs, err := logging.FindLogRuns(logDir)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("listing session logs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(c.out, "No log files found.")
			return nil
		}
		for _, run := range runs {
			fmt.Fprintf(c.out, "%s  %s  %d bytes\n", run.RunID, run.ModTime.Format("2006-01-02 15:04:05"), run.Size)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(c.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(c.out, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(c.out, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(c.out)

	return logging.TailLog(ctx, c.out, logPath, *n, *follow)
}

// initCommand writes an example project config file.
func (c *cli) initCommand(args []string) error {
	cf := c.newFlagSet("init")
	force := cf.Bool("force", false, "Overwrite an existing config file")
	if err := cf.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *cf.help {
		c.printUsage(c.out)
		return nil
	}
	if cf.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(cf.Args(), " "))
	}

	path := "fvp.toml"
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(c.out, "%s already exists (use -force to overwrite)\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(c.out, "Created %s\n", path)
	return nil
}

// versionCommand prints version information.
func (c *cli) versionCommand() error {
	fmt.Fprintf(c.out, "fvp version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func (c *cli) printUsage(w io.Writer) {
	fmt.Fprintln(w, "fvp - prioritize a task list with Final Version Perfected")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fvp [command] [options] [task file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run [file]     Run a session in the terminal (default command)")
	fmt.Fprintln(w, "  tui [file]     Run a session in the full-screen interface")
	fmt.Fprintln(w, "  ls [file]      Show the task list")
	fmt.Fprintln(w, "  doctor [file]  Check config, prompts, and task file validity")
	fmt.Fprintln(w, "  tail [file]    Tail the latest session log")
	fmt.Fprintln(w, "  init           Write an example fvp.toml")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w, "  help           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs := flag.NewFlagSet("fvp", flag.ContinueOnError)
	config.DefineFlags(config.Defaults(), fs)
	fs.Bool("help", false, "Show help")
	fs.Bool("version", false, "Show version")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -runs")
	fmt.Fprintln(w, "        List session logs instead of tailing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -verbose")
	fmt.Fprintln(w, "        List every task in the task file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Init Options (use with 'init' command):")
	fmt.Fprintln(w, "  -force")
	fmt.Fprintln(w, "        Overwrite an existing fvp.toml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -ids  Show task ids")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Answers:")
	fmt.Fprintln(w, "  y/n to compare, done when the active task is finished,")
	fmt.Fprintln(w, "  l to show the list, h for help, q to quit")
}
