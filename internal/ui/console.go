// Package ui renders task lists and collects decisions in a terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nibzard/fvp-go/internal/prompts"
	"github.com/nibzard/fvp-go/internal/task"
)

// Symbols printed before a task's content, by display state.
const (
	SymbolDefault   = "   "
	SymbolMarked    = " · "
	SymbolCompleted = " x "
	SymbolActive    = " > "
)

// eraseLine moves the cursor to the previous line and clears it.
const eraseLine = "\x1b[F\x1b[K"

// Symbol returns the prefix printed for a task in state s.
func Symbol(s task.State) string {
	switch s {
	case task.StateMarked:
		return SymbolMarked
	case task.StateCompleted:
		return SymbolCompleted
	case task.StateActive:
		return SymbolActive
	default:
		return SymbolDefault
	}
}

type consoleStyles struct {
	standard      *color.Color
	dimmed        *color.Color
	strikethrough *color.Color
	bold          *color.Color
}

func newConsoleStyles(enabled bool) consoleStyles {
	s := consoleStyles{
		standard:      color.New(color.FgBlue),
		dimmed:        color.New(color.FgBlue, color.Faint),
		strikethrough: color.New(color.FgBlue, color.Faint, color.CrossedOut),
		bold:          color.New(color.FgBlue, color.Bold),
	}
	for _, c := range []*color.Color{s.standard, s.dimmed, s.strikethrough, s.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColorMode sets when the console uses color. The default is ColorAuto.
func WithColorMode(mode ColorMode) ConsoleOption {
	return func(c *Console) {
		c.colorMode = mode
	}
}

// WithTerminal overrides terminal detection for the output writer.
func WithTerminal(tty bool) ConsoleOption {
	return func(c *Console) {
		c.tty = &tty
	}
}

// Console renders the task list as lines of text.
type Console struct {
	out       io.Writer
	prompts   *prompts.Renderer
	colorMode ColorMode
	tty       *bool
	styles    consoleStyles
}

// NewConsole creates a console renderer writing to out. Help text is
// rendered with r.
func NewConsole(out io.Writer, r *prompts.Renderer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:       out,
		prompts:   r,
		colorMode: ColorAuto,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tty == nil {
		tty := IsTTY(out)
		c.tty = &tty
	}

	colored := c.colorMode == ColorAlways || (c.colorMode == ColorAuto && *c.tty)
	c.styles = newConsoleStyles(colored)
	return c
}

// Render writes every entry of l followed by a remaining count.
func (c *Console) Render(l *task.List) error {
	var b strings.Builder
	for _, t := range l.Entries() {
		b.WriteString(c.line(l.StateOf(t), t.Content()))
		b.WriteByte('\n')
	}
	stats := l.Stats()
	fmt.Fprintf(&b, "%d of %d tasks remaining\n", stats.Remaining, stats.Total-stats.Deleted)

	_, err := io.WriteString(c.out, b.String())
	return err
}

func (c *Console) line(state task.State, content string) string {
	symbol := Symbol(state)
	switch state {
	case task.StateDeleted:
		return c.styles.standard.Sprint(symbol) + c.styles.strikethrough.Sprint(content)
	case task.StateCompleted:
		return c.styles.standard.Sprint(symbol) + c.styles.dimmed.Sprint(content)
	case task.StateMarked:
		return c.styles.bold.Sprint(symbol) + c.styles.standard.Sprint(content)
	case task.StateActive:
		return c.styles.standard.Sprint(symbol) + c.styles.bold.Sprint(content)
	default:
		return c.styles.standard.Sprint(symbol) + c.styles.standard.Sprint(content)
	}
}

// EraseLine clears the previous line. It does nothing when the output is not
// a terminal.
func (c *Console) EraseLine() error {
	if !*c.tty {
		return nil
	}
	_, err := io.WriteString(c.out, eraseLine)
	return err
}

// Help writes the help text for kind.
func (c *Console) Help(kind prompts.Kind) error {
	text, err := c.prompts.HelpText(kind)
	if err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(c.out, text)
	return err
}

// Invalid reports an unrecognized answer and shows help for kind.
func (c *Console) Invalid(kind prompts.Kind) error {
	if _, err := io.WriteString(c.out, "Invalid response\n"); err != nil {
		return err
	}
	return c.Help(kind)
}

// Summary writes the end-of-session totals.
func (c *Console) Summary(stats task.Stats, comparisons int) error {
	_, err := fmt.Fprintf(c.out, "All tasks complete: %d completed, %d deleted, %d comparisons\n",
		stats.Completed, stats.Deleted, comparisons)
	return err
}
