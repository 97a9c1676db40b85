package prompts

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Terminal asks questions on a line-oriented input and output stream.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	renderer *Renderer
	// pending is an outstanding read left behind by a canceled call.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewTerminal creates a terminal prompter reading answers from in.
func NewTerminal(in io.Reader, out io.Writer, renderer *Renderer) *Terminal {
	return &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		renderer: renderer,
	}
}

// Ask writes the question and blocks until a line is read or ctx is done.
// End of input is treated as a quit request.
func (t *Terminal) Ask(ctx context.Context, q Question) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Unrecognized, err
	}
	text, err := t.renderer.Question(q)
	if err != nil {
		return Unrecognized, err
	}
	if _, err := fmt.Fprintf(t.out, "%s%s", text, suffix(q.Kind)); err != nil {
		return Unrecognized, fmt.Errorf("write prompt: %w", err)
	}

	line, err := t.ReadLine(ctx)
	if ctx.Err() != nil {
		return Unrecognized, ctx.Err()
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return Unrecognized, fmt.Errorf("read answer: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(t.out)
			return Quit, nil
		}
	}
	return Normalize(q.Kind, line), nil
}

// ReadLine reads one line, returning early with ctx.Err() when ctx is done.
// A read interrupted that way is picked up by the next call.
func (t *Terminal) ReadLine(ctx context.Context) (string, error) {
	if t.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := t.in.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		t.pending = ch
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-t.pending:
		t.pending = nil
		return r.line, r.err
	}
}

func suffix(kind Kind) string {
	if kind == KindDone {
		return ": "
	}
	return " [y/n]: "
}
