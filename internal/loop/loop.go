// Package loop drives a task list through the Final Version Perfected procedure.
package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/fvp-go/internal/logging"
	"github.com/nibzard/fvp-go/internal/prompts"
	"github.com/nibzard/fvp-go/internal/task"
)

// ErrQuit is returned by Run when the user asks to quit.
var ErrQuit = errors.New("quit requested")

// Prompter asks the user a question and blocks until it has a decision.
type Prompter interface {
	Ask(ctx context.Context, q prompts.Question) (prompts.Decision, error)
}

// Renderer displays the task list and prompt feedback.
type Renderer interface {
	Render(l *task.List) error
	// EraseLine removes the most recently written line.
	EraseLine() error
	Help(kind prompts.Kind) error
	Invalid(kind prompts.Kind) error
}

// State is the phase the loop is in.
type State int

const (
	StateSeekBenchmark State = iota
	StateCompare
	StateConverge
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSeekBenchmark:
		return "seek_benchmark"
	case StateCompare:
		return "compare"
	case StateConverge:
		return "converge"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Option configures a Loop.
type Option func(*Loop)

// WithEventWriter sends loop events to w.
func WithEventWriter(w logging.EventWriter) Option {
	return func(l *Loop) {
		if w != nil {
			l.events = w
		}
	}
}

// WithOnComplete registers a callback invoked after each task is completed.
func WithOnComplete(fn func(ctx context.Context, t *task.Task)) Option {
	return func(l *Loop) {
		l.onComplete = fn
	}
}

// Loop manages the comparison flow and state transitions.
type Loop struct {
	list        *task.List
	prompter    Prompter
	renderer    Renderer
	events      logging.EventWriter
	onComplete  func(ctx context.Context, t *task.Task)
	state       State
	comparisons int
}

// New creates a loop over list.
func New(list *task.List, prompter Prompter, renderer Renderer, opts ...Option) *Loop {
	l := &Loop{
		list:     list,
		prompter: prompter,
		renderer: renderer,
		events:   logging.Discard,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current phase.
func (l *Loop) State() State {
	return l.state
}

// Comparisons returns the number of answered comparison prompts.
func (l *Loop) Comparisons() int {
	return l.comparisons
}

// Run executes the procedure until every task is complete. It returns
// ErrQuit if the user quits and ctx.Err() if ctx is done. Any other failure
// is also recorded as an error event.
func (l *Loop) Run(ctx context.Context) error {
	l.emit(logging.Event{Type: logging.EventSessionStart})

	err := l.run(ctx)
	if err != nil && !errors.Is(err, ErrQuit) && ctx.Err() == nil {
		l.emit(logging.Event{Type: logging.EventError, Message: err.Error()})
	}
	return err
}

func (l *Loop) run(ctx context.Context) error {
	for l.list.IncompleteCount() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.seekBenchmark(); err != nil {
			return fmt.Errorf("seek benchmark: %w", err)
		}
		if err := l.renderer.Render(l.list); err != nil {
			return fmt.Errorf("render list: %w", err)
		}
		if err := l.compare(ctx); err != nil {
			return err
		}
		if err := l.converge(ctx); err != nil {
			return err
		}
	}

	l.state = StateDone
	l.emit(logging.Event{Type: logging.EventSessionDone})
	return nil
}

// seekBenchmark picks the bottom marked task, or marks the first incomplete
// task when nothing is marked.
func (l *Loop) seekBenchmark() error {
	l.state = StateSeekBenchmark
	if l.list.Benchmark() != nil {
		return nil
	}

	var benchmark *task.Task
	if len(l.list.MarkedTasks()) > 0 {
		bottom, err := l.list.BottomMarked()
		if err != nil {
			return err
		}
		benchmark = bottom
	} else {
		benchmark = l.list.FirstIncomplete()
		if benchmark == nil {
			return task.ErrEmptyMarkedSet
		}
		benchmark.Mark()
		l.emitTask(logging.EventMark, benchmark)
	}

	if err := l.list.SetBenchmark(benchmark); err != nil {
		return err
	}
	l.emitTask(logging.EventBenchmark, benchmark)
	return nil
}

// compare walks the tasks after the benchmark until it reaches the end of
// the list. Each newly marked task becomes the benchmark for the rest of the walk.
func (l *Loop) compare(ctx context.Context) error {
	l.state = StateCompare
	benchmark := l.list.Benchmark()
	benchIdx, err := l.list.IndexOf(benchmark)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	for i, t := range l.list.Entries() {
		if i <= benchIdx || t.Completed() || t.Deleted() {
			continue
		}

		decision, err := l.ask(ctx, prompts.CompareQuestion(t.Content(), benchmark.Content()))
		if err != nil {
			return err
		}
		l.comparisons++
		l.emit(logging.Event{
			Type:      logging.EventCompare,
			TaskID:    t.ID(),
			Content:   t.Content(),
			Benchmark: benchmark.Content(),
			Decision:  decision.String(),
		})
		if decision == prompts.Affirmative {
			t.Mark()
			l.emitTask(logging.EventMark, t)
		}

		end, err := l.list.IsEndOfList(t)
		if err != nil {
			return fmt.Errorf("compare: %w", err)
		}
		if end {
			return nil
		}

		if !t.Marked() {
			if err := l.renderer.EraseLine(); err != nil {
				return fmt.Errorf("erase line: %w", err)
			}
			continue
		}
		if err := l.list.SetBenchmark(t); err != nil {
			return fmt.Errorf("compare: %w", err)
		}
		benchmark, benchIdx = t, i
		l.emitTask(logging.EventBenchmark, t)
		if err := l.renderer.Render(l.list); err != nil {
			return fmt.Errorf("render list: %w", err)
		}
	}

	// Nothing left after the benchmark.
	return nil
}

// converge works the bottom marked task to completion and resets both roles.
func (l *Loop) converge(ctx context.Context) error {
	l.state = StateConverge
	active, err := l.list.BottomMarked()
	if err != nil {
		return fmt.Errorf("converge: %w", err)
	}
	if err := l.list.SetActive(active); err != nil {
		return fmt.Errorf("converge: %w", err)
	}
	l.emitTask(logging.EventActive, active)

	for {
		decision, err := l.ask(ctx, prompts.DoneQuestion(active.Content()))
		if err != nil {
			return err
		}
		if decision == prompts.Affirmative {
			break
		}
	}

	if err := l.list.AddToCompleted(active); err != nil {
		return fmt.Errorf("converge: %w", err)
	}
	if err := l.list.SetActive(nil); err != nil {
		return fmt.Errorf("converge: %w", err)
	}
	if err := l.list.SetBenchmark(nil); err != nil {
		return fmt.Errorf("converge: %w", err)
	}
	l.emitTask(logging.EventComplete, active)
	if l.onComplete != nil {
		l.onComplete(ctx, active)
	}
	return nil
}

// ask repeats q until the answer is affirmative or negative. List, help and
// unrecognized answers are handled here and never reach the caller.
func (l *Loop) ask(ctx context.Context, q prompts.Question) (prompts.Decision, error) {
	for {
		if err := ctx.Err(); err != nil {
			return prompts.Unrecognized, err
		}
		decision, err := l.prompter.Ask(ctx, q)
		if err != nil {
			return prompts.Unrecognized, fmt.Errorf("ask %s: %w", q.Kind, err)
		}

		switch decision {
		case prompts.Affirmative, prompts.Negative:
			return decision, nil
		case prompts.Quit:
			l.emit(logging.Event{Type: logging.EventQuit})
			return decision, ErrQuit
		case prompts.List:
			err = l.renderer.Render(l.list)
		case prompts.Help:
			err = l.renderer.Help(q.Kind)
		default:
			err = l.renderer.Invalid(q.Kind)
		}
		if err != nil {
			return prompts.Unrecognized, fmt.Errorf("render feedback: %w", err)
		}
	}
}

func (l *Loop) emitTask(eventType string, t *task.Task) {
	l.emit(logging.Event{
		Type:    eventType,
		TaskID:  t.ID(),
		Content: t.Content(),
	})
}

func (l *Loop) emit(event logging.Event) {
	event.Remaining = l.list.IncompleteCount()
	_ = l.events.Write(event)
}
