package task

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrEmptyMarkedSet is returned by BottomMarked when no task is marked and incomplete.
	ErrEmptyMarkedSet = errors.New("no marked incomplete tasks")
	// ErrTaskNotFound is returned when a task does not belong to the list.
	ErrTaskNotFound = errors.New("task not found in list")
)

// Task is a single to-do item. Content and ID never change after creation;
// marked and completed only ever go from false to true.
type Task struct {
	id        string
	content   string
	marked    bool
	completed bool
	deleted   bool
}

// Entry is the raw input for one task.
type Entry struct {
	Content string
	Deleted bool
}

// New creates an unmarked, incomplete task with a fresh identifier.
func New(content string) *Task {
	return &Task{id: NewID(), content: content}
}

// NewID returns a fresh task identifier.
func NewID() string {
	return uuid.NewString()
}

// ID returns the task identifier.
func (t *Task) ID() string { return t.id }

// Content returns the task text.
func (t *Task) Content() string { return t.content }

// Marked reports whether the task has been marked.
func (t *Task) Marked() bool { return t.marked }

// Completed reports whether the task has been completed.
func (t *Task) Completed() bool { return t.completed }

// Deleted reports whether the task was discarded as irrelevant.
func (t *Task) Deleted() bool { return t.deleted }

// Mark marks the task. Calling it again has no effect.
func (t *Task) Mark() {
	t.marked = true
}

// Complete completes the task. Calling it again has no effect.
func (t *Task) Complete() {
	t.completed = true
}

// pending reports whether the task still takes part in the algorithm.
func (t *Task) pending() bool {
	return !t.completed && !t.deleted
}

// State is the display state of a task.
type State int

const (
	StateDefault State = iota
	StateActive
	StateMarked
	StateCompleted
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateMarked:
		return "marked"
	case StateCompleted:
		return "completed"
	case StateDeleted:
		return "deleted"
	default:
		return "default"
	}
}
