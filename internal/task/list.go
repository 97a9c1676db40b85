package task

import "fmt"

const noRole = -1

// List is the ordered FVP task list.
type List struct {
	entries      []*Task
	benchmark    int
	active       int
	completedIDs []string
}

// Stats summarizes task counts in a list.
type Stats struct {
	Total     int
	Completed int
	Marked    int
	Deleted   int
	Remaining int
}

// NewList wraps each line in a new task, preserving order.
func NewList(lines []string) *List {
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Entry{Content: line}
	}
	return NewListFromEntries(entries)
}

// NewListFromEntries builds a list from input entries, preserving order.
func NewListFromEntries(entries []Entry) *List {
	return NewListWithIDs(entries, NewID)
}

// NewListWithIDs builds a list using newID to assign task identifiers.
func NewListWithIDs(entries []Entry, newID func() string) *List {
	l := &List{
		entries:   make([]*Task, 0, len(entries)),
		benchmark: noRole,
		active:    noRole,
	}
	for _, e := range entries {
		l.entries = append(l.entries, &Task{
			id:      newID(),
			content: e.Content,
			deleted: e.Deleted,
		})
	}
	return l
}

// Entries returns the tasks in list order. The slice is a copy; the tasks are not.
func (l *List) Entries() []*Task {
	out := make([]*Task, len(l.entries))
	copy(out, l.entries)
	return out
}

// EntryCount returns the number of tasks, including completed and deleted ones.
func (l *List) EntryCount() int {
	return len(l.entries)
}

// Incomplete returns the tasks that are neither completed nor deleted, in list order.
func (l *List) Incomplete() []*Task {
	var out []*Task
	for _, t := range l.entries {
		if t.pending() {
			out = append(out, t)
		}
	}
	return out
}

// IncompleteCount returns the number of tasks still to be completed.
func (l *List) IncompleteCount() int {
	n := 0
	for _, t := range l.entries {
		if t.pending() {
			n++
		}
	}
	return n
}

// FirstIncomplete returns the lowest-index incomplete task, or nil.
func (l *List) FirstIncomplete() *Task {
	for _, t := range l.entries {
		if t.pending() {
			return t
		}
	}
	return nil
}

// MarkedTasks returns the marked, incomplete tasks in list order.
func (l *List) MarkedTasks() []*Task {
	var out []*Task
	for _, t := range l.entries {
		if t.marked && t.pending() {
			out = append(out, t)
		}
	}
	return out
}

// BottomMarked returns the marked incomplete task with the greatest index.
func (l *List) BottomMarked() (*Task, error) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		t := l.entries[i]
		if t.marked && t.pending() {
			return t, nil
		}
	}
	return nil, ErrEmptyMarkedSet
}

// IndexOf returns the position of t in the list. Membership is by identity.
func (l *List) IndexOf(t *Task) (int, error) {
	if t != nil {
		for i, e := range l.entries {
			if e == t {
				return i, nil
			}
		}
	}
	return 0, ErrTaskNotFound
}

// IsEndOfList reports whether no incomplete task comes after t.
func (l *List) IsEndOfList(t *Task) (bool, error) {
	idx, err := l.IndexOf(t)
	if err != nil {
		return false, err
	}
	for i := len(l.entries) - 1; i > idx; i-- {
		if l.entries[i].pending() {
			return false, nil
		}
	}
	return true, nil
}

// AddToCompleted records t as completed and completes it.
// A task that is already completed is not recorded again.
func (l *List) AddToCompleted(t *Task) error {
	if _, err := l.IndexOf(t); err != nil {
		return err
	}
	if t.completed {
		return nil
	}
	l.completedIDs = append(l.completedIDs, t.id)
	t.Complete()
	return nil
}

// CompletedIDs returns the completed task ids in completion order.
func (l *List) CompletedIDs() []string {
	out := make([]string, len(l.completedIDs))
	copy(out, l.completedIDs)
	return out
}

// LastCompleted returns the most recently completed task, or nil.
func (l *List) LastCompleted() *Task {
	if len(l.completedIDs) == 0 {
		return nil
	}
	return l.find(l.completedIDs[len(l.completedIDs)-1])
}

// Benchmark returns the current benchmark task, or nil.
func (l *List) Benchmark() *Task {
	return l.role(l.benchmark)
}

// SetBenchmark sets the benchmark role. A nil task clears it.
func (l *List) SetBenchmark(t *Task) error {
	idx, err := l.roleIndex(t)
	if err != nil {
		return fmt.Errorf("set benchmark: %w", err)
	}
	l.benchmark = idx
	return nil
}

// Active returns the task being worked on, or nil.
func (l *List) Active() *Task {
	return l.role(l.active)
}

// SetActive sets the active role. A nil task clears it.
func (l *List) SetActive(t *Task) error {
	idx, err := l.roleIndex(t)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	l.active = idx
	return nil
}

// StateOf resolves the display state of t.
func (l *List) StateOf(t *Task) State {
	switch {
	case t.deleted:
		return StateDeleted
	case t.completed:
		return StateCompleted
	case t.marked:
		return StateMarked
	case l.active != noRole && l.entries[l.active] == t:
		return StateActive
	default:
		return StateDefault
	}
}

// Stats returns task counts for the list.
func (l *List) Stats() Stats {
	s := Stats{Total: len(l.entries)}
	for _, t := range l.entries {
		switch {
		case t.deleted:
			s.Deleted++
		case t.completed:
			s.Completed++
		default:
			s.Remaining++
			if t.marked {
				s.Marked++
			}
		}
	}
	return s
}

func (l *List) role(idx int) *Task {
	if idx == noRole {
		return nil
	}
	return l.entries[idx]
}

func (l *List) roleIndex(t *Task) (int, error) {
	if t == nil {
		return noRole, nil
	}
	return l.IndexOf(t)
}

func (l *List) find(id string) *Task {
	for _, t := range l.entries {
		if t.id == id {
			return t
		}
	}
	return nil
}
