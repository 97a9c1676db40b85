package task

import (
	"errors"
	"fmt"
	"testing"
)

// sequentialIDs returns an id source producing "T1", "T2", ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("T%d", n)
	}
}

func newTestList(contents ...string) *List {
	entries := make([]Entry, len(contents))
	for i, c := range contents {
		entries[i] = Entry{Content: c}
	}
	return NewListWithIDs(entries, sequentialIDs())
}

func contentsOf(tasks []*Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Content()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTaskFlagsAreIdempotent(t *testing.T) {
	task := New("Write report")
	if task.Marked() || task.Completed() || task.Deleted() {
		t.Fatalf("new task has flags set: marked=%v completed=%v deleted=%v", task.Marked(), task.Completed(), task.Deleted())
	}

	task.Mark()
	task.Mark()
	if !task.Marked() {
		t.Error("Mark() did not set marked")
	}
	if task.Completed() {
		t.Error("Mark() set completed")
	}

	task.Complete()
	task.Complete()
	if !task.Completed() || !task.Marked() {
		t.Errorf("after Complete(): marked=%v completed=%v, want both true", task.Marked(), task.Completed())
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	l := NewList([]string{"a", "a", "a"})
	seen := map[string]bool{}
	for _, task := range l.Entries() {
		if task.ID() == "" {
			t.Fatal("task has empty id")
		}
		if seen[task.ID()] {
			t.Fatalf("duplicate id %s", task.ID())
		}
		seen[task.ID()] = true
	}
}

func TestNewListPreservesOrder(t *testing.T) {
	l := NewList([]string{"Wake", "Eat", "Drink"})
	if got := contentsOf(l.Entries()); !equalStrings(got, []string{"Wake", "Eat", "Drink"}) {
		t.Errorf("Entries() = %v", got)
	}
	if l.EntryCount() != 3 {
		t.Errorf("EntryCount() = %d, want 3", l.EntryCount())
	}
	if l.Benchmark() != nil || l.Active() != nil {
		t.Error("new list has roles assigned")
	}
}

func TestIncomplete(t *testing.T) {
	l := NewListWithIDs([]Entry{
		{Content: "A"},
		{Content: "B", Deleted: true},
		{Content: "C"},
		{Content: "D"},
	}, sequentialIDs())
	entries := l.Entries()
	if err := l.AddToCompleted(entries[2]); err != nil {
		t.Fatal(err)
	}

	if got := contentsOf(l.Incomplete()); !equalStrings(got, []string{"A", "D"}) {
		t.Errorf("Incomplete() = %v, want [A D]", got)
	}
	if l.IncompleteCount() != 2 {
		t.Errorf("IncompleteCount() = %d, want 2", l.IncompleteCount())
	}
	if l.EntryCount() != 4 {
		t.Errorf("EntryCount() = %d, want 4", l.EntryCount())
	}
	if first := l.FirstIncomplete(); first != entries[0] {
		t.Errorf("FirstIncomplete() = %v, want A", first)
	}
}

func TestMarkedTasksAndBottomMarked(t *testing.T) {
	l := newTestList("A", "B", "C", "D")
	entries := l.Entries()

	if _, err := l.BottomMarked(); !errors.Is(err, ErrEmptyMarkedSet) {
		t.Fatalf("BottomMarked() on empty set error = %v, want ErrEmptyMarkedSet", err)
	}

	entries[0].Mark()
	entries[2].Mark()
	if got := contentsOf(l.MarkedTasks()); !equalStrings(got, []string{"A", "C"}) {
		t.Errorf("MarkedTasks() = %v, want [A C]", got)
	}
	bottom, err := l.BottomMarked()
	if err != nil {
		t.Fatal(err)
	}
	if bottom != entries[2] {
		t.Errorf("BottomMarked() = %s, want C", bottom.Content())
	}

	if err := l.AddToCompleted(entries[2]); err != nil {
		t.Fatal(err)
	}
	bottom, err = l.BottomMarked()
	if err != nil {
		t.Fatal(err)
	}
	if bottom != entries[0] {
		t.Errorf("BottomMarked() after completing C = %s, want A", bottom.Content())
	}
}

func TestIndexOf(t *testing.T) {
	l := newTestList("A", "B", "C")
	for i, task := range l.Entries() {
		got, err := l.IndexOf(task)
		if err != nil {
			t.Fatalf("IndexOf(%s) error = %v", task.Content(), err)
		}
		if got != i {
			t.Errorf("IndexOf(%s) = %d, want %d", task.Content(), got, i)
		}
	}

	// Same content, different identity.
	stranger := New("A")
	if _, err := l.IndexOf(stranger); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("IndexOf(foreign) error = %v, want ErrTaskNotFound", err)
	}
	if _, err := l.IndexOf(nil); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("IndexOf(nil) error = %v, want ErrTaskNotFound", err)
	}
}

func TestIsEndOfList(t *testing.T) {
	l := newTestList("A", "B", "C", "D")
	entries := l.Entries()

	tests := []struct {
		name string
		task *Task
		want bool
	}{
		{"first", entries[0], false},
		{"third with D remaining", entries[2], false},
		{"last", entries[3], true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.IsEndOfList(tt.task)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("IsEndOfList(%s) = %v, want %v", tt.task.Content(), got, tt.want)
			}
		})
	}

	t.Run("completed tail", func(t *testing.T) {
		if err := l.AddToCompleted(entries[3]); err != nil {
			t.Fatal(err)
		}
		got, err := l.IsEndOfList(entries[2])
		if err != nil {
			t.Fatal(err)
		}
		if !got {
			t.Error("IsEndOfList(C) = false after D completed, want true")
		}
	})

	t.Run("foreign task", func(t *testing.T) {
		if _, err := l.IsEndOfList(New("X")); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestIsEndOfListIgnoresDeletedTail(t *testing.T) {
	l := NewListWithIDs([]Entry{{Content: "A"}, {Content: "B"}, {Content: "C", Deleted: true}}, sequentialIDs())
	got, err := l.IsEndOfList(l.Entries()[1])
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("IsEndOfList(B) = false with only a deleted task after it, want true")
	}
}

func TestAddToCompleted(t *testing.T) {
	l := newTestList("A", "B", "C")
	entries := l.Entries()

	if l.LastCompleted() != nil {
		t.Error("LastCompleted() on fresh list is not nil")
	}
	for _, i := range []int{2, 0} {
		if err := l.AddToCompleted(entries[i]); err != nil {
			t.Fatal(err)
		}
	}
	// Completing twice records once.
	if err := l.AddToCompleted(entries[0]); err != nil {
		t.Fatal(err)
	}

	if got := l.CompletedIDs(); !equalStrings(got, []string{"T3", "T1"}) {
		t.Errorf("CompletedIDs() = %v, want [T3 T1]", got)
	}
	if !entries[2].Completed() || !entries[0].Completed() || entries[1].Completed() {
		t.Error("completed flags do not match AddToCompleted calls")
	}
	if last := l.LastCompleted(); last != entries[0] {
		t.Errorf("LastCompleted() = %v, want A", last)
	}
	if err := l.AddToCompleted(New("X")); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("AddToCompleted(foreign) error = %v, want ErrTaskNotFound", err)
	}
}

func TestRoles(t *testing.T) {
	l := newTestList("A", "B")
	entries := l.Entries()

	if err := l.SetBenchmark(entries[1]); err != nil {
		t.Fatal(err)
	}
	if err := l.SetActive(entries[0]); err != nil {
		t.Fatal(err)
	}
	if l.Benchmark() != entries[1] || l.Active() != entries[0] {
		t.Errorf("roles = (%v, %v), want (B, A)", l.Benchmark(), l.Active())
	}

	if err := l.SetBenchmark(nil); err != nil {
		t.Fatal(err)
	}
	if err := l.SetActive(nil); err != nil {
		t.Fatal(err)
	}
	if l.Benchmark() != nil || l.Active() != nil {
		t.Error("roles not cleared by nil")
	}

	if err := l.SetBenchmark(New("X")); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("SetBenchmark(foreign) error = %v, want ErrTaskNotFound", err)
	}
	if err := l.SetActive(New("X")); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("SetActive(foreign) error = %v, want ErrTaskNotFound", err)
	}
}

func TestStateOfPriority(t *testing.T) {
	l := NewListWithIDs([]Entry{
		{Content: "plain"},
		{Content: "marked"},
		{Content: "completed"},
		{Content: "deleted", Deleted: true},
		{Content: "active"},
	}, sequentialIDs())
	e := l.Entries()
	e[1].Mark()
	e[2].Mark()
	if err := l.AddToCompleted(e[2]); err != nil {
		t.Fatal(err)
	}
	e[3].Mark()
	if err := l.SetActive(e[4]); err != nil {
		t.Fatal(err)
	}

	want := []State{StateDefault, StateMarked, StateCompleted, StateDeleted, StateActive}
	for i, task := range e {
		if got := l.StateOf(task); got != want[i] {
			t.Errorf("StateOf(%s) = %s, want %s", task.Content(), got, want[i])
		}
	}

	// A marked active task displays as marked.
	e[4].Mark()
	if got := l.StateOf(e[4]); got != StateMarked {
		t.Errorf("StateOf(marked active) = %s, want marked", got)
	}
}

func TestStats(t *testing.T) {
	l := NewListWithIDs([]Entry{{Content: "A"}, {Content: "B"}, {Content: "C", Deleted: true}, {Content: "D"}}, sequentialIDs())
	e := l.Entries()
	e[0].Mark()
	e[1].Mark()
	if err := l.AddToCompleted(e[1]); err != nil {
		t.Fatal(err)
	}

	got := l.Stats()
	want := Stats{Total: 4, Completed: 1, Marked: 1, Deleted: 1, Remaining: 2}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
