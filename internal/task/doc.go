// Package task holds the FVP task model: individual tasks with one-way status
// flags and the ordered list that tracks the benchmark and active roles.
//
// # Ordering
//
// Entries keep their input order for the lifetime of a List. Order defines
// "earlier" and "later" for every comparison the evaluation loop makes, and
// "bottom" always means the greatest index. Nothing is ever removed; a task
// discarded by the user carries the deleted flag instead.
//
// # Roles
//
// The benchmark and active roles are stored as entry indices rather than
// pointers, so a List can be copied or snapshotted without dangling roles.
// A role set to nil is stored as -1.
//
// # Deleted tasks
//
// Deleted tasks are excluded from every query the algorithm uses
// (Incomplete, MarkedTasks, BottomMarked, IsEndOfList). They still count
// toward EntryCount and are still rendered.
//
// # Display state
//
// StateOf resolves the independent flags into exactly one display state in the
// priority order:
//
//	Deleted > Completed > Marked > Active > Default
package task
