package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Event types written by the evaluation loop.
const (
	EventSessionStart = "session_start"
	EventBenchmark    = "benchmark"
	EventCompare      = "compare"
	EventMark         = "mark"
	EventActive       = "active"
	EventComplete     = "complete"
	EventQuit         = "quit"
	EventSessionDone  = "session_done"
	EventError        = "error"
)

// Event is a single entry in a session log.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// TaskID and Content describe the task the event is about.
	TaskID  string `json:"task_id,omitempty"`
	Content string `json:"content,omitempty"`

	// Benchmark is the benchmark content at the time of a comparison.
	Benchmark string `json:"benchmark,omitempty"`

	// Decision is the normalized answer for compare events.
	Decision string `json:"decision,omitempty"`

	// Remaining is the number of incomplete tasks after the event.
	Remaining int `json:"remaining"`

	Message string `json:"message,omitempty"`
}

// EventWriter writes session events.
type EventWriter interface {
	Write(event Event) error
}

// Discard is an EventWriter that drops every event.
var Discard EventWriter = discardWriter{}

type discardWriter struct{}

func (discardWriter) Write(Event) error { return nil }

// JSONEventWriter writes events as JSON lines.
type JSONEventWriter struct {
	w io.Writer
}

// NewJSONEventWriter creates an event writer producing one JSON object per line.
func NewJSONEventWriter(w io.Writer) *JSONEventWriter {
	return &JSONEventWriter{w: w}
}

// Write writes a log event to the underlying writer.
func (j *JSONEventWriter) Write(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}
	data = append(data, '\n')
	_, err = j.w.Write(data)
	return err
}

// ConsoleEventWriter mirrors events to a charmbracelet/log logger.
type ConsoleEventWriter struct {
	logger *log.Logger
}

// NewConsoleEventWriter creates an event writer logging through logger.
func NewConsoleEventWriter(logger *log.Logger) *ConsoleEventWriter {
	return &ConsoleEventWriter{logger: logger}
}

// Write logs the event. Errors go out at error level, session boundaries
// at info, and everything else at debug.
func (c *ConsoleEventWriter) Write(event Event) error {
	msg := formatMessage(event)
	fields := extractFields(event)

	switch event.Type {
	case EventError:
		c.logger.Error(msg, fields...)
	case EventSessionStart, EventSessionDone, EventQuit:
		c.logger.Info(msg, fields...)
	default:
		c.logger.Debug(msg, fields...)
	}
	return nil
}

func extractFields(event Event) []any {
	var fields []any
	if event.TaskID != "" {
		fields = append(fields, "task_id", event.TaskID)
	}
	if event.Content != "" {
		fields = append(fields, "task", event.Content)
	}
	if event.Benchmark != "" {
		fields = append(fields, "benchmark", event.Benchmark)
	}
	if event.Decision != "" {
		fields = append(fields, "decision", event.Decision)
	}
	fields = append(fields, "remaining", event.Remaining)
	return fields
}

func formatMessage(event Event) string {
	if event.Message != "" {
		return event.Message
	}
	switch event.Type {
	case EventSessionStart:
		return "Session started"
	case EventBenchmark:
		return "Benchmark set"
	case EventCompare:
		return "Compared"
	case EventMark:
		return "Task marked"
	case EventActive:
		return "Working on task"
	case EventComplete:
		return "Task completed"
	case EventQuit:
		return "Session quit"
	case EventSessionDone:
		return "All tasks complete"
	case EventError:
		return "Error"
	default:
		return event.Type
	}
}

// MultiEventWriter writes to multiple event writers.
type MultiEventWriter struct {
	writers []EventWriter
}

// NewMultiEventWriter creates a writer fanning out to writers. Nil entries are skipped.
func NewMultiEventWriter(writers ...EventWriter) *MultiEventWriter {
	m := &MultiEventWriter{}
	for _, w := range writers {
		if w != nil {
			m.writers = append(m.writers, w)
		}
	}
	return m
}

// Write writes the event to all underlying writers.
func (m *MultiEventWriter) Write(event Event) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Write(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
