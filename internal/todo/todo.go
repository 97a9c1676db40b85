package todo

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/fvp-go/internal/task"
)

// ErrNoTasks is returned when a task file holds no usable tasks.
var ErrNoTasks = errors.New("task file has no tasks")

//go:embed schema.json
var schemaJSON string

var taskSchema = jsonschema.MustCompileString("fvp-tasks.schema.json", schemaJSON)

// maxLineSize bounds a single line of a plain text task file.
const maxLineSize = 1024 * 1024

// Format is the encoding of a task file.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatText
}

// Item is one task in a task file. In JSON it is either a bare string or an
// object with content and deleted fields.
type Item struct {
	Content string `json:"content"`
	Deleted bool   `json:"deleted,omitempty"`
}

// UnmarshalJSON accepts both item forms.
func (i *Item) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = Item{Content: s}
		return nil
	}

	type object Item
	var o object
	if err := json.Unmarshal(data, &o); err != nil {
		return err
	}
	*i = Item(o)
	return nil
}

// File is a parsed task file.
type File struct {
	Path          string `json:"-"`
	Format        Format `json:"-"`
	SchemaVersion int    `json:"schema_version,omitempty"`
	Tasks         []Item `json:"tasks"`

	// doc is the decoded JSON document, kept for schema validation.
	doc any
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool
}

// Load reads and parses the task file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Parse(path, data)
}

// Parse parses data as a task file. The format is chosen from the
// extension of path, which is otherwise only recorded on the result.
func Parse(path string, data []byte) (*File, error) {
	switch FormatOf(path) {
	case FormatJSON:
		return parseJSON(path, data)
	default:
		return parseText(path, data)
	}
}

func parseText(path string, data []byte) (*File, error) {
	f := &File{Path: path, Format: FormatText, Tasks: []Item{}}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		f.Tasks = append(f.Tasks, Item{Content: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan task file: %w", err)
	}
	return f, nil
}

func parseJSON(path string, data []byte) (*File, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if errs := validateDocument(doc); len(errs) > 0 {
		return nil, fmt.Errorf("validate task file: %w", errors.Join(errs...))
	}

	f := &File{Path: path, Format: FormatJSON}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("decode task file: %w", err)
	}
	f.doc = doc
	return f, nil
}

// Entries returns the tasks as list entries, in file order.
func (f *File) Entries() []task.Entry {
	entries := make([]task.Entry, 0, len(f.Tasks))
	for _, item := range f.Tasks {
		entries = append(entries, task.Entry{
			Content: strings.TrimSpace(item.Content),
			Deleted: item.Deleted,
		})
	}
	return entries
}

// List builds a task list from the file. It returns ErrNoTasks when every
// task is deleted or the file is empty.
func (f *File) List() (*task.List, error) {
	entries := f.Entries()
	live := 0
	for _, e := range entries {
		if !e.Deleted {
			live++
		}
	}
	if live == 0 {
		return nil, ErrNoTasks
	}
	return task.NewListFromEntries(entries), nil
}

// Validate checks the file and reports problems that do not prevent loading.
func (f *File) Validate() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if f.Format == FormatJSON && f.doc != nil {
		result.UsedSchema = true
		if errs := validateDocument(f.doc); len(errs) > 0 {
			result.Valid = false
			result.Errors = append(result.Errors, errs...)
		}
	}

	if len(f.Tasks) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Path: "tasks", Err: ErrNoTasks})
		return result
	}

	seen := make(map[string]int, len(f.Tasks))
	deleted := 0
	for i, item := range f.Tasks {
		content := strings.TrimSpace(item.Content)
		if item.Deleted {
			deleted++
			continue
		}
		if first, ok := seen[content]; ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("tasks[%d]: duplicate of tasks[%d] %q", i, first, content))
			continue
		}
		seen[content] = i
	}
	if deleted == len(f.Tasks) {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Path: "tasks", Err: fmt.Errorf("every task is deleted: %w", ErrNoTasks)})
	}

	return result
}

func validateDocument(doc any) []error {
	err := taskSchema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/tasks/1/content" into "tasks[1].content".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
