package todo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/fvp-go/internal/task"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func contents(entries []task.Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Content
	}
	return strings.Join(parts, ",")
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"tasks.json", FormatJSON},
		{"TASKS.JSON", FormatJSON},
		{"tasks.txt", FormatText},
		{"tasks", FormatText},
		{"tasks.json.txt", FormatText},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.path); got != tt.want {
			t.Errorf("FormatOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadText(t *testing.T) {
	path := writeFile(t, "tasks.txt", "Wake\r\n  Eat  \n\n   \nDrink\nRun\nSleep")

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Format != FormatText {
		t.Errorf("Format = %q, want text", f.Format)
	}
	if f.Path != path {
		t.Errorf("Path = %q, want %q", f.Path, path)
	}
	if got := contents(f.Entries()); got != "Wake,Eat,Drink,Run,Sleep" {
		t.Errorf("Entries() = %s", got)
	}
	for _, e := range f.Entries() {
		if e.Deleted {
			t.Errorf("text entry %q marked deleted", e.Content)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "tasks.json", `{
  "schema_version": 1,
  "tasks": [
    "Wake",
    {"content": " Eat "},
    {"content": "Drink", "deleted": true},
    {"content": "Run", "deleted": false}
  ]
}`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Format != FormatJSON {
		t.Errorf("Format = %q, want json", f.Format)
	}
	entries := f.Entries()
	if got := contents(entries); got != "Wake,Eat,Drink,Run" {
		t.Errorf("Entries() = %s", got)
	}
	wantDeleted := []bool{false, false, true, false}
	for i, e := range entries {
		if e.Deleted != wantDeleted[i] {
			t.Errorf("entries[%d].Deleted = %v, want %v", i, e.Deleted, wantDeleted[i])
		}
	}

	result := f.Validate()
	if !result.Valid || !result.UsedSchema {
		t.Errorf("Validate() = %+v, want valid with schema", result)
	}
}

func TestLoadJSONSchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantPath string
	}{
		{"missing tasks", `{}`, ""},
		{"tasks not array", `{"tasks": "Wake"}`, "tasks"},
		{"blank string", `{"tasks": ["Wake", "   "]}`, "tasks[1]"},
		{"missing content", `{"tasks": [{"deleted": true}]}`, "tasks[0]"},
		{"unknown field", `{"tasks": [{"content": "Wake", "priority": 1}]}`, "tasks[0]"},
		{"wrong deleted type", `{"tasks": [{"content": "Wake", "deleted": "yes"}]}`, "tasks[0]"},
		{"bad schema version", `{"schema_version": 2, "tasks": ["Wake"]}`, "schema_version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("tasks.json", []byte(tt.content))
			if err == nil {
				t.Fatal("Parse() error = nil, want validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %v is not a *ValidationError", err)
			}
			if !strings.HasPrefix(ve.Path, tt.wantPath) {
				t.Errorf("Path = %q, want prefix %q", ve.Path, tt.wantPath)
			}
		})
	}
}

func TestLoadJSONSyntaxError(t *testing.T) {
	_, err := Parse("tasks.json", []byte(`{"tasks": [`))
	if err == nil || !strings.Contains(err.Error(), "parse task file") {
		t.Fatalf("Parse() error = %v, want parse error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.txt"))
	if err == nil {
		t.Fatal("Load() error = nil for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap os.ErrNotExist", err)
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		wantErr error
		want    int
	}{
		{"text", "tasks.txt", "A\nB\nC\n", nil, 3},
		{"empty text", "tasks.txt", "\n \n", ErrNoTasks, 0},
		{"empty json", "tasks.json", `{"tasks": []}`, ErrNoTasks, 0},
		{"all deleted", "tasks.json", `{"tasks": [{"content": "A", "deleted": true}]}`, ErrNoTasks, 0},
		{"some deleted", "tasks.json", `{"tasks": [{"content": "A", "deleted": true}, "B"]}`, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.path, []byte(tt.content))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			list, err := f.List()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("List() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if list.EntryCount() != tt.want {
				t.Errorf("EntryCount() = %d, want %d", list.EntryCount(), tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	f, err := Parse("tasks.txt", []byte("Wake\nEat\nWake\n"))
	if err != nil {
		t.Fatal(err)
	}
	result := f.Validate()
	if !result.Valid {
		t.Errorf("Validate() errors = %v", result.Errors)
	}
	if result.UsedSchema {
		t.Error("text file reported schema validation")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "duplicate") {
		t.Errorf("Warnings = %v, want one duplicate warning", result.Warnings)
	}

	empty, err := Parse("tasks.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	result = empty.Validate()
	if result.Valid {
		t.Error("empty file reported valid")
	}
	if len(result.Errors) == 0 || !errors.Is(result.Errors[0], ErrNoTasks) {
		t.Errorf("Errors = %v, want ErrNoTasks", result.Errors)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/tasks", "tasks"},
		{"/tasks/1", "tasks[1]"},
		{"/tasks/1/content", "tasks[1].content"},
		{"#/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := jsonPointerToPath(tt.in); got != tt.want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Path: "tasks[0]", Err: ErrNoTasks}
	if err.Error() != "tasks[0]: task file has no tasks" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNoTasks) {
		t.Error("Unwrap did not expose underlying error")
	}
	bare := &ValidationError{Err: ErrNoTasks}
	if bare.Error() != ErrNoTasks.Error() {
		t.Errorf("Error() = %q without path", bare.Error())
	}
}
