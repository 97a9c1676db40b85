package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	ComparePrompt = "compare.txt"
	DonePrompt    = "done.txt"
	HelpPrompt    = "help.txt"
)

//go:embed defaults/*.txt
var bundled embed.FS

// Bundled returns the embedded default for a prompt asset.
func Bundled(name string) (string, error) {
	data, err := bundled.ReadFile("defaults/" + name)
	if err != nil {
		return "", fmt.Errorf("read bundled prompt %q: %w", name, err)
	}
	return string(data), nil
}

// Store loads prompt assets, preferring files in an override directory.
type Store struct {
	dir string
}

// NewStore creates a prompt store. An empty dir uses only the bundled prompts.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the override directory, which may be empty.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads a prompt asset as a string.
func (s *Store) Load(name string) (string, error) {
	if name == "" {
		return "", errors.New("prompt name is empty")
	}
	if s != nil && s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt %q: %w", name, err)
		}
	}
	return Bundled(name)
}

// Data holds prompt template variables.
type Data struct {
	Kind      string
	Candidate string
	Benchmark string
	Active    string
}

// NewData builds template data for a question.
func NewData(q Question) Data {
	return Data{
		Kind:      string(q.Kind),
		Candidate: q.Candidate,
		Benchmark: q.Benchmark,
		Active:    q.Active,
	}
}

// Renderer renders prompt templates from a store.
type Renderer struct {
	store *Store
}

// NewRenderer creates a renderer backed by store.
func NewRenderer(store *Store) *Renderer {
	return &Renderer{store: store}
}

// Question renders the text of q without trailing newlines.
func (r *Renderer) Question(q Question) (string, error) {
	name := ComparePrompt
	if q.Kind == KindDone {
		name = DonePrompt
	}
	out, err := r.Render(name, NewData(q))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\r\n"), nil
}

// HelpText renders the help text for a question kind.
func (r *Renderer) HelpText(kind Kind) (string, error) {
	return r.Render(HelpPrompt, Data{Kind: string(kind)})
}

// Render renders a named prompt with data.
func (r *Renderer) Render(name string, data Data) (string, error) {
	if r == nil || r.store == nil {
		return "", errors.New("prompt renderer is not initialized")
	}
	if err := validateRequired(name, data); err != nil {
		return "", err
	}
	raw, err := r.store.Load(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return buf.String(), nil
}

type requiredVar int

const (
	reqKind requiredVar = iota
)

// Task contents may be empty. Only the help prompt requires a variable.
var requiredByPrompt = map[string][]requiredVar{
	ComparePrompt: nil,
	DonePrompt:    nil,
	HelpPrompt:    {reqKind},
}

func validateRequired(name string, data Data) error {
	reqs, ok := requiredByPrompt[name]
	if !ok {
		return fmt.Errorf("unknown prompt %q", name)
	}
	for _, req := range reqs {
		if req == reqKind && data.Kind == "" {
			return fmt.Errorf("prompt %q requires Kind", name)
		}
	}
	return nil
}
