package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/fvp-go/internal/loop"
	"github.com/nibzard/fvp-go/internal/prompts"
	"github.com/nibzard/fvp-go/internal/task"
)

// TUIOptions configures RunTUI.
type TUIOptions struct {
	// Title is shown above the list, usually the task file path.
	Title string
	// Prompts renders questions and help text. Required.
	Prompts *prompts.Renderer
	// LoopOptions are passed to loop.New.
	LoopOptions []loop.Option
	// ProgramOptions are appended to the default bubbletea options.
	ProgramOptions []tea.ProgramOption
}

// RunTUI runs the loop over list behind a full-screen terminal interface.
// The loop runs on its own goroutine and is the only code touching list;
// the interface only sees snapshots.
func RunTUI(ctx context.Context, list *task.List, opts TUIOptions) (*loop.Loop, error) {
	if opts.Prompts == nil {
		return nil, errors.New("tui requires a prompt renderer")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	answers := make(chan prompts.Decision, 1)
	model := newTUIModel(opts.Title, answers)
	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	program := tea.NewProgram(model, programOpts...)

	bridge := newTUIBridge(list, opts.Prompts, program.Send, answers)
	l := loop.New(list, bridge, bridge, opts.LoopOptions...)

	done := make(chan error, 1)
	go func() {
		err := l.Run(ctx)
		done <- err
		program.Send(loopDoneMsg{err: err})
	}()

	finalModel, runErr := program.Run()
	cancel()
	loopErr := <-done

	m, _ := finalModel.(*tuiModel)
	return l, sessionError(runErr, loopErr, m != nil && m.quitRequested)
}

// sessionError picks the error RunTUI reports. A failed program wins over
// the cancellation it causes in the loop, and a user quit that canceled the
// loop is reported as loop.ErrQuit.
func sessionError(runErr, loopErr error, quitRequested bool) error {
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", runErr)
	}
	if quitRequested && errors.Is(loopErr, context.Canceled) {
		return loop.ErrQuit
	}
	return loopErr
}

type tuiRow struct {
	content string
	state   task.State
}

func snapshotRows(l *task.List) []tuiRow {
	entries := l.Entries()
	rows := make([]tuiRow, len(entries))
	for i, t := range entries {
		rows[i] = tuiRow{content: t.Content(), state: l.StateOf(t)}
	}
	return rows
}

type listMsg struct {
	rows  []tuiRow
	stats task.Stats
}

type questionMsg struct {
	kind  prompts.Kind
	text  string
	rows  []tuiRow
	stats task.Stats
}

type helpMsg struct {
	text string
}

type noticeMsg struct {
	text string
	help string
}

type loopDoneMsg struct {
	err error
}

// tuiBridge is the loop's prompter and renderer. Its methods run on the
// loop goroutine and hand snapshots to the program.
type tuiBridge struct {
	list    *task.List
	prompts *prompts.Renderer
	send    func(tea.Msg)
	answers <-chan prompts.Decision
}

func newTUIBridge(list *task.List, r *prompts.Renderer, send func(tea.Msg), answers <-chan prompts.Decision) *tuiBridge {
	return &tuiBridge{list: list, prompts: r, send: send, answers: answers}
}

func (b *tuiBridge) Ask(ctx context.Context, q prompts.Question) (prompts.Decision, error) {
	text, err := b.prompts.Question(q)
	if err != nil {
		return prompts.Unrecognized, err
	}
	b.send(questionMsg{kind: q.Kind, text: text, rows: snapshotRows(b.list), stats: b.list.Stats()})

	select {
	case d := <-b.answers:
		return d, nil
	case <-ctx.Done():
		return prompts.Unrecognized, ctx.Err()
	}
}

func (b *tuiBridge) Render(l *task.List) error {
	b.send(listMsg{rows: snapshotRows(l), stats: l.Stats()})
	return nil
}

// EraseLine clears the last notice; the view is redrawn on every message.
func (b *tuiBridge) EraseLine() error {
	b.send(noticeMsg{})
	return nil
}

func (b *tuiBridge) Help(kind prompts.Kind) error {
	text, err := b.prompts.HelpText(kind)
	if err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	b.send(helpMsg{text: text})
	return nil
}

func (b *tuiBridge) Invalid(kind prompts.Kind) error {
	text, err := b.prompts.HelpText(kind)
	if err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	b.send(noticeMsg{text: "Invalid response", help: text})
	return nil
}

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tuiTaskStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	tuiBoldStyle   = tuiTaskStyle.Bold(true)
	tuiDimStyle    = tuiTaskStyle.Faint(true)
	tuiStrikeStyle = tuiDimStyle.Strikethrough(true)
	tuiNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	tuiFooterStyle = lipgloss.NewStyle().Faint(true)
)

type tuiModel struct {
	title         string
	answers       chan<- prompts.Decision
	rows          []tuiRow
	stats         task.Stats
	question      *questionMsg
	notice        string
	help          string
	finished      bool
	loopErr       error
	quitRequested bool
}

func newTUIModel(title string, answers chan<- prompts.Decision) *tuiModel {
	return &tuiModel{title: title, answers: answers}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case listMsg:
		m.rows, m.stats = msg.rows, msg.stats
	case questionMsg:
		m.rows, m.stats = msg.rows, msg.stats
		m.question = &msg
	case helpMsg:
		m.help = msg.text
	case noticeMsg:
		m.notice, m.help = msg.text, msg.help
	case loopDoneMsg:
		m.finished = true
		m.question = nil
		m.loopErr = msg.err
		if msg.err != nil {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.finished {
		return m, tea.Quit
	}

	if m.question == nil {
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			m.quitRequested = true
			return m, tea.Quit
		}
		return m, nil
	}

	answer, ok := keyAnswer(m.question.kind, msg)
	if !ok {
		return m, nil
	}
	m.answer(prompts.Normalize(m.question.kind, answer))
	return m, nil
}

// answer hands d to the waiting loop. The channel has room for exactly one
// decision, and a question is only pending while the loop waits for it.
func (m *tuiModel) answer(d prompts.Decision) {
	select {
	case m.answers <- d:
		m.question = nil
		m.notice, m.help = "", ""
	default:
	}
}

// keyAnswer maps a key press to the text it stands for. Keys that carry no
// answer are ignored.
func keyAnswer(kind prompts.Kind, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return "quit", true
	case tea.KeyEnter:
		if kind == prompts.KindDone {
			return "done", true
		}
		return "", true
	case tea.KeyRunes:
		return string(msg.Runes), true
	default:
		return "", false
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder

	title := "FVP"
	if m.title != "" {
		title += "  " + m.title
	}
	b.WriteString(tuiTitleStyle.Render(title) + "\n\n")

	for _, row := range m.rows {
		b.WriteString(renderTUIRow(row) + "\n")
	}
	fmt.Fprintf(&b, "\n%d of %d tasks remaining\n\n", m.stats.Remaining, m.stats.Total-m.stats.Deleted)

	switch {
	case m.finished && m.loopErr == nil:
		b.WriteString("All tasks complete.\n\n")
		b.WriteString(tuiFooterStyle.Render("Press any key to exit"))
		return b.String()
	case m.question != nil:
		b.WriteString(m.question.text + "\n\n")
	}

	if m.notice != "" {
		b.WriteString(tuiNoticeStyle.Render(m.notice) + "\n")
	}
	if m.help != "" {
		b.WriteString(strings.TrimRight(m.help, "\n") + "\n\n")
	}
	b.WriteString(tuiFooterStyle.Render(footerText(m.question)))
	return b.String()
}

func renderTUIRow(row tuiRow) string {
	symbol := Symbol(row.state)
	switch row.state {
	case task.StateDeleted:
		return tuiTaskStyle.Render(symbol) + tuiStrikeStyle.Render(row.content)
	case task.StateCompleted:
		return tuiTaskStyle.Render(symbol) + tuiDimStyle.Render(row.content)
	case task.StateMarked:
		return tuiBoldStyle.Render(symbol) + tuiTaskStyle.Render(row.content)
	case task.StateActive:
		return tuiTaskStyle.Render(symbol) + tuiBoldStyle.Render(row.content)
	default:
		return tuiTaskStyle.Render(symbol + row.content)
	}
}

func footerText(q *questionMsg) string {
	if q == nil {
		return "q quit"
	}
	if q.kind == prompts.KindDone {
		return "d/enter done | n not yet | l list | h help | q quit"
	}
	return "y yes | n no | l list | h help | q quit"
}
