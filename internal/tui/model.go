// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

// Package tui renders the progress and outcome of an interactive run.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
)

// Step statuses reported by the runner.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

const activityTimeout = 2 * time.Minute

var errStalled = errors.New("no step activity for " + activityTimeout.String())

var (
	accent = lipgloss.Color("#58B1E4")
	muted  = lipgloss.Color("#7A7A7A")

	headerStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true).MarginBottom(1)
	pendingStyle = lipgloss.NewStyle().Foreground(muted)
	activeStyle  = lipgloss.NewStyle().Foreground(accent)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D29922"))
	detailStyle  = lipgloss.NewStyle().Foreground(muted).Italic(true)
	storyStyle   = lipgloss.NewStyle().Bold(true)
)

// StepMsg reports a step transition. Detail is the skip reason, the error
// or the last warning raised by the step.
type StepMsg struct {
	Step   string
	Status string
	Detail string
}

type runDoneMsg struct{}

type stalledMsg struct{}

type stepLine struct {
	name   string
	status string
	detail string
}

// Model shows the steps of one pull request run and, once the run is
// over, the story outcome.
type Model struct {
	title   string
	spinner spinner.Model
	lines   []stepLine
	index   map[string]int
	updates <-chan StepMsg
	result  *pipeline.Result
	done    bool
	aborted bool
	err     error
}

// NewModel creates the model. result is read only after updates is closed.
func NewModel(title string, steps []string, updates <-chan StepMsg, result *pipeline.Result) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = activeStyle

	m := Model{
		title:   title,
		spinner: s,
		index:   make(map[string]int, len(steps)),
		updates: updates,
		result:  result,
	}
	for _, name := range steps {
		m.index[name] = len(m.lines)
		m.lines = append(m.lines, stepLine{name: name})
	}
	return m
}

// Init starts the spinner and waits for the first step.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// Err is the failure reported by a step, or a stall.
func (m Model) Err() error {
	return m.err
}

// Aborted reports whether the user quit before the run finished.
func (m Model) Aborted() bool {
	return m.aborted
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.aborted = true
			m.done = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StepMsg:
		m.apply(msg)
		return m, m.next()

	case runDoneMsg:
		m.done = true
		return m, tea.Quit

	case stalledMsg:
		m.done = true
		m.err = errStalled
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) apply(msg StepMsg) {
	i, ok := m.index[msg.Step]
	if !ok {
		i = len(m.lines)
		m.index[msg.Step] = i
		m.lines = append(m.lines, stepLine{name: msg.Step})
	}
	m.lines[i].status = msg.Status
	m.lines[i].detail = msg.Detail

	if msg.Status == StatusError {
		m.err = fmt.Errorf("step %s failed: %s", msg.Step, msg.Detail)
	}
}

func (m Model) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-m.updates:
			if !ok {
				return runDoneMsg{}
			}
			return msg
		case <-time.After(activityTimeout):
			return stalledMsg{}
		}
	}
}

// View renders the step list and, when the run is done, its outcome.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n")

	width := 0
	for _, l := range m.lines {
		if len(l.name) > width {
			width = len(l.name)
		}
	}

	for _, l := range m.lines {
		b.WriteString(m.renderLine(l, width))
		b.WriteString("\n")
	}

	switch {
	case m.aborted:
		b.WriteString("\n" + skipStyle.Render("Aborted; the run continues in the background until the current step ends") + "\n")
	case m.err != nil:
		b.WriteString("\n" + failStyle.Render(m.err.Error()) + "\n")
	case m.done:
		b.WriteString("\n" + renderOutcome(m.result))
	}
	return b.String()
}

func (m Model) renderLine(l stepLine, width int) string {
	icon, style := "·", pendingStyle
	switch l.status {
	case StatusStarted:
		icon, style = m.spinner.View(), activeStyle
	case StatusSuccess:
		icon, style = "✓", okStyle
	case StatusError:
		icon, style = "✗", failStyle
	case StatusSkipped:
		icon, style = "↷", skipStyle
	}

	line := style.Render(fmt.Sprintf("%s %-*s", icon, width, l.name))
	if l.detail != "" {
		line += "  " + detailStyle.Render(l.detail)
	}
	return line
}

func renderOutcome(r *pipeline.Result) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(storyStyle.Render(Outcome(r)))
	b.WriteString("\n")
	if r.StoryURL != "" {
		b.WriteString(r.StoryURL + "\n")
	}
	for _, w := range r.Warnings {
		b.WriteString(skipStyle.Render("! "+w) + "\n")
	}
	return b.String()
}

// Outcome summarises what the run did to the story in one line.
func Outcome(r *pipeline.Result) string {
	if r.Skipped {
		return "Skipped: " + r.SkipReason
	}

	switch r.State {
	case pipeline.StoryCreated:
		s := "Created story " + r.StoryID
		if r.CommentPosted {
			s += fmt.Sprintf(" and linked it on PR #%d", r.PRNumber)
		}
		return s
	case pipeline.StoryLocated:
		return fmt.Sprintf("Story %s already linked (found in %s)", r.StoryID, r.Source)
	case pipeline.StoryUpdated:
		return fmt.Sprintf("Moved story %s to iteration %d", r.StoryID, r.IterationID)
	default:
		return "No story changes"
	}
}
