// Package tui is the interactive terminal shell for the research workflow.
// It follows The Elm Architecture via bubbletea: a topic prompt, a progress
// view while the pipeline runs, then the themed result panels.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dusk-indust/agentflow/internal/export"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
	"github.com/dusk-indust/agentflow/internal/workflow"
)

// Runner runs the research pipeline. *workflow.ResearchWorkflow's Run
// method satisfies it.
type Runner func(ctx context.Context, topic string, opts ...orchestrator.RunOption) (workflow.ResearchState, error)

type screen int

const (
	screenInput screen = iota
	screenRunning
	screenDone
)

type progressMsg orchestrator.ProgressEvent

type doneMsg struct {
	state workflow.ResearchState
	err   error
}

// Model is the bubbletea model for one interactive session.
type Model struct {
	run       Runner
	outputDir string

	screen  screen
	input   textinput.Model
	spinner spinner.Model
	example int

	cancel   context.CancelFunc
	events   <-chan orchestrator.ProgressEvent
	progress []string
	result   workflow.ResearchState
	status   string
	err      error
	width    int
}

// Option configures a Model.
type Option func(*Model)

// WithOutputDir sets where the "s" key saves the report. Defaults to ".".
func WithOutputDir(dir string) Option {
	return func(m *Model) { m.outputDir = dir }
}

// WithTopic pre-fills the prompt.
func WithTopic(topic string) Option {
	return func(m *Model) { m.input.SetValue(topic) }
}

// New creates a Model that runs research through run.
func New(run Runner, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. Renewable Energy"
	ti.Prompt = "Topic: "
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		run:       run,
		outputDir: ".",
		input:     ti,
		spinner:   sp,
		example:   -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stop()
			return m, tea.Quit
		}
		switch m.screen {
		case screenInput:
			return m.updateInput(msg)
		case screenRunning:
			if msg.Type == tea.KeyEsc {
				m.stop()
				return m, tea.Quit
			}
			return m, nil
		case screenDone:
			return m.updateDone(msg)
		}

	case progressMsg:
		m.progress = append(m.progress, orchestrator.FormatProgress(orchestrator.ProgressEvent(msg)))
		// One listener at a time keeps lines in emission order.
		return m, listen(m.events)

	case doneMsg:
		m.stop()
		if msg.err != nil {
			m.screen = screenInput
			m.err = msg.err
			m.input.Focus()
			return m, nil
		}
		m.screen = screenDone
		m.result = msg.state
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		m.example = (m.example + 1) % len(workflow.ExampleTopics)
		m.input.SetValue(workflow.ExampleTopics[m.example])
		m.input.CursorEnd()
		return m, nil
	case tea.KeyEnter:
		topic := strings.TrimSpace(m.input.Value())
		if topic == "" {
			m.err = workflow.ErrEmptyTopic
			return m, nil
		}
		return m.start(topic)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "n":
		m.screen = screenInput
		m.input.SetValue("")
		m.input.Focus()
		m.status = ""
		return m, textinput.Blink
	case "s":
		path, err := export.WriteReport(m.outputDir, m.result)
		if err != nil {
			m.status = errorStyle.Render("save failed: " + err.Error())
		} else {
			m.status = "Saved " + path
		}
	}
	return m, nil
}

// start launches the pipeline in a command and streams its progress events
// through a ProgressReporter.
func (m Model) start(topic string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.screen = screenRunning
	m.err = nil
	m.progress = nil
	m.input.Blur()

	reporter := orchestrator.NewProgressReporter()
	run := m.run
	runCmd := func() tea.Msg {
		state, err := run(ctx, topic, orchestrator.WithObserver(reporter.Observer()))
		reporter.Close()
		return doneMsg{state: state, err: err}
	}
	m.events = reporter.Subscribe()
	return m, tea.Batch(runCmd, listen(m.events), m.spinner.Tick)
}

// listen waits for the next event on ch. Update re-issues it after each
// progressMsg; it yields nil once the reporter is closed.
func listen(ch <-chan orchestrator.ProgressEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(ev)
	}
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Multi-Agent Research Assistant"))
	b.WriteString("\n\n")

	switch m.screen {
	case screenInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Examples (tab to cycle):"))
		b.WriteString("\n")
		for i, topic := range workflow.ExampleTopics {
			marker := "  "
			if i == m.example {
				marker = "> "
			}
			b.WriteString(mutedStyle.Render(marker + topic))
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(errorText(m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter: research · esc: quit"))

	case screenRunning:
		fmt.Fprintf(&b, "%s Researching %q\n\n", m.spinner.View(), strings.TrimSpace(m.input.Value()))
		b.WriteString(strings.Join(m.progress, "\n"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("esc: cancel"))

	case screenDone:
		b.WriteString(RenderResult(m.result, m.width))
		b.WriteString("\n")
		if m.status != "" {
			b.WriteString(m.status)
			b.WriteString("\n")
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("s: save %s · n: new topic · q: quit", export.ReportFilename(m.result.Topic))))
	}
	return b.String()
}

func errorText(err error) string {
	if errors.Is(err, workflow.ErrEmptyTopic) {
		return "Please enter a research topic."
	}
	return "Research failed: " + err.Error()
}
