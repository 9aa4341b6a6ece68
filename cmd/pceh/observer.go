package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubenschmidt/pceh/internal/matrix"
	"github.com/hubenschmidt/pceh/internal/runner"
	"github.com/hubenschmidt/pceh/internal/types"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7a89"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

// eventMsg wraps a runner.Event crossing from the matrix goroutine into
// the bubbletea event loop, the same channel-to-tea.Msg bridge the
// teacher's chat model uses for its statusChan.
type eventMsg runner.Event

type comboStartMsg struct {
	combo types.BenchmarkCombo
	index int
	total int
}

type runDoneMsg struct{ err error }

// observeModel is the live progress view for "pceh run"/"pceh resume".
// It owns no benchmark logic itself: it only renders the event stream a
// matrix.Controller pushes into events via SetObserver/SetComboStartHook.
type observeModel struct {
	events  chan tea.Msg
	cancel  func()
	control *matrix.Controller

	spinner  spinner.Model
	progress progress.Model

	comboIndex, comboTotal  int
	combo                   types.BenchmarkCombo
	problemTitle            string
	testsPassed, testsTotal int
	phase                   string
	lines                   []string

	done   bool
	err    error
	paused bool
}

func newObserveModel(events chan tea.Msg, cancel func(), control *matrix.Controller) observeModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))

	return observeModel{
		events:   events,
		cancel:   cancel,
		control:  control,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		phase:    "starting",
	}
}

func (m observeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m observeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "p":
			if m.control != nil {
				m.control.Pause()
				m.paused = true
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case comboStartMsg:
		m.comboIndex = msg.index
		m.comboTotal = msg.total
		m.combo = msg.combo
		m.phase = "combo started"
		m.lines = append(m.lines, fmt.Sprintf("combo %d/%d: model=%s lang=%s temp=%.2f",
			msg.index, msg.total, msg.combo.Model, msg.combo.Language, msg.combo.Temperature))
		return m, waitForEvent(m.events)

	case eventMsg:
		m.applyEvent(runner.Event(msg))
		return m, waitForEvent(m.events)

	case runDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m *observeModel) applyEvent(ev runner.Event) {
	switch ev.Type {
	case runner.EventWarmup:
		m.phase = "warming up"
	case runner.EventProblem:
		m.problemTitle = ev.Title
		m.testsPassed, m.testsTotal = 0, 0
		m.phase = "problem"
	case runner.EventGeneratingCode:
		m.phase = "generating code"
	case runner.EventExecutingTests:
		m.phase = "executing tests"
	case runner.EventTestResult:
		m.testsTotal = ev.TestTotal
		if ev.Passed {
			m.testsPassed++
		}
	case runner.EventProblemComplete:
		m.lines = append(m.lines, fmt.Sprintf("  %s: %d/%d passed", m.problemTitle, ev.Metrics.TestsPassed, ev.Metrics.TestsTotal))
	case runner.EventError:
		m.lines = append(m.lines, styleError.Render("  error: "+ev.Message))
	}
}

func (m observeModel) comboProgress() float64 {
	if m.testsTotal == 0 {
		return 0
	}
	return float64(m.testsPassed) / float64(m.testsTotal)
}

func (m observeModel) View() string {
	var b strings.Builder

	if m.done {
		if m.err != nil {
			b.WriteString(styleError.Render(fmt.Sprintf("run stopped: %v\n", m.err)))
		} else {
			b.WriteString(styleOK.Render("run complete\n"))
		}
		for _, l := range tail(m.lines, 20) {
			b.WriteString(l + "\n")
		}
		return b.String()
	}

	header := styleHeader.Render(fmt.Sprintf("pceh run  combo %d/%d", m.comboIndex, m.comboTotal))
	if m.control != nil {
		if eta := m.control.ETA(); eta > 0 {
			header += styleMuted.Render(fmt.Sprintf("  eta %s", eta.Round(time.Second)))
		}
	}
	b.WriteString(header + "\n")
	b.WriteString(fmt.Sprintf("%s  %s (%s, T=%.2f)\n", m.spinner.View(), m.combo.Model, m.combo.Language, m.combo.Temperature))
	b.WriteString(m.progress.ViewAs(m.comboProgress()) + "\n")
	b.WriteString(styleMuted.Render(fmt.Sprintf("%s: %s\n", m.phase, m.problemTitle)))
	if m.paused {
		b.WriteString(styleMuted.Render("paused (will stop after in-flight combo)\n"))
	}
	b.WriteString(styleMuted.Render("[p] pause  [q] quit\n\n"))
	for _, l := range tail(m.lines, 12) {
		b.WriteString(l + "\n")
	}
	return b.String()
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
