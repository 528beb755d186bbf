package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/remotepulse/remotepulse/internal/pipeline"
)

var errCancelled = errors.New("cancelled")

type buildDoneMsg struct {
	result pipeline.Result
}

type loaderModel struct {
	label   string
	buildFn func(ctx context.Context) pipeline.Result
	spinner spinner.Model
	result  pipeline.Result
	err     error
	done    bool
}

func newLoader(label string, buildFn func(ctx context.Context) pipeline.Result) loaderModel {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("33"))),
	)
	return loaderModel{label: label, buildFn: buildFn, spinner: sp}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doBuild(), m.spinner.Tick)
}

func (m loaderModel) doBuild() tea.Cmd {
	buildFn := m.buildFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return buildDoneMsg{result: buildFn(ctx)}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case buildDoneMsg:
		m.result = msg.result
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = errCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Fetching postings from %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while buildFn runs. It renders inline (no alt screen).
func RunLoader(label string, buildFn func(ctx context.Context) pipeline.Result) (pipeline.Result, error) {
	p := tea.NewProgram(newLoader(label, buildFn))
	result, err := p.Run()
	if err != nil {
		return pipeline.Result{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
