package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Elapsed time is only shown once a connection is noticeably slow.
const slowConnectAfter = time.Second

type storeOpener func(context.Context) (trackerStore, func() error, error)

type storeOpenedMsg struct {
	store trackerStore
	close func() error
	err   error
}

// connectModel keeps a spinner on stderr while a remote store is dialed.
type connectModel struct {
	spinner spinner.Model
	target  string
	started time.Time
	elapsed time.Duration
	open    tea.Cmd
	opened  *storeOpenedMsg
}

func newConnectModel(target string, open tea.Cmd) connectModel {
	return connectModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		target:  target,
		started: time.Now(),
		open:    open,
	}
}

func (m connectModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.open)
}

func (m connectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeOpenedMsg:
		m.opened = &msg
		return m, tea.Quit
	case spinner.TickMsg:
		m.elapsed = msg.Time.Sub(m.started)
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m connectModel) View() string {
	if m.opened != nil {
		return ""
	}

	line := fmt.Sprintf("%s Connecting to %s...", m.spinner.View(), m.target)
	if m.elapsed >= slowConnectAfter {
		line += lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf(" %ds", int(m.elapsed.Seconds())))
	}
	return line
}

// openWithSpinner runs open behind a spinner written to output. Cancelling
// ctx abandons the wait and reports ctx's error.
func openWithSpinner(ctx context.Context, output io.Writer, target string, open storeOpener) (trackerStore, func() error, error) {
	openCmd := func() tea.Msg {
		store, closeFn, err := open(ctx)
		return storeOpenedMsg{store: store, close: closeFn, err: err}
	}

	p := tea.NewProgram(
		newConnectModel(target, openCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, fmt.Errorf("connect spinner: %w", err)
	}

	model, ok := final.(connectModel)
	if !ok || model.opened == nil {
		return nil, nil, fmt.Errorf("connect spinner ended without a store (%T)", final)
	}

	return model.opened.store, model.opened.close, model.opened.err
}
