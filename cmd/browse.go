package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	trackerview "github.com/bnema/shelf/internal/adapters/render/tracker"
	"github.com/bnema/shelf/internal/application"
	"github.com/bnema/shelf/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type browseStage int

const (
	stageSearch browseStage = iota
	stagePage
	stageDetail
	stageCapture
)

type browseKeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Submit key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Prev:   key.NewBinding(key.WithKeys("left", "pgup"), key.WithHelp("←", "previous page")),
		Next:   key.NewBinding(key.WithKeys("right", "pgdown"), key.WithHelp("→", "next page")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Submit, k.Back, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type promptMsg struct {
	prompt application.Prompt
	err    error
}

type outcomeMsg struct {
	outcome application.CaptureOutcome
	err     error
}

type closedMsg struct {
	err error
}

// browseModel is an interactive front end over the coordinator: search,
// page through results, pick a series and send its new chapter.
type browseModel struct {
	ctx         context.Context
	coordinator *application.Coordinator
	actor       domain.UserID
	now         func() time.Time

	views trackerview.Inline
	keys  browseKeyMap
	help  help.Model
	input textinput.Model

	stage  browseStage
	prompt application.Prompt
	notice string
}

func newBrowseModel(ctx context.Context, coordinator *application.Coordinator, actor domain.UserID, now func() time.Time) browseModel {
	if now == nil {
		now = time.Now
	}

	m := browseModel{
		ctx:         ctx,
		coordinator: coordinator,
		actor:       actor,
		now:         now,
		views:       trackerview.NewInline(),
		keys:        newBrowseKeyMap(),
		help:        help.New(),
		input:       textinput.New(),
	}
	m.input.Focus()

	return m.reset()
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case promptMsg:
		return m.showPrompt(msg), nil
	case outcomeMsg:
		if msg.err != nil && msg.outcome.Result == "" {
			m.notice = m.views.Refusal(msg.err)
			return m, nil
		}
		m = m.reset()
		m.notice = m.views.Outcome(msg.outcome)
		return m, nil
	case closedMsg:
		if msg.err != nil {
			m.notice = m.views.Refusal(msg.err)
			return m, nil
		}
		m = m.reset()
		m.notice = m.views.Hint("Closed. Nothing was changed.")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		switch m.stage {
		case stageSearch:
			return m, tea.Quit
		case stageCapture:
			return m, m.cancel()
		default:
			return m.reset(), nil
		}
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case m.stage == stagePage && key.Matches(msg, m.keys.Prev):
		return m, m.navigate(domain.PagePrev)
	case m.stage == stagePage && key.Matches(msg, m.keys.Next):
		return m, m.navigate(domain.PageNext)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browseModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.stage {
	case stagePage:
		position, err := strconv.Atoi(value)
		if err != nil {
			m.notice = m.views.Refusal(fmt.Errorf("%w: position %q", domain.ErrMalformedInput, value))
			return m, nil
		}
		return m, m.pick(position)
	case stageDetail:
		return m, m.selectItem(m.prompt.Item.ID)
	case stageCapture:
		return m, m.submitValue(value)
	default:
		return m, m.list(value)
	}
}

func (m browseModel) showPrompt(msg promptMsg) browseModel {
	if msg.err != nil {
		m.notice = m.views.Refusal(msg.err)
		return m
	}

	m.prompt = msg.prompt
	m.notice = ""
	m.input.Reset()

	switch msg.prompt.Kind {
	case application.PromptPage:
		m.stage = stagePage
		m.input.Prompt = "pick> "
		m.input.Placeholder = "position on this page"
	case application.PromptDetail:
		m.stage = stageDetail
		m.input.Prompt = ""
		m.input.Placeholder = "press enter to update this series"
	case application.PromptCapture:
		m.stage = stageCapture
		m.input.Prompt = "chapter> "
		m.input.Placeholder = strconv.Itoa(msg.prompt.Item.Progress)
	}

	return m
}

func (m browseModel) reset() browseModel {
	m.stage = stageSearch
	m.prompt = application.Prompt{}
	m.input.Reset()
	m.input.Prompt = "search> "
	m.input.Placeholder = "title, empty lists everything"
	return m
}

func (m browseModel) list(filter string) tea.Cmd {
	ctx, coordinator, actor := m.ctx, m.coordinator, m.actor
	return func() tea.Msg {
		prompt, err := coordinator.List(ctx, application.ListCommand{Owner: actor, TitleFilter: filter})
		return promptMsg{prompt: prompt, err: err}
	}
}

func (m browseModel) navigate(direction domain.PageDirection) tea.Cmd {
	ctx, coordinator, actor, handle := m.ctx, m.coordinator, m.actor, m.prompt.Handle
	return func() tea.Msg {
		prompt, err := coordinator.Navigate(ctx, application.NavigatePageCommand{Handle: handle, Actor: actor, Direction: direction})
		return promptMsg{prompt: prompt, err: err}
	}
}

func (m browseModel) pick(position int) tea.Cmd {
	ctx, coordinator, actor, handle := m.ctx, m.coordinator, m.actor, m.prompt.Handle
	return func() tea.Msg {
		prompt, err := coordinator.SelectFromPage(ctx, application.SelectFromPageCommand{Handle: handle, Actor: actor, Position: position})
		return promptMsg{prompt: prompt, err: err}
	}
}

func (m browseModel) selectItem(target domain.ItemID) tea.Cmd {
	ctx, coordinator, actor := m.ctx, m.coordinator, m.actor
	return func() tea.Msg {
		prompt, err := coordinator.SelectForUpdate(ctx, application.SelectForUpdateCommand{Actor: actor, Target: target})
		return promptMsg{prompt: prompt, err: err}
	}
}

func (m browseModel) submitValue(raw string) tea.Cmd {
	ctx, coordinator, actor, handle := m.ctx, m.coordinator, m.actor, m.prompt.Handle
	return func() tea.Msg {
		outcome, err := coordinator.SubmitValue(ctx, application.SubmitValueCommand{Handle: handle, Actor: actor, Raw: raw})
		return outcomeMsg{outcome: outcome, err: err}
	}
}

func (m browseModel) cancel() tea.Cmd {
	coordinator, actor, handle := m.coordinator, m.actor, m.prompt.Handle
	return func() tea.Msg {
		return closedMsg{err: coordinator.Cancel(application.CancelCommand{Handle: handle, Actor: actor})}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	if m.stage != stageSearch {
		b.WriteString(m.views.Prompt(m.prompt, trackerview.RenderOptions{Now: m.now()}))
		b.WriteString("\n\n")
	}
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

func newBrowseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and update your series interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}

			t, err := app.start(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = t.close() }()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go t.registry.RunSweeper(ctx, app.cfg.Sessions.SweepInterval)

			p := tea.NewProgram(
				newBrowseModel(ctx, t.coordinator, actor, app.clock.Now),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			t.capture.SetNotifier(func(outcome application.CaptureOutcome) {
				p.Send(outcomeMsg{outcome: outcome})
			})

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}
}
