// Package ui implements the interactive terminal interface: a filterable
// snippet list, an argument form for parameterized templates, and
// execute-and-copy delivery.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipvault/snipvault/internal/models"
	"github.com/snipvault/snipvault/internal/service"
	"github.com/snipvault/snipvault/internal/template"
)

type viewState int

const (
	stateList viewState = iota
	stateForm
)

type executedMsg struct {
	result template.ExecutionResult
	copied bool
	err    error
}

// Model is the root bubbletea model.
type Model struct {
	svc    *service.Service
	styles Styles

	state    viewState
	list     list.Model
	form     *argumentForm
	selected models.Snippet

	status    string
	statusErr bool
	width     int
	height    int
}

// NewModel builds the root model over the service.
func NewModel(svc *service.Service) *Model {
	items := snippetItems(svc.ListSnippets())

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = "snipvault"
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = extraHelpKeys

	return &Model{
		svc:    svc,
		styles: DefaultStyles(),
		state:  stateList,
		list:   l,
	}
}

func snippetItems(snippets []models.Snippet) []list.Item {
	items := make([]list.Item, len(snippets))
	for i, sn := range snippets {
		items[i] = sn
	}
	return items
}

func extraHelpKeys() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand & copy")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case executedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
		} else if msg.copied {
			m.status = "Copied to clipboard!"
			m.statusErr = false
		} else {
			m.status = msg.result.Result
			m.statusErr = false
		}
		m.state = stateList
		m.form = nil
		return m, nil
	}

	switch m.state {
	case stateForm:
		return m.updateForm(msg)
	default:
		return m.updateList(msg)
	}
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch k.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.list.SetItems(snippetItems(m.svc.ListSnippets()))
			m.status = "Reloaded"
			m.statusErr = false
			return m, nil
		case "enter":
			sn, ok := m.list.SelectedItem().(models.Snippet)
			if !ok {
				return m, nil
			}
			m.selected = sn
			specs := m.svc.ParseArguments(sn.Text)
			if len(specs) == 0 {
				return m, m.executeCmd(sn.ID, nil)
			}
			m.form = newArgumentForm(specs, m.styles)
			m.state = stateForm
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.state = stateList
			m.form = nil
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	done, cmd := m.form.Update(msg)
	if done {
		return m, m.executeCmd(m.selected.ID, m.form.Values())
	}
	return m, cmd
}

// executeCmd expands the snippet and delivers it to the clipboard off the
// update loop.
func (m *Model) executeCmd(id string, values map[string]string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		res, err := svc.ExecuteAndCopy(id, values)
		return executedMsg{result: res, copied: err == nil, err: err}
	}
}

func (m *Model) View() string {
	if m.state == stateForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	status := ""
	if m.status != "" {
		if m.statusErr {
			status = m.styles.StatusErr.Render(m.status)
		} else {
			status = m.styles.Status.Render(m.status)
		}
	}
	return fmt.Sprintf("%s\n%s", m.list.View(), status)
}
