package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F16C00"))

type entry struct {
	index int
	label string
}

func (e entry) Title() string       { return Render(e.label) }
func (e entry) Description() string { return "" }
func (e entry) FilterValue() string { return Strip(e.label) }

// pickModel is the built-in list picker used without fzf.
type pickModel struct {
	list   list.Model
	chosen int
}

func newPickModel(prompt string, items []string) pickModel {
	entries := make([]list.Item, len(items))
	for i, it := range items {
		entries[i] = entry{index: i, label: it}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	l := list.New(entries, delegate, 80, 20)
	l.Title = prompt
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	return pickModel{list: l, chosen: -1}
}

func (m pickModel) Init() tea.Cmd { return nil }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if e, ok := m.list.SelectedItem().(entry); ok {
				m.chosen = e.index
			}
			return m, tea.Quit
		case "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickModel) View() string { return m.list.View() }

func pick(ctx context.Context, prompt string, items []string) (int, error) {
	final, err := tea.NewProgram(newPickModel(prompt, items),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
	).Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}
	if m := final.(pickModel); m.chosen >= 0 {
		return m.chosen, nil
	}
	return -1, ErrCancelled
}

// askModel is the built-in text prompt used without fzf.
type askModel struct {
	input textinput.Model
	done  bool
}

func newAskModel(prompt string) askModel {
	in := textinput.New()
	in.Prompt = titleStyle.Render(prompt) + " > "
	in.CharLimit = 200
	in.Focus()
	return askModel{input: in}
}

func (m askModel) Init() tea.Cmd { return textinput.Blink }

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.input.SetValue("")
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m askModel) View() string { return m.input.View() + "\n" }

func ask(ctx context.Context, prompt string) (string, error) {
	final, err := tea.NewProgram(newAskModel(prompt),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	).Run()
	if err != nil {
		return "", fmt.Errorf("running prompt: %w", err)
	}
	m := final.(askModel)
	if !m.done {
		return "", nil
	}
	return m.input.Value(), nil
}
