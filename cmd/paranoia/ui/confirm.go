package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

var defaultConfirmKeys = confirmKeys{
	Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:  key.NewBinding(key.WithKeys("n", "N", "enter", "esc", "ctrl+c", "q"), key.WithHelp("n", "no")),
}

// ConfirmModel is a yes/no prompt defaulting to no.
type ConfirmModel struct {
	question  string
	styles    Styles
	keys      confirmKeys
	answered  bool
	confirmed bool
}

func NewConfirm(question string, styles Styles) ConfirmModel {
	return ConfirmModel{question: question, styles: styles, keys: defaultConfirmKeys}
}

// Confirmed reports the answer. False until the user said yes.
func (m ConfirmModel) Confirmed() bool { return m.confirmed }

func (m ConfirmModel) Init() tea.Cmd { return nil }

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || m.answered {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Yes):
		m.answered, m.confirmed = true, true
		return m, tea.Quit
	case key.Matches(km, m.keys.No):
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	answer := ""
	if m.answered {
		answer = "n"
		if m.confirmed {
			answer = "y"
		}
		answer += "\n"
	}
	return m.styles.Prompt.Render(m.question) + " " +
		m.styles.Muted.Render(fmt.Sprintf("[%s/%s]", m.keys.Yes.Help().Key, "N")) + " " + answer
}

// Confirm asks question on out and reads a single key from in.
func Confirm(question string, in io.Reader, out io.Writer, styles Styles) (bool, error) {
	p := tea.NewProgram(NewConfirm(question, styles), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return final.(ConfirmModel).Confirmed(), nil
}
