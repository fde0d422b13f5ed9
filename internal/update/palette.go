package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + " ")
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Suggest: func(a commands.SuggestArgs) (commands.Result, error) {
			m.CurrentView = ViewSuggest
			m, follow = m.requestSuggestion(a.Energy)
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			m = m.completeTask(d.Task)
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Summary: func() (commands.Result, error) {
			if m.Assistant == nil {
				return commands.Result{}, errNoAssistant
			}
			m.SummaryVisible = true
			return commands.Result{Message: m.Assistant.Summary()}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}
