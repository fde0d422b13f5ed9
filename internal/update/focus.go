package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewSuggest
		return m, nil
	case " ":
		if m.Focus.TaskTitle == "" {
			m.Status = StatusBar{Text: "ask for a suggestion before starting a focus block", IsError: true}
			return m, nil
		}
		if m.Focus.Running {
			m.Focus.Running = false
			m.Status = StatusBar{Text: "focus paused"}
			return m, nil
		}
		if m.Focus.RemainingSec <= 0 {
			m.Focus.RemainingSec = m.Focus.TotalSec
		}
		m.Focus.Running = true
		m.Status = StatusBar{Text: "focus running"}
		return m, focusTickCmd()
	case "r":
		m.Focus.Running = false
		m.Focus.RemainingSec = m.Focus.TotalSec
		m.Status = StatusBar{Text: "focus reset"}
		return m, nil
	case "n":
		return m.finishFocusBlock(), nil
	}
	return m, nil
}

func (m Model) onFocusTick() (tea.Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	if m.Focus.RemainingSec > 0 {
		m.Focus.RemainingSec--
	}
	if m.Focus.RemainingSec == 0 {
		m.Focus.Running = false
		m.Status = StatusBar{Text: "focus block complete; press n to mark it done"}
		return m, nil
	}
	return m, focusTickCmd()
}

// bootstrapFocusTask sizes the timer to the current suggestion's energy block.
// A running or paused block for the same task is left alone.
func (m *Model) bootstrapFocusTask() {
	if m.Current == nil {
		return
	}
	if m.Focus.TaskTitle == m.Current.Text && m.Focus.TotalSec > 0 {
		return
	}
	m.Focus = FocusState{
		TaskTitle:    m.Current.Text,
		Energy:       m.Current.Energy,
		TotalSec:     m.Current.Energy.BlockMinutes() * 60,
		RemainingSec: m.Current.Energy.BlockMinutes() * 60,
	}
}

func (m Model) finishFocusBlock() Model {
	if m.Focus.TaskTitle == "" {
		m.Status = StatusBar{Text: "no focus task to complete", IsError: true}
		return m
	}
	m = m.completeTask(m.Focus.TaskTitle)
	if m.Status.IsError {
		return m
	}
	m.Focus = FocusState{}
	m.CurrentView = ViewSuggest
	return m
}

func (m Model) renderFocusView() string {
	progress := 0.0
	if m.Focus.TotalSec > 0 {
		progress = float64(m.Focus.TotalSec-m.Focus.RemainingSec) / float64(m.Focus.TotalSec)
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:     m.Focus.TaskTitle,
		Energy:        string(m.Focus.Energy),
		Timer:         formatDuration(m.Focus.RemainingSec),
		ProgressView:  m.focusProgress.ViewAs(progress),
		ProgressPct:   int(progress * 100),
		Running:       m.Focus.Running,
		ShowEndPrompt: m.Focus.TotalSec > 0 && m.Focus.RemainingSec == 0,
	})
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}
