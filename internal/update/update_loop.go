package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/engine"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/views"
)

var errNoAssistant = errors.New("update: no assistant configured")

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.bootstrapFocusTask()
			return m, nil
		case m.Keys.Summary:
			m.SummaryVisible = !m.SummaryVisible
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		if m.CurrentView == ViewFocus {
			return m.handleFocusKey(typed)
		}
		return m.handleSuggestKey(typed)
	case spinner.TickMsg:
		if m.Pending {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SuggestionReadyMsg:
		return m.onSuggestionReady(typed), nil
	case FocusTickMsg:
		return m.onFocusTick()
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.setError(typed.Err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleSuggestKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Low:
		return m.requestSuggestion(string(model.EnergyLow))
	case m.Keys.Medium:
		return m.requestSuggestion(string(model.EnergyMedium))
	case m.Keys.High:
		return m.requestSuggestion(string(model.EnergyHigh))
	case m.Keys.Complete:
		if m.Current == nil {
			m.Status = StatusBar{Text: "nothing to complete yet; ask for a suggestion first", IsError: true}
			return m, nil
		}
		m = m.completeTask(m.Current.Text)
		return m, nil
	}
	return m, nil
}

// requestSuggestion runs the engine off the update loop; the rephrase call
// may take seconds.
func (m Model) requestSuggestion(energy string) (Model, tea.Cmd) {
	if m.Assistant == nil {
		m.setError(errNoAssistant)
		return m, nil
	}
	if m.Pending {
		m.Status = StatusBar{Text: fmt.Sprintf("still waiting on the %s suggestion", m.PendingEnergy)}
		return m, nil
	}
	m.Pending = true
	m.PendingEnergy = energy
	m.Status = StatusBar{Text: fmt.Sprintf("asking for a %s-energy suggestion", energy)}
	return m, tea.Batch(m.busySpinner.Tick, suggestCmd(m.ctx, m.Assistant, energy))
}

func suggestCmd(ctx context.Context, a Assistant, energy string) tea.Cmd {
	return func() tea.Msg {
		text, err := a.Suggest(ctx, energy)
		return SuggestionReadyMsg{Energy: energy, Text: text, Err: err}
	}
}

func (m Model) onSuggestionReady(msg SuggestionReadyMsg) Model {
	m.Pending = false
	m.PendingEnergy = ""
	if msg.Err != nil {
		m.logger.Warn("suggestion failed", "energy", msg.Energy, "err", msg.Err)
		m.setError(msg.Err)
		return m
	}
	if msg.Text == engine.InvalidEnergyPrompt {
		m.Status = StatusBar{Text: msg.Text}
		return m
	}
	level, _ := model.ParseEnergy(msg.Energy)
	text, tip, _ := strings.Cut(msg.Text, "\n")
	m.Current = &Suggestion{Energy: level, Text: text, Tip: tip}
	m.Status = StatusBar{Text: fmt.Sprintf("%s-energy suggestion ready", level)}
	return m
}

// completeTask runs on the update loop, so it refuses to queue behind an
// in-flight suggestion.
func (m Model) completeTask(task string) Model {
	if m.Assistant == nil {
		m.setError(errNoAssistant)
		return m
	}
	if m.Pending {
		m.setError(fmt.Errorf("wait for the pending %s suggestion before completing a task", m.PendingEnergy))
		return m
	}
	out, err := m.Assistant.MarkCompleted(m.ctx, task)
	if err != nil {
		m.logger.Warn("mark completed failed", "err", err)
		m.setError(err)
		return m
	}
	m.Status = StatusBar{Text: strings.ReplaceAll(out, "\n", " | ")}
	return m
}

func (m *Model) setError(err error) {
	m.LastError = err
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	var stats engine.Stats
	if m.Assistant != nil {
		stats = m.Assistant.Stats()
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewFocus:
		leftPane = m.renderFocusView()
	default:
		leftPane = m.renderSuggestView(stats)
	}

	right := make([]string, 0, 3)
	if p := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()); p != "" {
		right = append(right, p)
	}
	if m.SummaryVisible {
		right = append(right, m.renderSummaryView(stats))
	}
	if m.HelpVisible {
		right = append(right, m.renderHelpView())
	}

	notification := ""
	if m.Pending {
		notification = fmt.Sprintf("rephrasing: %s %s energy", m.busySpinner.View(), m.PendingEnergy)
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("focusflow | view: %s | streak: %d | done: %d/%d", m.CurrentView, stats.Streak, stats.Completed, stats.Suggested),
		LeftPane:     leftPane,
		RightPane:    strings.Join(right, "\n\n"),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s/%s/%s energy | %s complete | %s focus | %s summary | / cmd | %s help | %s quit",
			m.Keys.Low, m.Keys.Medium, m.Keys.High, m.Keys.Complete, m.Keys.Focus, m.Keys.Summary, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderSuggestView(stats engine.Stats) string {
	data := views.SuggestPanelData{
		Pending:  m.Pending,
		LowCount: stats.LowCount,
	}
	if m.Current != nil {
		data.Current = &views.SuggestionCardData{
			Energy:  string(m.Current.Energy),
			Text:    m.Current.Text,
			Tip:     m.Current.Tip,
			Minutes: m.Current.Energy.BlockMinutes(),
		}
	}
	if m.Assistant != nil {
		suggested := m.Assistant.Snapshot().Suggested
		for i := len(suggested) - 1; i >= 0 && len(data.History) < 5; i-- {
			data.History = append(data.History, views.HistoryItemData{
				Energy: string(suggested[i].Energy),
				Task:   suggested[i].Task,
			})
		}
	}
	return views.RenderSuggestPanel(data)
}

func (m Model) renderSummaryView(stats engine.Stats) string {
	data := views.SummaryPanelData{
		Completed:     stats.Completed,
		Suggested:     stats.Suggested,
		Streak:        stats.Streak,
		LowCount:      stats.LowCount,
		LastCompleted: stats.LastCompleted,
	}
	if m.Assistant != nil {
		data.Summary = m.Assistant.Summary()
		completed := m.Assistant.Snapshot().Completed
		for i := len(completed) - 1; i >= 0 && len(data.Recent) < 3; i-- {
			data.Recent = append(data.Recent, completed[i])
		}
	}
	return views.RenderSummaryPanel(data)
}
