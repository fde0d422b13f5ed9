package views

import (
	"fmt"
	"strings"
)

type SuggestionCardData struct {
	Energy  string
	Text    string
	Tip     string
	Minutes int
}

type HistoryItemData struct {
	Energy string
	Task   string
}

type SuggestPanelData struct {
	Current  *SuggestionCardData
	History  []HistoryItemData
	LowCount int
	Pending  bool
}

type SummaryPanelData struct {
	Summary       string
	Completed     int
	Suggested     int
	Streak        int
	LowCount      int
	LastCompleted string
	Recent        []string
}

type FocusPanelData struct {
	TaskTitle     string
	Energy        string
	Timer         string
	ProgressView  string
	ProgressPct   int
	Running       bool
	ShowEndPrompt bool
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderSuggestPanel(data SuggestPanelData) string {
	var b strings.Builder
	b.WriteString("suggest:\n")
	b.WriteString("actions: [l]low [m]medium [h]high [c]complete [f]focus\n\n")
	switch {
	case data.Pending:
		b.WriteString("thinking up something motivating...\n")
	case data.Current == nil:
		b.WriteString("How's your energy? Press l, m or h.\n")
	default:
		b.WriteString(fmt.Sprintf("[%s, ~%dm]\n", strings.ToUpper(data.Current.Energy), data.Current.Minutes))
		b.WriteString(data.Current.Text + "\n")
		if data.Current.Tip != "" {
			b.WriteString(tipStyle.Render(data.Current.Tip) + "\n")
		}
	}
	if data.LowCount > 0 {
		b.WriteString(fmt.Sprintf("\nlow-energy run: %d\n", data.LowCount))
	}
	if len(data.History) > 0 {
		b.WriteString("\nrecent suggestions:\n")
		for _, item := range data.History {
			b.WriteString(fmt.Sprintf("- [%s] %s\n", item.Energy, firstLine(item.Task)))
		}
	}
	return strings.TrimSpace(b.String())
}

// SummaryMarkdown renders the progress report as markdown.
func SummaryMarkdown(data SummaryPanelData) string {
	var b strings.Builder
	b.WriteString("## Progress\n\n")
	b.WriteString(data.Summary + "\n\n")
	b.WriteString("| metric | value |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| completed | %d |\n", data.Completed))
	b.WriteString(fmt.Sprintf("| suggested | %d |\n", data.Suggested))
	b.WriteString(fmt.Sprintf("| streak | %d |\n", data.Streak))
	b.WriteString(fmt.Sprintf("| low-energy run | %d |\n", data.LowCount))
	last := data.LastCompleted
	if last == "" {
		last = "never"
	}
	b.WriteString(fmt.Sprintf("| last completed | %s |\n", last))
	if len(data.Recent) > 0 {
		b.WriteString("\n### Recently completed\n\n")
		for _, task := range data.Recent {
			b.WriteString("- " + firstLine(task) + "\n")
		}
	}
	return b.String()
}

func RenderSummaryPanel(data SummaryPanelData) string {
	return "summary:\n" + RenderMarkdown(SummaryMarkdown(data))
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", firstLine(data.TaskTitle)))
		b.WriteString(fmt.Sprintf("energy: %s\n", data.Energy))
	} else {
		b.WriteString("task: (ask for a suggestion first)\n")
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("timer: %s (%s)\n", data.Timer, state))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString("actions: [space]start/pause [r]reset [n]finish & complete [esc]back\n")
	if data.ShowEndPrompt {
		b.WriteString("prompt: block finished, press [n] to mark it complete")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s\n(suggest <energy> | done <task> | summary)", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
