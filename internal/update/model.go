package update

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/focusflow/internal/engine"
	"github.com/sandeepkv93/focusflow/internal/model"
)

type View string

const (
	ViewSuggest View = "Suggest"
	ViewFocus   View = "Focus"
)

// Assistant is the slice of the engine the TUI drives.
type Assistant interface {
	Suggest(ctx context.Context, energy string) (string, error)
	MarkCompleted(ctx context.Context, task string) (string, error)
	Summary() string
	Stats() engine.Stats
	Snapshot() model.TaskState
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Low      string
	Medium   string
	High     string
	Complete string
	Focus    string
	Summary  string
	Help     string
	Quit     string
}

type Suggestion struct {
	Energy model.Energy
	Text   string
	Tip    string
}

type FocusState struct {
	TaskTitle    string
	Energy       model.Energy
	TotalSec     int
	RemainingSec int
	Running      bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView    View
	Assistant      Assistant
	Current        *Suggestion
	Pending        bool
	PendingEnergy  string
	Focus          FocusState
	Palette        CommandPaletteState
	HelpVisible    bool
	SummaryVisible bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx           context.Context
	logger        *slog.Logger
	commandInput  textinput.Model
	focusProgress progress.Model
	busySpinner   spinner.Model
	helpModel     help.Model
}

// SuggestionReadyMsg carries the result of an asynchronous suggest call.
type SuggestionReadyMsg struct {
	Energy string
	Text   string
	Err    error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct{}

type Option func(*Model)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithContext sets the parent context for engine calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

func NewModel(assistant Assistant, opts ...Option) Model {
	m := Model{
		CurrentView: ViewSuggest,
		Assistant:   assistant,
		Keys: GlobalKeyMap{
			Low:      "l",
			Medium:   "m",
			High:     "h",
			Complete: "c",
			Focus:    "f",
			Summary:  "s",
			Help:     "?",
			Quit:     "q",
		},
		ctx:    context.Background(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	m.restoreLastSuggestion()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "suggest low | done <task> | summary"
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

// restoreLastSuggestion shows the newest persisted suggestion on startup.
func (m *Model) restoreLastSuggestion() {
	if m.Assistant == nil {
		return
	}
	snap := m.Assistant.Snapshot()
	if n := len(snap.Suggested); n > 0 {
		last := snap.Suggested[n-1]
		m.Current = &Suggestion{Energy: last.Energy, Text: last.Task, Tip: last.Tip}
	}
}
