// Package engine maps a self-reported energy level to a task suggestion and
// keeps the completion streak and suggestion history in the state store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/rephrase"
	"github.com/sandeepkv93/focusflow/internal/storage"
)

const (
	InvalidEnergyPrompt = "⚡ Tell me your energy level (low, medium, high) to get a tailored suggestion."

	DefaultRephraseTimeout    = 20 * time.Second
	DefaultLowEnergyThreshold = 3
)

var (
	ErrNilStore     = errors.New("engine: nil store")
	ErrNilRephraser = errors.New("engine: nil rephraser")
)

type plan struct {
	base string
	tip  string
}

var plans = map[model.Energy]plan{
	model.EnergyLow: {
		base: "Do a quick 10–15 min task like clearing emails or tidying your desk.",
		tip:  "🌬️ Try a 2-min breathing exercise to recharge.",
	},
	model.EnergyMedium: {
		base: "Do a 25–30 min focus block, like writing a draft or coding a feature.",
		tip:  "🎵 Put on your favorite playlist to keep the flow.",
	},
	model.EnergyHigh: {
		base: "Go for a 45–60 min deep work sprint on your hardest task.",
		tip:  "🤸 Take a quick stretch before diving in — prime your body for focus.",
	},
}

// BaseSuggestion returns the unrephrased suggestion for e.
func BaseSuggestion(e model.Energy) string {
	return plans[e].base
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRephraseTimeout bounds each rephrase call. Zero or negative disables
// the engine's own deadline.
func WithRephraseTimeout(d time.Duration) Option {
	return func(e *Engine) { e.rephraseTimeout = d }
}

func WithLowEnergyThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.lowThreshold = n
		}
	}
}

// Engine owns the in-memory TaskState. Every mutating call works on a clone
// and commits it only after the store accepted the write.
//
// opMu serializes Suggest and MarkCompleted across the rephrase and save.
// mu guards state only, so readers never wait on a rephrase call.
type Engine struct {
	opMu            sync.Mutex
	mu              sync.RWMutex
	state           model.TaskState
	store           storage.Store
	rephraser       rephrase.Rephraser
	now             func() time.Time
	logger          *slog.Logger
	rephraseTimeout time.Duration
	lowThreshold    int
}

// New loads the persisted state once and returns an engine bound to it.
func New(ctx context.Context, store storage.Store, rephraser rephrase.Rephraser, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if rephraser == nil {
		return nil, ErrNilRephraser
	}
	e := &Engine{
		store:           store,
		rephraser:       rephraser,
		now:             time.Now,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		rephraseTimeout: DefaultRephraseTimeout,
		lowThreshold:    DefaultLowEnergyThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	state, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	state.Normalize()
	e.state = state
	e.logger.Debug("state loaded",
		"completed", len(state.Completed),
		"suggested", len(state.Suggested),
		"streak", state.Streak,
		"low_count", state.LowCount,
	)
	return e, nil
}

// Suggest returns a rephrased suggestion and tip joined by a newline. Unknown
// energy levels get InvalidEnergyPrompt and leave the state untouched.
func (e *Engine) Suggest(ctx context.Context, energy string) (string, error) {
	level, err := model.ParseEnergy(energy)
	if err != nil {
		e.logger.Debug("invalid energy level", "energy", energy)
		return InvalidEnergyPrompt, nil
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	next := e.Snapshot()
	p := plans[level]
	tip := p.tip
	if level == model.EnergyLow {
		next.LowCount++
		if next.LowCount < e.lowThreshold {
			tip = ""
		}
	} else {
		next.LowCount = 0
	}

	motivational, err := e.rephrase(ctx, p.base)
	if err != nil {
		e.logger.Warn("rephrase failed", "energy", level, "err", err)
		return "", fmt.Errorf("suggest %s: %w", level, err)
	}

	next.Suggested = append(next.Suggested, model.SuggestionRecord{
		Energy: level,
		Task:   motivational,
		Tip:    tip,
	})
	if err := e.commit(ctx, next); err != nil {
		return "", fmt.Errorf("suggest %s: %w", level, err)
	}
	e.logger.Info("suggestion recorded", "energy", level, "low_count", next.LowCount, "tip", tip != "")
	return motivational + "\n" + tip, nil
}

// MarkCompleted records task as done today and advances the streak.
func (e *Engine) MarkCompleted(ctx context.Context, task string) (string, error) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	today := e.now()
	next := e.Snapshot()
	streak, transition, err := model.NextStreak(next.LastCompleted, next.Streak, today)
	if err != nil {
		return "", fmt.Errorf("mark completed: %w", err)
	}
	date := model.FormatDate(today)
	next.Streak = streak
	next.LastCompleted = &date
	next.Completed = append(next.Completed, task)

	if err := e.commit(ctx, next); err != nil {
		return "", fmt.Errorf("mark completed: %w", err)
	}
	e.logger.Info("task completed", "transition", transition, "streak", streak, "date", date)
	return fmt.Sprintf("✅ Task marked complete: %s\n🔥 Flow Streak: %d days!", task, streak), nil
}

// Summary reports completed vs suggested counts and the current streak.
func (e *Engine) Summary() string {
	s := e.Stats()
	return fmt.Sprintf("You’ve completed %d/%d tasks. 🔥 Current Flow Streak: %d days. Keep it up!",
		s.Completed, s.Suggested, s.Streak)
}

type Stats struct {
	Completed     int
	Suggested     int
	Streak        int
	LowCount      int
	LastCompleted string
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := Stats{
		Completed: len(e.state.Completed),
		Suggested: len(e.state.Suggested),
		Streak:    e.state.Streak,
		LowCount:  e.state.LowCount,
	}
	if e.state.LastCompleted != nil {
		out.LastCompleted = *e.state.LastCompleted
	}
	return out
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() model.TaskState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

func (e *Engine) rephrase(ctx context.Context, base string) (string, error) {
	if e.rephraseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.rephraseTimeout)
		defer cancel()
	}
	out, err := e.rephraser.Rephrase(ctx, base)
	if err != nil {
		var re *rephrase.Error
		if !errors.As(err, &re) {
			err = &rephrase.Error{Provider: "custom", Err: err}
		}
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &rephrase.Error{Provider: "custom", Err: rephrase.ErrEmptyResponse}
	}
	return out, nil
}

func (e *Engine) commit(ctx context.Context, next model.TaskState) error {
	if err := e.store.Save(ctx, next); err != nil {
		e.logger.Warn("state save failed", "err", err)
		return err
	}
	e.mu.Lock()
	e.state = next
	e.mu.Unlock()
	return nil
}
