package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEnergy = errors.New("model: invalid energy level")
	ErrInvalidDate   = errors.New("model: invalid completion date")
)

// DateLayout is the on-disk format of last_completed.
const DateLayout = "2006-01-02"

type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

func (e Energy) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// BlockMinutes is the upper bound of the work block suggested for e.
func (e Energy) BlockMinutes() int {
	switch e {
	case EnergyLow:
		return 15
	case EnergyMedium:
		return 30
	case EnergyHigh:
		return 60
	default:
		return 0
	}
}

// ParseEnergy accepts exactly "low", "medium" or "high".
func ParseEnergy(raw string) (Energy, error) {
	e := Energy(raw)
	if !e.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEnergy, raw)
	}
	return e, nil
}

type SuggestionRecord struct {
	Energy Energy `json:"energy"`
	Task   string `json:"task"`
	Tip    string `json:"tip"`
}

type TaskState struct {
	Completed     []string           `json:"completed"`
	Suggested     []SuggestionRecord `json:"suggested"`
	LastCompleted *string            `json:"last_completed"`
	Streak        int                `json:"streak"`
	LowCount      int                `json:"low_count"`
}

func DefaultTaskState() TaskState {
	return TaskState{
		Completed: []string{},
		Suggested: []SuggestionRecord{},
	}
}

// Normalize replaces nil slices so the record always encodes as [] rather than null.
func (s *TaskState) Normalize() {
	if s.Completed == nil {
		s.Completed = []string{}
	}
	if s.Suggested == nil {
		s.Suggested = []SuggestionRecord{}
	}
}

// Clone returns a deep copy of s.
func (s TaskState) Clone() TaskState {
	out := TaskState{
		Completed: append([]string{}, s.Completed...),
		Suggested: append([]SuggestionRecord{}, s.Suggested...),
		Streak:    s.Streak,
		LowCount:  s.LowCount,
	}
	if s.LastCompleted != nil {
		last := *s.LastCompleted
		out.LastCompleted = &last
	}
	return out
}

func (s TaskState) Validate() error {
	if s.Streak < 0 {
		return errors.New("model: streak must be non-negative")
	}
	if s.LowCount < 0 {
		return errors.New("model: low_count must be non-negative")
	}
	if s.LastCompleted != nil {
		if _, err := ParseDate(*s.LastCompleted); err != nil {
			return err
		}
	}
	return nil
}
