package model

import (
	"fmt"
	"strings"
	"time"
)

type StreakTransition string

const (
	TransitionFirst    StreakTransition = "first"
	TransitionContinue StreakTransition = "continue"
	TransitionReset    StreakTransition = "reset"
	TransitionSameDay  StreakTransition = "same_day"
)

// NextStreak computes the streak after a completion on today's calendar date.
// A last date after today (clock moved backwards) leaves the streak unchanged.
func NextStreak(last *string, streak int, today time.Time) (int, StreakTransition, error) {
	if last == nil || strings.TrimSpace(*last) == "" {
		return 1, TransitionFirst, nil
	}
	lastDay, err := ParseDate(*last)
	if err != nil {
		return streak, "", err
	}
	switch days := DaysBetween(lastDay, today); {
	case days == 1:
		return streak + 1, TransitionContinue, nil
	case days >= 2:
		return 1, TransitionReset, nil
	default:
		return streak, TransitionSameDay, nil
	}
}

func ParseDate(raw string) (time.Time, error) {
	out, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return out, nil
}

// FormatDate renders the calendar date of t in t's own location.
func FormatDate(t time.Time) string {
	return calendarDay(t).Format(DateLayout)
}

// DaysBetween counts calendar days from a to b, ignoring time of day.
func DaysBetween(a, b time.Time) int {
	return int(calendarDay(b).Sub(calendarDay(a)).Hours() / 24)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
