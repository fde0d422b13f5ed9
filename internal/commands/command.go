package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeSuggest Type = "suggest"
	TypeDone    Type = "done"
	TypeSummary Type = "summary"
)

var aliases = map[string]Type{
	"suggest":  TypeSuggest,
	"s":        TypeSuggest,
	"done":     TypeDone,
	"complete": TypeDone,
	"summary":  TypeSummary,
	"stats":    TypeSummary,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// SuggestArgs carries the energy verbatim; validating it is the engine's job.
type SuggestArgs struct {
	Energy string
}

type DoneArgs struct {
	Task string
}

type Command struct {
	Type    Type
	Raw     string
	Suggest *SuggestArgs
	Done    *DoneArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	typ, ok := aliases[head]
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
	switch typ {
	case TypeSuggest:
		return parseSuggest(input, args)
	case TypeDone:
		return parseDone(input, args)
	default:
		return Command{Type: TypeSummary, Raw: input}, nil
	}
}

func parseSuggest(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "suggest requires an energy level (low, medium, high)"}
	}
	return Command{Type: TypeSuggest, Raw: raw, Suggest: &SuggestArgs{Energy: strings.Join(args, " ")}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	task := strings.TrimSpace(strings.Join(args, " "))
	if task == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task description"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Task: task}}, nil
}
