package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Suggest func(SuggestArgs) (Result, error)
	Done    func(DoneArgs) (Result, error)
	Summary func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeSuggest:
		if handlers.Suggest == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "suggest handler not configured"}
		}
		return handlers.Suggest(*cmd.Suggest)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeSummary:
		if handlers.Summary == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "summary handler not configured"}
		}
		return handlers.Summary()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
