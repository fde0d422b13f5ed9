package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/suggest low", TypeSuggest},
		{"s high", TypeSuggest},
		{"done write the draft", TypeDone},
		{"/complete tidy desk", TypeDone},
		{"summary", TypeSummary},
		{"/STATS", TypeSummary},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("/done   write   the draft ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Done == nil || cmd.Done.Task != "write the draft" {
		t.Fatalf("unexpected done args: %+v", cmd.Done)
	}

	cmd, err = Parse("suggest extreme")
	if err != nil {
		t.Fatalf("unknown energy should still parse: %v", err)
	}
	if cmd.Suggest.Energy != "extreme" {
		t.Fatalf("unexpected energy: %q", cmd.Suggest.Energy)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in   string
		code ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"  /  ", ErrCodeEmptyInput},
		{"/unknown do x", ErrCodeUnknownCommand},
		{"suggest", ErrCodeInvalidArgument},
		{"done   ", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != tc.code {
			t.Fatalf("parse %q: expected %s, got %v", tc.in, tc.code, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/suggest medium")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Suggest: func(a SuggestArgs) (Result, error) {
			called = true
			if a.Energy != "medium" {
				t.Fatalf("unexpected energy: %q", a.Energy)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("summary")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
