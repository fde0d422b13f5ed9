package rephrase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGeminiRephraseSuccess(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  You've got this, "},{"text":"tidy up!  \n"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini(GeminiOptions{APIKey: "k-123", Endpoint: srv.URL + "/", HTTPClient: srv.Client()})
	out, err := g.Rephrase(context.Background(), "Tidy your desk.")
	if err != nil {
		t.Fatalf("rephrase: %v", err)
	}
	if out != "You've got this, tidy up!" {
		t.Fatalf("unexpected output: %q", out)
	}
	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "k-123" {
		t.Fatalf("unexpected api key header: %q", gotKey)
	}
	if !strings.Contains(gotPrompt, `"Tidy your desk."`) || !strings.Contains(gotPrompt, "motivational") {
		t.Fatalf("unexpected prompt: %q", gotPrompt)
	}
}

func TestGeminiRephraseAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	g := NewGemini(GeminiOptions{APIKey: "k", Endpoint: srv.URL, HTTPClient: srv.Client()})
	_, err := g.Rephrase(context.Background(), "x")
	var re *Error
	if !errors.As(err, &re) || re.Provider != ProviderGemini {
		t.Fatalf("expected rephrase Error, got: %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 429 || apiErr.Message != "quota exceeded" {
		t.Fatalf("expected APIError 429, got: %v", err)
	}
}

func TestGeminiRephraseEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := NewGemini(GeminiOptions{APIKey: "k", Endpoint: srv.URL, HTTPClient: srv.Client()})
	if _, err := g.Rephrase(context.Background(), "x"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got: %v", err)
	}
}

func TestGeminiRephraseHonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g := NewGemini(GeminiOptions{APIKey: "k", Endpoint: srv.URL, HTTPClient: srv.Client()})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := g.Rephrase(ctx, "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got: %v", err)
	}
}

func TestGeminiMissingKey(t *testing.T) {
	g := NewGemini(GeminiOptions{})
	if g.Model() != DefaultGeminiModel {
		t.Fatalf("unexpected default model: %s", g.Model())
	}
	var re *Error
	if _, err := g.Rephrase(context.Background(), "x"); !errors.As(err, &re) {
		t.Fatalf("expected rephrase Error, got: %v", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	r, err := New(ProviderPassthrough, GeminiOptions{})
	if err != nil {
		t.Fatalf("new passthrough: %v", err)
	}
	out, err := r.Rephrase(context.Background(), "same text")
	if err != nil || out != "same text" {
		t.Fatalf("passthrough changed text: %q, %v", out, err)
	}
	if _, err := New("gpt", GeminiOptions{}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if _, ok := mustNew(t, ProviderGemini).(*Gemini); !ok {
		t.Fatal("expected gemini rephraser")
	}
}

func mustNew(t *testing.T, provider string) Rephraser {
	t.Helper()
	r, err := New(provider, GeminiOptions{APIKey: "k"})
	if err != nil {
		t.Fatalf("new %s: %v", provider, err)
	}
	return r
}
