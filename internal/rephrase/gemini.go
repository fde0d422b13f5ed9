package rephrase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel    = "gemini-1.5-flash"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// Gemini calls the Generative Language generateContent endpoint.
type Gemini struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewGemini(opts GeminiOptions) *Gemini {
	g := &Gemini{
		apiKey:   strings.TrimSpace(opts.APIKey),
		model:    strings.TrimSpace(opts.Model),
		endpoint: strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/"),
		client:   opts.HTTPClient,
	}
	if g.model == "" {
		g.model = DefaultGeminiModel
	}
	if g.endpoint == "" {
		g.endpoint = DefaultGeminiEndpoint
	}
	if g.client == nil {
		g.client = &http.Client{}
	}
	return g
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Rephrase(ctx context.Context, text string) (string, error) {
	out, err := g.generate(ctx, Prompt(text))
	if err != nil {
		return "", &Error{Provider: ProviderGemini, Err: err}
	}
	return out, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini api key not set")
	}
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var ge geminiError
		if json.Unmarshal(respBody, &ge) == nil {
			apiErr.Message = ge.Error.Message
		}
		return "", apiErr
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	for _, cand := range parsed.Candidates {
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
		if out := strings.TrimSpace(b.String()); out != "" {
			return out, nil
		}
	}
	return "", ErrEmptyResponse
}
