// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The caller must call Close on the returned server.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

// openAISuccessBody builds a JSON body matching the OpenAI chat completions
// response format with a single choice containing the given text.
func openAISuccessBody(text string) []byte {
	resp := openAIResponse{
		Choices: []openAIChoice{
			{Message: openAIMessage{Role: "assistant", Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// claudeSuccessBody builds a JSON body matching the Anthropic Messages
// response format with a single text content block.
func claudeSuccessBody(text string) []byte {
	resp := claudeResponse{
		Content: []claudeContentBlock{
			{Type: "text", Text: text},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// geminiSuccessBody builds a JSON body matching the Gemini generateContent
// response format with a single candidate containing the given text.
func geminiSuccessBody(text string) []byte {
	resp := geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// =====================================================================
// OpenAI Provider Tests
// =====================================================================

func TestOpenAIGenerate_Success(t *testing.T) {
	want := "Hello from OpenAI"
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: srv.URL,
	})

	got, err := p.Generate(context.Background(), "You are helpful.", "Say hello")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestOpenAIGenerate_SendsFixedGenerationParams(t *testing.T) {
	// Capture the request sent by the provider.
	var capturedHeaders http.Header
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(openAISuccessBody("ok"))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{
		APIKey:  "sk-test-12345",
		Model:   "gpt-4o",
		BaseURL: srv.URL,
		Params:  GenParams{Temperature: 0.7, MaxTokens: 1000},
	})

	_, err := p.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}

	if auth := capturedHeaders.Get("Authorization"); auth != "Bearer sk-test-12345" {
		t.Errorf("Authorization header: got %q, want %q", auth, "Bearer sk-test-12345")
	}

	var reqBody openAIRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.Model != "gpt-4o" {
		t.Errorf("request model: got %q, want %q", reqBody.Model, "gpt-4o")
	}
	if reqBody.Temperature != 0.7 {
		t.Errorf("request temperature: got %v, want 0.7", reqBody.Temperature)
	}
	if reqBody.MaxTokens != 1000 {
		t.Errorf("request max_tokens: got %d, want 1000", reqBody.MaxTokens)
	}
	if len(reqBody.Messages) != 2 {
		t.Fatalf("request messages count: got %d, want 2", len(reqBody.Messages))
	}
	if reqBody.Messages[0].Role != "system" || reqBody.Messages[0].Content != "system prompt" {
		t.Errorf("system message: got %+v", reqBody.Messages[0])
	}
	if reqBody.Messages[1].Role != "user" || reqBody.Messages[1].Content != "user prompt" {
		t.Errorf("user message: got %+v", reqBody.Messages[1])
	}
}

func TestOpenAIGenerate_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit exceeded"}`))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")
	if err == nil {
		t.Fatal("Generate: expected error, got nil")
	}

	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected *RateLimitedError, got %T: %v", err, err)
	}
	if rateErr.Provider != "openai" {
		t.Errorf("provider: got %q, want %q", rateErr.Provider, "openai")
	}
	if rateErr.RetryAfter != 30*time.Second {
		t.Errorf("retry after: got %s, want 30s", rateErr.RetryAfter)
	}
}

func TestOpenAIGenerate_RateLimitedWithoutHint(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")

	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected *RateLimitedError, got %T: %v", err, err)
	}
	if rateErr.RetryAfter != 0 {
		t.Errorf("retry after without header: got %s, want 0", rateErr.RetryAfter)
	}
}

func TestOpenAIGenerate_ServiceUnavailable(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, []byte(`upstream down`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestOpenAIGenerate_ConnectionRefused(t *testing.T) {
	// Point at a closed server so the dial fails.
	srv := newTestServer(t, http.StatusOK, openAISuccessBody("ok"))
	url := srv.URL
	srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: url})

	_, err := p.Generate(context.Background(), "sys", "user")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for refused connection, got %v", err)
	}
}

func TestOpenAIGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, "sys", "user")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestOpenAIGenerate_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, []byte(`{"error":"bad key"}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "bad-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", apiErr.StatusCode)
	}
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"choices":[]}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")
	if err == nil {
		t.Error("expected error for empty choices, got nil")
	}
}

// =====================================================================
// Claude Provider Tests
// =====================================================================

func TestClaudeGenerate_Success(t *testing.T) {
	want := "Hello from Claude"
	srv := newTestServer(t, http.StatusOK, claudeSuccessBody(want))
	defer srv.Close()

	p := newClaude(ProviderConfig{
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-6",
		BaseURL: srv.URL,
	})

	got, err := p.Generate(context.Background(), "You are helpful.", "Say hello")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestClaudeGenerate_VerifiesRequestShape(t *testing.T) {
	var capturedHeaders http.Header
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write(claudeSuccessBody("ok"))
	}))
	defer srv.Close()

	p := newClaude(ProviderConfig{
		APIKey:  "sk-ant-test",
		Model:   "claude-sonnet-4-6",
		BaseURL: srv.URL,
		Params:  GenParams{Temperature: 0.7, MaxTokens: 1000},
	})

	_, err := p.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}

	if key := capturedHeaders.Get("x-api-key"); key != "sk-ant-test" {
		t.Errorf("x-api-key: got %q, want %q", key, "sk-ant-test")
	}
	if ver := capturedHeaders.Get("anthropic-version"); ver == "" {
		t.Error("anthropic-version header not set")
	}

	var reqBody claudeRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.System != "system prompt" {
		t.Errorf("system: got %q", reqBody.System)
	}
	if reqBody.MaxTokens != 1000 {
		t.Errorf("max_tokens: got %d, want 1000", reqBody.MaxTokens)
	}
}

func TestClaudeGenerate_RateLimited(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{"error":"overloaded"}`))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "test-key", Model: "claude-sonnet-4-6", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")

	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected *RateLimitedError, got %T: %v", err, err)
	}
	if rateErr.Provider != "claude" {
		t.Errorf("provider: got %q, want %q", rateErr.Provider, "claude")
	}
}

// =====================================================================
// Gemini Provider Tests
// =====================================================================

func TestGeminiGenerate_Success(t *testing.T) {
	want := "Hello from Gemini"
	srv := newTestServer(t, http.StatusOK, geminiSuccessBody(want))
	defer srv.Close()

	p := newGemini(ProviderConfig{
		APIKey:  "test-key",
		Model:   "gemini-3.1-pro-preview",
		BaseURL: srv.URL,
	})

	got, err := p.Generate(context.Background(), "You are helpful.", "Say hello")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestGeminiGenerate_ServiceUnavailable(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, []byte(`overloaded`))
	defer srv.Close()

	p := newGemini(ProviderConfig{APIKey: "test-key", Model: "gemini-3.1-pro-preview", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

// =====================================================================
// Mistral Provider Tests
// =====================================================================

func TestMistralGenerate_Success(t *testing.T) {
	want := "Hello from Mistral"
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newMistral(ProviderConfig{
		APIKey:  "test-key",
		Model:   "mistral-large-latest",
		BaseURL: srv.URL,
	})

	got, err := p.Generate(context.Background(), "You are helpful.", "Say hello")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
	if p.Name() != "mistral" {
		t.Errorf("Name: got %q, want %q", p.Name(), "mistral")
	}
}

func TestMistralGenerate_RateLimitedReportsMistral(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, []byte(`{}`))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "test-key", Model: "mistral-large-latest", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "sys", "user")

	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected *RateLimitedError, got %T: %v", err, err)
	}
	if rateErr.Provider != "mistral" {
		t.Errorf("provider: got %q, want %q", rateErr.Provider, "mistral")
	}
}
