package screener

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newMockAnalyzer points an Analyzer at a test server.
func newMockAnalyzer(serverURL string) *Analyzer {
	a := NewAnalyzer("test-key")
	a.client.SetBaseURL(serverURL)
	return a
}

func analysisDoc() *ProfileDocument {
	return &ProfileDocument{
		URL:             "https://www.linkedin.com/in/jane",
		PageTitle:       "Jane Doe | LinkedIn",
		MetaDescription: "Engineer at Acme",
		VisibleText:     "10 years of experience shipping distributed systems.",
	}
}

func chatOK(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

const modelNotFoundBody = `{"error":{"message":"The model 'gpt-5' does not exist","code":"model_not_found"}}`

func TestAnalyzeReturnsReport(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatOK("Risk Assessment: Low")))
	}))
	defer srv.Close()

	a := newMockAnalyzer(srv.URL)
	report, err := a.Analyze(context.Background(), analysisDoc())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report != "Risk Assessment: Low" {
		t.Errorf("unexpected report %q", report)
	}

	if gotReq.Model != DefaultModel {
		t.Errorf("expected model %q, got %q", DefaultModel, gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}
	user := gotReq.Messages[1].Content
	for _, want := range []string{
		"https://www.linkedin.com/in/jane",
		"Jane Doe | LinkedIn",
		"Engineer at Acme",
		"distributed systems",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyzeFallsBackWhenModelUnavailable(t *testing.T) {
	t.Parallel()

	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)

		if req.Model == DefaultModel {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(modelNotFoundBody))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatOK("fallback report")))
	}))
	defer srv.Close()

	a := newMockAnalyzer(srv.URL)
	report, err := a.Analyze(context.Background(), analysisDoc())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report != "fallback report" {
		t.Errorf("unexpected report %q", report)
	}
	if len(models) != 2 || models[0] != DefaultModel || models[1] != FallbackModel {
		t.Errorf("expected [%s %s], got %v", DefaultModel, FallbackModel, models)
	}
}

func TestAnalyzeNoSecondFallback(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(modelNotFoundBody))
	}))
	defer srv.Close()

	a := newMockAnalyzer(srv.URL).WithModel(FallbackModel)
	_, err := a.Analyze(context.Background(), analysisDoc())
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if calls != 1 {
		t.Errorf("fallback model must not retry against itself, got %d calls", calls)
	}
}

func TestAnalyzeOtherAPIErrorsDoNotFallBack(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","code":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	a := newMockAnalyzer(srv.URL)
	_, err := a.Analyze(context.Background(), analysisDoc())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrModelUnavailable) {
		t.Errorf("rate limit must not look like a missing model: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	a := newMockAnalyzer(srv.URL)
	if _, err := a.Analyze(context.Background(), analysisDoc()); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestBuildPromptSubstitutesMissingFields(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt(&ProfileDocument{URL: "https://www.linkedin.com/in/jane"})
	if !strings.Contains(prompt, "Page Title: N/A") {
		t.Error("missing title must render as N/A")
	}
	if !strings.Contains(prompt, "Meta Description: N/A") {
		t.Error("missing meta description must render as N/A")
	}
}

func TestIsModelUnavailable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		message string
		code    string
		want    bool
	}{
		{"code match", "whatever", "model_not_found", true},
		{"does not exist", "The model `gpt-5` does not exist or you do not have access", "", true},
		{"message mentions code", "error: model_not_found", "", true},
		{"rate limit", "Rate limit reached", "rate_limit_exceeded", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isModelUnavailable(tt.message, tt.code); got != tt.want {
				t.Errorf("isModelUnavailable(%q, %q) = %v, want %v", tt.message, tt.code, got, tt.want)
			}
		})
	}
}
