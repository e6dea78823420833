package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func openAIServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error": "boom"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func TestClientGenerate(t *testing.T) {
	srv := openAIServer(t, "Once upon a time.", http.StatusOK)
	defer srv.Close()

	c := NewClient("test-key",
		WithAPIConfig(srv.URL, "test-model"),
		WithRateLimit(6000, 100),
	)

	got, err := c.Generate(context.Background(), "a prompt", 100, 0.5)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "Once upon a time." {
		t.Errorf("Generate() = %q", got)
	}
}

func TestClientGenerateAPIError(t *testing.T) {
	srv := openAIServer(t, "", http.StatusTooManyRequests)
	defer srv.Close()

	c := NewClient("test-key",
		WithAPIConfig(srv.URL, "test-model"),
		WithRateLimit(6000, 100),
	)

	_, err := c.Generate(context.Background(), "a prompt", 100, 0.5)
	if err == nil {
		t.Fatal("Generate() should fail on non-200 status")
	}
	if !IsGenerationError(err) {
		t.Errorf("error %v is not tagged as a generation error", err)
	}
}

func TestClientGenerateEmptyResponse(t *testing.T) {
	srv := openAIServer(t, "   ", http.StatusOK)
	defer srv.Close()

	c := NewClient("test-key",
		WithAPIConfig(srv.URL, "test-model"),
		WithRateLimit(6000, 100),
	)

	_, err := c.Generate(context.Background(), "a prompt", 100, 0.5)
	if !IsGenerationError(err) {
		t.Fatalf("blank completion must be a generation error, got %v", err)
	}
}

func TestClientAPITypeDetection(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"https://api.openai.com/v1", "openai"},
		{"https://api.anthropic.com/v1", "anthropic"},
		{"http://localhost:8080/v1", "openai"},
	}

	for _, tt := range tests {
		c := NewClient("k", WithAPIConfig(tt.baseURL, "m"))
		if c.apiType != tt.want {
			t.Errorf("apiType for %q = %q, want %q", tt.baseURL, c.apiType, tt.want)
		}
	}
}

func TestClientAnthropicRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "test-key" {
			t.Errorf("x-api-key = %q", key)
		}
		if v := r.Header.Get("anthropic-version"); v == "" {
			t.Error("anthropic-version header missing")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": "A gentle tale."}},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key",
		WithAPIConfig(srv.URL, "test-model"),
		WithRateLimit(6000, 100),
	)
	c.apiType = "anthropic"

	got, err := c.Generate(context.Background(), "a prompt", 100, 0.5)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "A gentle tale." {
		t.Errorf("Generate() = %q", got)
	}
}
