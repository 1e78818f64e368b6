package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const ollamaOKBody = `{
	"model": "llama3:8b",
	"choices": [
		{"message": {"role": "assistant", "content": "Ollama response"}}
	],
	"usage": {"prompt_tokens": 5, "completion_tokens": 7}
}`

func TestOllamaProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "llama3:8b" {
			t.Errorf("model = %q, want default", req.Model)
		}

		w.Write([]byte(ollamaOKBody))
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL)

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "Ollama response" {
		t.Errorf("content = %q, want %q", resp.Content, "Ollama response")
	}
	if resp.InputTokens != 5 || resp.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d, want 5/7", resp.InputTokens, resp.OutputTokens)
	}
}

func TestOllamaProvider_Complete_JSONOutput(t *testing.T) {
	var received chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(ollamaOKBody))
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, WithOllamaModel("mistral"))

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages:   []Message{{Role: "user", Content: "hello"}},
		JSONOutput: true,
	})

	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if received.Model != "mistral" {
		t.Errorf("model = %q, want %q", received.Model, "mistral")
	}
	if received.ResponseFormat == nil || received.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", received.ResponseFormat)
	}
}

func TestOllamaProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL)

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})

	if err == nil {
		t.Fatal("Complete() should return error on non-200 status")
	}
}

func TestOllamaProvider_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model": "llama3:8b", "choices": []}`))
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL)

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})

	if err == nil {
		t.Fatal("Complete() should return error on empty choices")
	}
}

func TestOllamaProvider_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL)
	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
