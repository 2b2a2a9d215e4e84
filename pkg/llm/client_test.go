package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"konsul-pajak-go/internal/config"
)

func TestCompleteSendsMessagesAndParams(t *testing.T) {
	var received chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "jawaban model"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
	})

	temp := 0.2
	answer, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "sistem"},
		{Role: "user", Content: "pertanyaan"},
	}, &GenerationParams{Temperature: &temp})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if answer != "jawaban model" {
		t.Fatalf("unexpected answer: %q", answer)
	}

	if received.Model != "gpt-4o-mini" {
		t.Fatalf("model not forwarded: %q", received.Model)
	}
	if len(received.Messages) != 2 || received.Messages[1].Content != "pertanyaan" {
		t.Fatalf("messages not forwarded: %+v", received.Messages)
	}
	if received.Temperature == nil || *received.Temperature != 0.2 {
		t.Fatalf("temperature not forwarded: %+v", received.Temperature)
	}
}

func TestCompleteReturnsEmptyOnNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{BaseURL: server.URL})
	answer, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if answer != "" {
		t.Fatalf("expected empty answer, got %q", answer)
	}
}

func TestCompleteSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{BaseURL: server.URL})
	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, nil); err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}
