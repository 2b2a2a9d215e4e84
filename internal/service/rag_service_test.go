package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"konsul-pajak-go/internal/model"
	"konsul-pajak-go/pkg/llm"
)

type stubRetrieval struct {
	sources []model.SourceCitation
}

func (s *stubRetrieval) Retrieve(context.Context, string, int) []model.SourceCitation {
	return s.sources
}

type stubLLM struct {
	answer       string
	err          error
	lastMessages []llm.Message
	lastGen      *llm.GenerationParams
}

func (s *stubLLM) Complete(_ context.Context, messages []llm.Message, gen *llm.GenerationParams) (string, error) {
	s.lastMessages = messages
	s.lastGen = gen
	return s.answer, s.err
}

func TestAnswerBuildsPromptFromSources(t *testing.T) {
	page := 7
	retrieval := &stubRetrieval{sources: []model.SourceCitation{
		{Source: "UU PPh", Page: &page, Snippet: "penggalan pertama"},
		{Source: "UU PPN", Snippet: "penggalan kedua"},
	}}
	client := &stubLLM{answer: "jawaban"}
	svc := NewRAGService(retrieval, client)

	answer, sources := svc.Answer(context.Background(), "Apa tarif PPh?", nil)
	if answer != "jawaban" {
		t.Fatalf("unexpected answer: %q", answer)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}

	if len(client.lastMessages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(client.lastMessages))
	}
	if client.lastMessages[0].Role != "system" {
		t.Fatalf("first message should be the system prompt, got %q", client.lastMessages[0].Role)
	}
	userPrompt := client.lastMessages[1].Content
	if !strings.Contains(userPrompt, "[#1] UU PPh (hal 7)") {
		t.Fatalf("first reference block missing: %q", userPrompt)
	}
	if !strings.Contains(userPrompt, "[#2] UU PPN") {
		t.Fatalf("second reference block missing: %q", userPrompt)
	}
	if !strings.Contains(userPrompt, "Pertanyaan: Apa tarif PPh?") {
		t.Fatalf("question missing from prompt: %q", userPrompt)
	}

	if client.lastGen == nil || client.lastGen.Temperature == nil || *client.lastGen.Temperature != generationTemperature {
		t.Fatalf("expected fixed temperature, got %+v", client.lastGen)
	}
}

func TestAnswerWithoutSourcesUsesNoContextPrompt(t *testing.T) {
	client := &stubLLM{answer: "jawaban umum"}
	svc := NewRAGService(&stubRetrieval{}, client)

	answer, sources := svc.Answer(context.Background(), "Apa itu NPWP?", nil)
	if answer != "jawaban umum" {
		t.Fatalf("unexpected answer: %q", answer)
	}
	if len(sources) != 0 {
		t.Fatalf("expected no sources, got %d", len(sources))
	}

	userPrompt := client.lastMessages[len(client.lastMessages)-1].Content
	if !strings.Contains(userPrompt, "Tidak ada konteks tambahan") {
		t.Fatalf("expected the no-context prompt, got %q", userPrompt)
	}
	if strings.Contains(userPrompt, "Konteks:") {
		t.Fatalf("no-context prompt must not carry a context block: %q", userPrompt)
	}
}

func TestAnswerIncludesHistoryBetweenSystemAndUser(t *testing.T) {
	client := &stubLLM{answer: "jawaban"}
	svc := NewRAGService(&stubRetrieval{}, client)

	history := []model.ChatMessage{
		{Role: model.RoleUser, Content: "pertanyaan lama"},
		{Role: model.RoleAssistant, Content: "jawaban lama"},
	}
	svc.Answer(context.Background(), "pertanyaan baru", history)

	if len(client.lastMessages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(client.lastMessages))
	}
	if client.lastMessages[1].Content != "pertanyaan lama" || client.lastMessages[2].Content != "jawaban lama" {
		t.Fatalf("history out of order: %+v", client.lastMessages[1:3])
	}
}

func TestAnswerDegradesToFallbackOnProviderError(t *testing.T) {
	retrieval := &stubRetrieval{sources: []model.SourceCitation{{Source: "UU KUP"}}}
	client := &stubLLM{err: errors.New("provider down")}
	svc := NewRAGService(retrieval, client)

	answer, sources := svc.Answer(context.Background(), "pertanyaan", nil)
	if answer != fallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", answer)
	}
	// Retrieval succeeded before the failure, so citations survive.
	if len(sources) != 1 {
		t.Fatalf("expected retrieved sources kept, got %d", len(sources))
	}
}

func TestAnswerSubstitutesEmptyCompletion(t *testing.T) {
	client := &stubLLM{answer: "   \n "}
	svc := NewRAGService(&stubRetrieval{}, client)

	answer, _ := svc.Answer(context.Background(), "pertanyaan", nil)
	if answer != emptyAnswer {
		t.Fatalf("expected the empty-completion default, got %q", answer)
	}
}
