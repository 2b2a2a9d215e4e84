package service

import (
	"context"
	"fmt"
	"strings"

	"konsul-pajak-go/internal/model"
	"konsul-pajak-go/pkg/llm"
	"konsul-pajak-go/pkg/log"
)

const (
	// retrievalTopK is how many passages are fetched per question.
	retrievalTopK = 4

	// generationTemperature is fixed low, favouring faithfulness to the
	// cited regulations over creativity.
	generationTemperature = 0.2

	systemPrompt = "Kamu adalah Konsul Pajak, asisten AI perpajakan Indonesia. " +
		"Jawab secara formal, ringkas, tetap sopan, dan sertakan dasar hukum bila tersedia. " +
		"Hindari spekulasi yang tidak berdasar."

	// fallbackAnswer is returned when the completion provider fails.
	fallbackAnswer = "Maaf, sistem sedang mengalami gangguan saat memproses pertanyaan Anda. " +
		"Silakan coba lagi beberapa saat lagi."

	// emptyAnswer substitutes an empty completion so the caller never
	// receives a blank assistant turn.
	emptyAnswer = "Maaf, saya belum dapat menemukan jawaban pasti. " +
		"Silakan ajukan pertanyaan lebih spesifik."
)

// RAGService coordinates retrieval and generation: fetch context, build the
// prompt, generate, and package answer plus citations.
type RAGService interface {
	// Answer responds to question given the bounded conversation history
	// (oldest first, capped by the caller). The returned answer is never
	// empty; sources may be.
	Answer(ctx context.Context, question string, history []model.ChatMessage) (string, []model.SourceCitation)
}

type ragService struct {
	retrieval RetrievalService
	llmClient llm.Client
}

// NewRAGService creates a RAGService.
func NewRAGService(retrieval RetrievalService, llmClient llm.Client) RAGService {
	return &ragService{
		retrieval: retrieval,
		llmClient: llmClient,
	}
}

// Answer runs the retrieve → prompt → generate pipeline. Generation
// failures degrade to a static apology while keeping whatever sources were
// already retrieved, so citations are not lost.
func (s *ragService) Answer(ctx context.Context, question string, history []model.ChatMessage) (string, []model.SourceCitation) {
	sources := s.retrieval.Retrieve(ctx, question, retrievalTopK)
	promptContext := buildPromptContext(sources)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: buildUserPrompt(promptContext, question)})

	temp := generationTemperature
	answer, err := s.llmClient.Complete(ctx, messages, &llm.GenerationParams{Temperature: &temp})
	if err != nil {
		log.Errorf("[RAGService] completion failed: %v", err)
		return fallbackAnswer, sources
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return emptyAnswer, sources
	}
	return answer, sources
}

// buildPromptContext renders the citations as indexed reference blocks in
// retrieval order, separated by blank lines.
func buildPromptContext(sources []model.SourceCitation) string {
	if len(sources) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(sources))
	for i, src := range sources {
		header := fmt.Sprintf("[#%d] %s", i+1, src.Source)
		if src.Page != nil {
			header += fmt.Sprintf(" (hal %d)", *src.Page)
		}
		blocks = append(blocks, header+"\n"+src.Snippet)
	}
	return strings.Join(blocks, "\n\n")
}

// buildUserPrompt combines the retrieved context with the literal question.
// When no context was found the prompt says so explicitly and asks for an
// answer based on general regulatory knowledge.
func buildUserPrompt(promptContext, question string) string {
	if promptContext != "" {
		return fmt.Sprintf(
			"Gunakan referensi berikut untuk menjawab pertanyaan perpajakan.\n\nKonteks:\n%s\n\nPertanyaan: %s",
			promptContext, question,
		)
	}
	return fmt.Sprintf(
		"Tidak ada konteks tambahan yang relevan. Jawab pertanyaan terkait perpajakan Indonesia sebaik mungkin berdasarkan peraturan resmi.\n\nPertanyaan: %s",
		question,
	)
}
