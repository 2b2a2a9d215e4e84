package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"konsul-pajak-go/internal/model"
	"konsul-pajak-go/pkg/embedding"
	"konsul-pajak-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
)

// maxSnippetLength bounds each retrieved passage so citations cannot blow
// up the prompt.
const maxSnippetLength = 800

// RetrievalService performs semantic search over the tax document
// collection. Retrieval is an enhancement, not a hard dependency for
// answering: every failure degrades to an empty result set and is only
// logged, never surfaced to the caller.
type RetrievalService interface {
	Retrieve(ctx context.Context, query string, topK int) []model.SourceCitation
}

type retrievalService struct {
	embeddingClient embedding.Client
	esClient        *elasticsearch.Client
	indexName       string
}

// NewRetrievalService creates a RetrievalService querying the given index.
func NewRetrievalService(embeddingClient embedding.Client, esClient *elasticsearch.Client, indexName string) RetrievalService {
	return &retrievalService{
		embeddingClient: embeddingClient,
		esClient:        esClient,
		indexName:       indexName,
	}
}

// Retrieve returns up to topK passages ordered by decreasing similarity to
// the query, normalized into citations.
func (s *retrievalService) Retrieve(ctx context.Context, query string, topK int) []model.SourceCitation {
	queryVector, err := s.embeddingClient.CreateEmbedding(ctx, query)
	if err != nil {
		log.Errorf("[RetrievalService] failed to embed query: %v", err)
		return nil
	}

	esQuery := map[string]interface{}{
		"knn": map[string]interface{}{
			"field":          "vector",
			"query_vector":   queryVector,
			"k":              topK,
			"num_candidates": topK * 10,
		},
		"size":    topK,
		"_source": []string{"text_content", "title", "source", "uu", "page"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		log.Errorf("[RetrievalService] failed to encode es query: %v", err)
		return nil
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.indexName),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		log.Errorf("[RetrievalService] elasticsearch search failed: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		log.Errorf("[RetrievalService] elasticsearch returned an error, status: %s, body: %s", res.Status(), string(bodyBytes))
		return nil
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.EsDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		log.Errorf("[RetrievalService] failed to decode es response: %v", err)
		return nil
	}

	citations := make([]model.SourceCitation, 0, len(esResponse.Hits.Hits))
	for i, hit := range esResponse.Hits.Hits {
		citations = append(citations, normalizeCitation(hit.Source, i))
	}
	log.Infof("[RetrievalService] retrieved %d passages for query", len(citations))
	return citations
}

// normalizeCitation maps a raw passage into a citation. The source label is
// resolved from a priority-ordered set of metadata keys, falling back to a
// positional reference label.
func normalizeCitation(doc model.EsDocument, idx int) model.SourceCitation {
	source := doc.Title
	if source == "" {
		source = doc.Source
	}
	if source == "" {
		source = doc.UU
	}
	if source == "" {
		source = fmt.Sprintf("Referensi %d", idx+1)
	}

	return model.SourceCitation{
		Source:  source,
		Page:    doc.Page,
		Snippet: truncateRunes(doc.TextContent, maxSnippetLength),
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
