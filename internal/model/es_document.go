package model

// EsDocument is one ingested passage as stored in the Elasticsearch index.
// Ingestion happens out-of-band; this service only reads.
type EsDocument struct {
	TextContent string    `json:"text_content"`
	Vector      []float32 `json:"vector,omitempty"`
	Title       string    `json:"title,omitempty"`
	Source      string    `json:"source,omitempty"`
	UU          string    `json:"uu,omitempty"`
	Page        *int      `json:"page,omitempty"`
}
