package store

// Document is a retrieved chunk plus enough metadata to cite it. The RAG
// layer passes these around instead of repository entities.
type Document struct {
	ID           string                 `json:"id"`
	DocumentID   string                 `json:"document_id"`
	DocumentType string                 `json:"document_type"`
	Content      string                 `json:"content"`
	Score        float64                `json:"score"`
	ChunkIndex   int                    `json:"chunk_index"`
	Metadata     map[string]interface{} `json:"metadata"`
}
