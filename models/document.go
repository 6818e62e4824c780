package models

import "time"

// Document represents the active uploaded document for a session.
// It is created on successful text extraction and destroyed when the
// session is cleared or replaced by a new upload.
type Document struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Text         string    `json:"-"`
	Pages        int       `json:"pages,omitempty"`
	ChunkCount   int       `json:"chunk_count"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Chunk is a contiguous span of a document's text, sized for embedding.
// StartIndex/EndIndex are rune offsets into the source text so a future
// citation feature can point back into the original.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Order      int    `json:"order"`
	Text       string `json:"text"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	CharCount  int    `json:"char_count"`
}

// SearchResult pairs a chunk with its similarity score for one query.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// UploadResponse is returned after a successful upload + indexing pass
type UploadResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	ChunkCount int       `json:"chunk_count"`
	Pages      int       `json:"pages,omitempty"`
	Entities   []Entity  `json:"entities,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Entity is a named entity surfaced from the uploaded document
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Document processing status constants
const (
	StatusIndexed = "indexed"
	StatusFailed  = "failed"
)
