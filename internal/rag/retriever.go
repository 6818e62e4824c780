package rag

import (
	"context"
	"fmt"
	"strings"

	"aethon-assistant/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Retriever orchestrates indexing and retrieval against the session
// store. It owns no state beyond its collaborators, so a test can
// substitute a deterministic Embedder.
type Retriever struct {
	embedder Embedder
	sessions *SessionStore
}

func NewRetriever(embedder Embedder, sessions *SessionStore) *Retriever {
	return &Retriever{embedder: embedder, sessions: sessions}
}

// Sessions exposes the session store for status and clear endpoints
func (r *Retriever) Sessions() *SessionStore {
	return r.sessions
}

// IndexDocument segments doc.Text, embeds every chunk and atomically
// replaces the active session with the freshly built index. Any failure
// aborts before the swap, leaving the previous session untouched.
// Returns the number of chunks indexed.
func (r *Retriever) IndexDocument(ctx context.Context, doc models.Document, chunkSize, overlap int) (int, error) {
	chunks, err := Segment(doc.Text, chunkSize, overlap)
	if err != nil {
		return 0, err
	}
	return r.IndexChunks(ctx, doc, chunks)
}

// IndexChunks embeds pre-segmented chunks and installs the resulting
// index. It is the rebuild path for snapshot restores, where chunks
// already exist but vectors must be recomputed.
func (r *Retriever) IndexChunks(ctx context.Context, doc models.Document, chunks []models.Chunk) (int, error) {
	tracer := otel.Tracer("rag")
	ctx, span := tracer.Start(ctx, "rag.index_document")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.id", doc.ID),
		attribute.Int("document.chunks", len(chunks)),
	)

	index := NewVectorIndex()

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}

		vectors, err := r.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			span.RecordError(err)
			return 0, err
		}
		if len(vectors) != len(chunks) {
			err := &EmbeddingServiceError{
				Op:  "batch embed",
				Err: fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks)),
			}
			span.RecordError(err)
			return 0, err
		}

		for i := range chunks {
			chunks[i].DocumentID = doc.ID
			if err := index.Insert(chunks[i], vectors[i]); err != nil {
				span.RecordError(err)
				return 0, err
			}
		}
	}

	doc.ChunkCount = index.Len()
	r.sessions.Replace(doc, index)
	return index.Len(), nil
}

// Search embeds query and returns the top k chunks of the active
// document. Fails with ErrNoActiveDocument when nothing is indexed.
// Read-only: session state is never mutated.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	tracer := otel.Tracer("rag")
	ctx, span := tracer.Start(ctx, "rag.search")
	defer span.End()

	sess, ok := r.sessions.Current()
	if !ok {
		return nil, ErrNoActiveDocument
	}
	span.SetAttributes(
		attribute.String("document.id", sess.Document.ID),
		attribute.Int("retrieval.k", k),
	)

	vectors, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(vectors) != 1 {
		err := &EmbeddingServiceError{
			Op:  "query embed",
			Err: fmt.Errorf("got %d vectors for one query", len(vectors)),
		}
		span.RecordError(err)
		return nil, err
	}

	return sess.Index.Query(vectors[0], k)
}

// Retrieve formats the top k chunks for query into a single context
// block. Each chunk's text is kept verbatim under an excerpt header so
// downstream generation can attribute text to distinct chunks.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (string, error) {
	results, err := r.Search(ctx, query, k)
	if err != nil {
		return "", err
	}
	return FormatContext(results), nil
}

// FormatContext renders ranked chunks as delimiter-separated excerpts
func FormatContext(results []models.SearchResult) string {
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Excerpt %d]:\n%s", i+1, res.Chunk.Text)
	}
	return b.String()
}
