package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aethon-assistant/models"
)

// stubEmbedder maps each text to a fixed vector, falling back to a
// hash-free default so queries are deterministic.
type stubEmbedder struct {
	vectors map[string][]float32
	fail    error
	calls   int
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 1, 1}
		}
	}
	return out, nil
}

func TestSearchWithoutDocument(t *testing.T) {
	r := NewRetriever(&stubEmbedder{}, NewSessionStore())
	_, err := r.Search(context.Background(), "anything", 3)
	if !errors.Is(err, ErrNoActiveDocument) {
		t.Fatalf("got %v, want ErrNoActiveDocument", err)
	}
}

func TestIndexDocumentAndSearch(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
		"what":  {0.9, 0.1, 0},
	}}
	r := NewRetriever(emb, NewSessionStore())

	doc := models.Document{ID: "doc-1", Text: "alphabeta"}
	count, err := r.IndexDocument(context.Background(), doc, 5, 0)
	if err != nil {
		t.Fatalf("index error: %v", err)
	}
	if count != 2 {
		t.Fatalf("indexed %d chunks, want 2", count)
	}

	sess, ok := r.Sessions().Current()
	if !ok {
		t.Fatal("no active session after indexing")
	}
	if sess.Document.ChunkCount != 2 {
		t.Errorf("document chunk count = %d", sess.Document.ChunkCount)
	}
	for _, c := range sess.Index.Chunks() {
		if c.DocumentID != "doc-1" {
			t.Errorf("chunk %s not stamped with document ID", c.ChunkID)
		}
	}

	results, err := r.Search(context.Background(), "what", 1)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Text != "alpha" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestIndexFailureLeavesPreviousSession(t *testing.T) {
	emb := &stubEmbedder{}
	r := NewRetriever(emb, NewSessionStore())

	if _, err := r.IndexDocument(context.Background(), models.Document{ID: "first", Text: "some text"}, 500, 50); err != nil {
		t.Fatalf("initial index error: %v", err)
	}

	emb.fail = &EmbeddingServiceError{Op: "batch embed", Transient: true, Err: errors.New("upstream 503")}
	_, err := r.IndexDocument(context.Background(), models.Document{ID: "second", Text: "other text"}, 500, 50)
	if err == nil {
		t.Fatal("expected indexing failure")
	}
	if !IsEmbeddingServiceError(err) {
		t.Fatalf("got %v, want embedding service error", err)
	}

	sess, ok := r.Sessions().Current()
	if !ok || sess.Document.ID != "first" {
		t.Fatalf("previous session not preserved: %+v", sess)
	}
}

func TestIndexEmptyDocumentInstallsEmptyIndex(t *testing.T) {
	r := NewRetriever(&stubEmbedder{}, NewSessionStore())
	count, err := r.IndexDocument(context.Background(), models.Document{ID: "empty", Text: ""}, 500, 50)
	if err != nil {
		t.Fatalf("index error: %v", err)
	}
	if count != 0 {
		t.Fatalf("indexed %d chunks for empty document", count)
	}

	sess, ok := r.Sessions().Current()
	if !ok {
		t.Fatal("empty document did not install a session")
	}
	if sess.Index.Len() != 0 {
		t.Errorf("empty document produced %d vectors", sess.Index.Len())
	}
}

func TestReindexReplacesDocument(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"aaaa": {1, 0, 0},
		"bbbb": {0, 1, 0},
	}}
	r := NewRetriever(emb, NewSessionStore())
	ctx := context.Background()

	if _, err := r.IndexDocument(ctx, models.Document{ID: "A", Text: "aaaa"}, 10, 0); err != nil {
		t.Fatalf("index A: %v", err)
	}
	if _, err := r.IndexDocument(ctx, models.Document{ID: "B", Text: "bbbb"}, 10, 0); err != nil {
		t.Fatalf("index B: %v", err)
	}

	results, err := r.Search(ctx, "anything", 10)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	for _, res := range results {
		if res.Chunk.DocumentID != "B" {
			t.Errorf("result from replaced document: %+v", res.Chunk)
		}
	}
}

func TestRetrieveFormatsExcerpts(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"firstsecond": {1, 0, 0},
	}}
	r := NewRetriever(emb, NewSessionStore())
	ctx := context.Background()

	if _, err := r.IndexDocument(ctx, models.Document{ID: "doc", Text: "firstsecond"}, 20, 0); err != nil {
		t.Fatalf("index error: %v", err)
	}

	block, err := r.Retrieve(ctx, "query", 3)
	if err != nil {
		t.Fatalf("retrieve error: %v", err)
	}
	if !strings.HasPrefix(block, "[Excerpt 1]:\nfirstsecond") {
		t.Errorf("unexpected context block: %q", block)
	}
}

func TestFormatContextMultiple(t *testing.T) {
	results := []models.SearchResult{
		{Chunk: models.Chunk{Text: "one"}},
		{Chunk: models.Chunk{Text: "two"}},
	}
	got := FormatContext(results)
	want := "[Excerpt 1]:\none\n\n[Excerpt 2]:\ntwo"
	if got != want {
		t.Errorf("context = %q, want %q", got, want)
	}
	if FormatContext(nil) != "" {
		t.Error("empty results should format to empty string")
	}
}
