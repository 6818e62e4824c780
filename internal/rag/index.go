package rag

import (
	"fmt"
	"math"
	"sort"

	"aethon-assistant/models"
)

// VectorIndex is an in-memory mapping from chunks to their embedding
// vectors, queried by brute-force cosine similarity. Insertion order is
// chunk order and is the tie-breaker for equal scores. An index is built
// once per document and treated as read-only after it is installed in a
// session, so queries take no lock.
type VectorIndex struct {
	dim     int
	chunks  []models.Chunk
	vectors [][]float32
}

func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Insert appends a (chunk, vector) pair. The first vector fixes the index
// dimension; any later vector of a different length fails with
// ErrDimensionMismatch and leaves the index contents untouched.
func (ix *VectorIndex) Insert(chunk models.Chunk, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: refusing zero-length vector", ErrDimensionMismatch)
	}
	if ix.dim == 0 {
		ix.dim = len(vector)
	} else if len(vector) != ix.dim {
		return fmt.Errorf("%w: got %d-dimensional vector, index holds %d-dimensional vectors",
			ErrDimensionMismatch, len(vector), ix.dim)
	}

	ix.chunks = append(ix.chunks, chunk)
	ix.vectors = append(ix.vectors, vector)
	return nil
}

// Len returns the number of stored vectors
func (ix *VectorIndex) Len() int {
	return len(ix.vectors)
}

// Dimension returns the fixed vector dimension, 0 while the index is empty
func (ix *VectorIndex) Dimension() int {
	return ix.dim
}

// Chunks returns the stored chunks in insertion order
func (ix *VectorIndex) Chunks() []models.Chunk {
	return ix.chunks
}

// Query returns up to k chunks ranked by cosine similarity to vector,
// highest first. Ties keep insertion order. An empty index returns an
// empty slice; k <= 0 fails with ErrInvalidArgument; a query vector of
// the wrong dimension fails with ErrDimensionMismatch.
func (ix *VectorIndex) Query(vector []float32, k int) ([]models.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if len(ix.vectors) == 0 {
		return []models.SearchResult{}, nil
	}
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index holds %d-dimensional vectors",
			ErrDimensionMismatch, len(vector), ix.dim)
	}

	scores := make([]float64, len(ix.vectors))
	for i := range ix.vectors {
		scores[i] = cosineSimilarity(ix.vectors[i], vector)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps insertion order for equal scores
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}

	results := make([]models.SearchResult, 0, k)
	for _, idx := range order[:k] {
		results = append(results, models.SearchResult{
			Chunk: ix.chunks[idx],
			Score: scores[idx],
		})
	}
	return results, nil
}

// cosineSimilarity computes dot(a,b) / (|a|*|b|). A zero-length vector
// on either side scores 0 rather than NaN.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
