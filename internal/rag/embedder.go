package rag

import "context"

// Embedder converts a batch of texts into embedding vectors, one per
// input, order-preserving. Implementations wrap provider failures in
// *EmbeddingServiceError and must never substitute zero vectors. The
// context is the cancellation point for the (potentially slow) provider
// calls made during indexing.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
