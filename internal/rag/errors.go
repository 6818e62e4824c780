// Package rag implements the document retrieval core: text segmentation,
// embedding, in-memory vector indexing and top-k context retrieval for a
// single active document per process.
package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports bad chunk size / overlap parameters.
	// This is a caller bug and is never retried.
	ErrInvalidConfiguration = errors.New("invalid chunking configuration")

	// ErrDimensionMismatch reports an embedding vector whose length differs
	// from the vectors already held by an index. The index is unusable for
	// the offending vector's model; the document must be re-indexed.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoActiveDocument reports retrieval against an empty session. This
	// is an expected condition: callers should fall back to non-grounded
	// answering rather than fail the request.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrInvalidArgument reports a non-positive k for a similarity query.
	ErrInvalidArgument = errors.New("invalid argument")
)

// EmbeddingServiceError wraps a failure from the embedding provider.
// Transient marks rate-limit and server-side failures that a caller may
// retry with backoff; everything else should surface as degraded mode.
type EmbeddingServiceError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embedding service: %s: %v", e.Op, e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error {
	return e.Err
}

// IsEmbeddingServiceError reports whether err originates from the
// embedding provider, so callers can distinguish it from ErrNoActiveDocument
// and degrade accordingly.
func IsEmbeddingServiceError(err error) bool {
	var e *EmbeddingServiceError
	return errors.As(err, &e)
}
