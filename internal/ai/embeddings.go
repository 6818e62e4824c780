package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aethon-assistant/internal/config"
	"aethon-assistant/internal/logger"
	"aethon-assistant/internal/rag"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// maxBatchSize is the Gemini batch-embedding request limit
const maxBatchSize = 100

// GeminiEmbedder implements rag.Embedder on top of the Gemini embedding
// API (text-embedding-004 by default). Batches are split at the API
// limit; transient failures are retried a bounded number of times with
// exponential backoff, honoring context cancellation between attempts.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	maxRetries int
}

func NewGeminiEmbedder(ctx context.Context, cfg *config.Config) (*GeminiEmbedder, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}
	return &GeminiEmbedder{
		client:     client,
		model:      cfg.EmbeddingsModel,
		maxRetries: 3,
	}, nil
}

// EmbedBatch returns one vector per input text, order-preserving.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		group, err := e.embedGroup(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, group...)
	}
	return vectors, nil
}

func (e *GeminiEmbedder) embedGroup(ctx context.Context, texts []string) ([][]float32, error) {
	model := e.client.EmbeddingModel(e.model)
	batch := model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			logger.Warn("Retrying embedding batch", "attempt", attempt, "backoff", backoff.String())
			select {
			case <-ctx.Done():
				return nil, &rag.EmbeddingServiceError{Op: "batch embed", Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		resp, err := model.BatchEmbedContents(ctx, batch)
		if err != nil {
			lastErr = err
			if isTransient(err) {
				continue
			}
			return nil, &rag.EmbeddingServiceError{Op: "batch embed", Err: err}
		}

		if len(resp.Embeddings) != len(texts) {
			return nil, &rag.EmbeddingServiceError{
				Op:  "batch embed",
				Err: fmt.Errorf("got %d embeddings for %d texts", len(resp.Embeddings), len(texts)),
			}
		}

		vectors := make([][]float32, len(resp.Embeddings))
		for i, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, &rag.EmbeddingServiceError{
					Op:  "batch embed",
					Err: fmt.Errorf("empty embedding at position %d", i),
				}
			}
			vectors[i] = emb.Values
		}
		return vectors, nil
	}

	return nil, &rag.EmbeddingServiceError{Op: "batch embed", Transient: true, Err: lastErr}
}

// isTransient reports whether err is worth retrying: rate limits,
// server-side failures and plain network hiccups.
func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code >= 500
	}
	// Context cancellation is the caller's decision, never retried
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// Close releases the underlying API client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
