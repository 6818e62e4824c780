package rag

import (
	"fmt"

	"aethon-assistant/models"

	"github.com/google/uuid"
)

// Segment splits text into overlapping fixed-size windows, advancing the
// start by chunkSize-overlap each step. The final window may be shorter
// than chunkSize and is still emitted if it contains at least one
// character. Offsets are rune positions so multi-byte text chunks cleanly.
//
// Segmenting is purely functional: empty input yields an empty slice,
// input shorter than chunkSize yields exactly one chunk.
func Segment(text string, chunkSize, overlap int) ([]models.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidConfiguration, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, chunk_size), got %d", ErrInvalidConfiguration, overlap)
	}

	if text == "" {
		return []models.Chunk{}, nil
	}

	runes := []rune(text)
	step := chunkSize - overlap
	chunks := make([]models.Chunk, 0, (len(runes)+step-1)/step)

	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		span := string(runes[start:end])
		chunks = append(chunks, models.Chunk{
			ChunkID:    uuid.NewString(),
			Order:      len(chunks),
			Text:       span,
			StartIndex: start,
			EndIndex:   end,
			CharCount:  end - start,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
