package services

import (
	"context"
	"fmt"
	"time"

	"aethon-assistant/internal/config"
	"aethon-assistant/internal/logger"
	"aethon-assistant/internal/rag"
	"aethon-assistant/internal/telemetry"
	"aethon-assistant/models"
	"aethon-assistant/utils"
)

// PDFService owns the document ingestion path: extraction, chunking,
// embedding and the atomic session swap. One service instance serves the
// whole process; the single-active-document constraint lives in the
// session store, not here.
type PDFService struct {
	cfg       *config.Config
	extractor *PDFExtractor
	retriever *rag.Retriever
	snapshots *SnapshotStore
	metrics   *telemetry.Metrics
}

func NewPDFService(cfg *config.Config, retriever *rag.Retriever, snapshots *SnapshotStore, metrics *telemetry.Metrics) *PDFService {
	return &PDFService{
		cfg:       cfg,
		extractor: NewPDFExtractor(),
		retriever: retriever,
		snapshots: snapshots,
		metrics:   metrics,
	}
}

// Ingest extracts text from an uploaded PDF, indexes it and installs it
// as the active document. A failure at any stage leaves the previously
// active document untouched.
func (s *PDFService) Ingest(ctx context.Context, filename string, content []byte) (*models.UploadResponse, error) {
	start := time.Now()

	if int64(len(content)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", s.cfg.MaxFileSize)
	}

	extraction, err := s.extractor.ExtractText(ctx, content)
	if err != nil {
		s.recordIngest(start, 0, models.StatusFailed)
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	doc := models.Document{
		ID:           utils.DocumentID(filename, content),
		OriginalName: filename,
		Text:         extraction.Text,
		Pages:        extraction.Pages,
		UploadedAt:   time.Now(),
	}

	chunkCount, err := s.retriever.IndexDocument(ctx, doc, s.cfg.MaxChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		s.recordIngest(start, 0, models.StatusFailed)
		return nil, err
	}

	logger.Info("Document indexed",
		"document_id", doc.ID,
		"filename", filename,
		"pages", extraction.Pages,
		"chunks", chunkCount,
		"extraction_method", extraction.Method,
	)
	s.recordIngest(start, chunkCount, models.StatusIndexed)

	if s.snapshots != nil {
		if sess, ok := s.retriever.Sessions().Current(); ok {
			if err := s.snapshots.Save(sess.Document, sess.Index.Chunks()); err != nil {
				// Snapshots are an optimization; the session is already live
				logger.Warn("Failed to write index snapshot", "document_id", doc.ID, "error", err)
			}
		}
	}

	return &models.UploadResponse{
		ID:         doc.ID,
		Filename:   filename,
		Status:     models.StatusIndexed,
		ChunkCount: chunkCount,
		Pages:      extraction.Pages,
		Entities:   ExtractEntities(extraction.Text, 5),
		UploadedAt: doc.UploadedAt,
	}, nil
}

// Restore rebuilds the session from a saved snapshot, re-embedding the
// stored chunks. Used after a process restart.
func (s *PDFService) Restore(ctx context.Context, documentID string) (*models.UploadResponse, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("snapshots are not configured")
	}

	doc, chunks, err := s.snapshots.Load(documentID)
	if err != nil {
		return nil, err
	}

	chunkCount, err := s.retriever.IndexChunks(ctx, doc, chunks)
	if err != nil {
		return nil, err
	}

	logger.Info("Document restored from snapshot", "document_id", doc.ID, "chunks", chunkCount)

	return &models.UploadResponse{
		ID:         doc.ID,
		Filename:   doc.OriginalName,
		Status:     models.StatusIndexed,
		ChunkCount: chunkCount,
		Pages:      doc.Pages,
		UploadedAt: doc.UploadedAt,
	}, nil
}

// Clear drops the active document
func (s *PDFService) Clear() {
	s.retriever.Sessions().Clear()
	logger.Info("Document session cleared")
}

// Current returns the active document, if any
func (s *PDFService) Current() (models.Document, bool) {
	sess, ok := s.retriever.Sessions().Current()
	if !ok {
		return models.Document{}, false
	}
	doc := sess.Document
	doc.Text = "" // callers get metadata, not the raw extraction
	return doc, true
}

func (s *PDFService) recordIngest(start time.Time, chunks int, status string) {
	if s.metrics != nil {
		s.metrics.RecordIndexing(time.Since(start).Seconds(), chunks, status)
	}
}
