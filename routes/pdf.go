package routes

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"aethon-assistant/internal/config"
	"aethon-assistant/internal/logger"
	"aethon-assistant/internal/rag"
	"aethon-assistant/internal/telemetry"
	"aethon-assistant/models"
	"aethon-assistant/services"
	"aethon-assistant/utils"

	"github.com/gin-gonic/gin"
)

// SetupPDFRoutes registers the document lifecycle endpoints: upload,
// status, direct query, clear, and restore from snapshot.
func SetupPDFRoutes(router *gin.Engine, cfg *config.Config, pdfService *services.PDFService, retriever *rag.Retriever, metrics *telemetry.Metrics) {
	pdf := router.Group("/api/pdf")

	pdf.POST("/upload", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", gin.H{"error": err.Error()})
			return
		}

		if fileHeader.Size > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				"File exceeds the maximum allowed size",
				gin.H{"max_bytes": cfg.MaxFileSize, "got_bytes": fileHeader.Size})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !typeAllowed(cfg.AllowedTypes, contentType, fileHeader.Filename) {
			utils.RespondWithBadRequest(c, "Unsupported file type",
				gin.H{"content_type": contentType, "allowed": cfg.AllowedTypes})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to open uploaded file", nil)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, cfg.MaxFileSize+1))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", nil)
			return
		}
		if int64(len(content)) > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				"File exceeds the maximum allowed size",
				gin.H{"max_bytes": cfg.MaxFileSize})
			return
		}

		resp, err := pdfService.Ingest(c.Request.Context(), fileHeader.Filename, content)
		if err != nil {
			logger.Error("PDF ingestion failed", "filename", fileHeader.Filename, "error", err)
			if rag.IsEmbeddingServiceError(err) {
				utils.RespondWithServiceUnavailable(c, "Embedding service unavailable, please retry the upload")
				return
			}
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "ingestion_failed",
				"Could not process the uploaded document", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, resp)
	})

	pdf.GET("/status", func(c *gin.Context) {
		doc, ok := pdfService.Current()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"active": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": true, "document": doc})
	})

	pdf.POST("/query", func(c *gin.Context) {
		var req models.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		k := req.TopK
		if k <= 0 {
			k = cfg.RetrievalTopK
		}

		start := time.Now()
		results, err := retriever.Search(c.Request.Context(), req.Query, k)
		if err == nil && metrics != nil {
			metrics.RecordRetrieval(time.Since(start).Seconds(), len(results))
		}
		if err != nil {
			switch {
			case errors.Is(err, rag.ErrNoActiveDocument):
				utils.RespondWithNotFound(c, "No document has been uploaded")
			case errors.Is(err, rag.ErrInvalidArgument):
				utils.RespondWithBadRequest(c, "Invalid query parameters", gin.H{"error": err.Error()})
			case rag.IsEmbeddingServiceError(err):
				utils.RespondWithServiceUnavailable(c, "Embedding service unavailable")
			default:
				logger.Error("Document query failed", "error", err)
				utils.RespondWithInternalError(c, "Failed to search document", nil)
			}
			return
		}

		doc, _ := pdfService.Current()
		c.JSON(http.StatusOK, models.QueryResponse{
			DocumentID: doc.ID,
			Results:    results,
			Context:    rag.FormatContext(results),
		})
	})

	pdf.POST("/clear", func(c *gin.Context) {
		pdfService.Clear()
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	})

	pdf.POST("/restore", func(c *gin.Context) {
		var req struct {
			DocumentID string `json:"document_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		resp, err := pdfService.Restore(c.Request.Context(), req.DocumentID)
		if err != nil {
			if rag.IsEmbeddingServiceError(err) {
				utils.RespondWithServiceUnavailable(c, "Embedding service unavailable, please retry")
				return
			}
			utils.RespondWithNotFound(c, "No snapshot found for the given document")
			return
		}

		c.JSON(http.StatusOK, resp)
	})
}

// typeAllowed accepts the configured MIME types, falling back to the
// filename extension for clients that send a generic content type.
func typeAllowed(allowed []string, contentType, filename string) bool {
	for _, t := range allowed {
		if strings.EqualFold(strings.TrimSpace(t), contentType) {
			return true
		}
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
