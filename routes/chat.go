package routes

import (
	"errors"
	"net/http"

	"aethon-assistant/internal/ai"
	"aethon-assistant/internal/config"
	"aethon-assistant/internal/logger"
	"aethon-assistant/internal/prompt"
	"aethon-assistant/internal/rag"
	"aethon-assistant/models"
	"aethon-assistant/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SetupChatRoutes registers the conversational endpoint. Each request
// resolves a prompt variant, retrieves document context when a document
// is indexed, and generates a reply with the resolved configuration.
func SetupChatRoutes(router *gin.Engine, cfg *config.Config, gemini *ai.GeminiClient, retriever *rag.Retriever, abTests *prompt.ABTestManager) {
	router.POST("/api/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		conversationID := req.ConversationID
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		variant, label := abTests.GetPromptVariant(prompt.PromptName, prompt.DefaultTestName)
		if variant == nil {
			utils.RespondWithInternalError(c, "No prompt available", nil)
			return
		}

		genCfg := ai.GenerationConfig{
			Model:       variant.Config.Model,
			Temperature: variant.Config.Temperature,
			MaxTokens:   variant.Config.MaxTokens,
		}

		ctx := c.Request.Context()

		mode := "grounded"
		contextBlock, err := retriever.Retrieve(ctx, req.Message, cfg.RetrievalTopK)
		if err != nil {
			switch {
			case errors.Is(err, rag.ErrNoActiveDocument):
				// No document uploaded yet; answer from the model alone
				mode = "general"
				contextBlock = ""
			case rag.IsEmbeddingServiceError(err):
				logger.Warn("Retrieval degraded, answering without context",
					"error", err, "conversation_id", conversationID)
				mode = "degraded"
				contextBlock = ""
			default:
				logger.Error("Retrieval failed", "error", err)
				utils.RespondWithInternalError(c, "Failed to search document", nil)
				return
			}
		}

		reply, err := gemini.GenerateReply(ctx, genCfg, variant.Compile(), req.Message, contextBlock)
		if err != nil {
			logger.Error("Generation failed", "error", err, "conversation_id", conversationID)
			utils.RespondWithServiceUnavailable(c, "The assistant is temporarily unavailable. Please try again.")
			return
		}
		if reply.Fallback {
			mode = "degraded"
		}

		logger.Info("Chat reply generated",
			"conversation_id", conversationID,
			"prompt_label", label,
			"prompt_version", variant.Version,
			"mode", mode,
			"tokens_used", reply.TokensUsed,
		)

		c.JSON(http.StatusOK, models.ChatResponse{
			Response:       reply.Text,
			ConversationID: conversationID,
			PromptLabel:    label,
			PromptVersion:  variant.Version,
			Mode:           mode,
			TokensUsed:     reply.TokensUsed,
		})
	})
}
