package routes

import (
	"net/http"

	"aethon-assistant/internal/prompt"
	"aethon-assistant/utils"

	"github.com/gin-gonic/gin"
)

// SetupABTestRoutes registers the experiment inspection endpoints
func SetupABTestRoutes(router *gin.Engine, abTests *prompt.ABTestManager) {
	ab := router.Group("/api/ab-test")

	ab.GET("/status", func(c *gin.Context) {
		status, err := abTests.Status(prompt.DefaultTestName)
		if err != nil {
			utils.RespondWithNotFound(c, "Unknown test")
			return
		}
		c.JSON(http.StatusOK, status)
	})

	ab.GET("/status/:test", func(c *gin.Context) {
		status, err := abTests.Status(c.Param("test"))
		if err != nil {
			utils.RespondWithNotFound(c, "Unknown test")
			return
		}
		c.JSON(http.StatusOK, status)
	})

	ab.POST("/toggle/:test", func(c *gin.Context) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}
		if err := abTests.Toggle(c.Param("test"), req.Enabled); err != nil {
			utils.RespondWithNotFound(c, "Unknown test")
			return
		}
		c.JSON(http.StatusOK, gin.H{"test": c.Param("test"), "enabled": req.Enabled})
	})
}
