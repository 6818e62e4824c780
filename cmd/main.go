package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aethon-assistant/internal/ai"
	"aethon-assistant/internal/config"
	"aethon-assistant/internal/logger"
	"aethon-assistant/internal/prompt"
	"aethon-assistant/internal/rag"
	"aethon-assistant/internal/telemetry"
	"aethon-assistant/middleware"
	"aethon-assistant/routes"
	"aethon-assistant/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Optional OpenTelemetry tracing
	if cfg.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracer("aethon-assistant", cfg.OTelEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled, exporter init failed", "error", err)
		} else {
			defer shutdownTracer()
		}
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to init metrics:", err)
	}

	ctx := context.Background()

	// Gemini clients: one for embeddings, one for generation
	embedder, err := ai.NewGeminiEmbedder(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create embedding client:", err)
	}
	defer embedder.Close()

	gemini, err := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiTier, metrics)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	defer gemini.Close()

	// Retrieval pipeline
	sessions := rag.NewSessionStore()
	retriever := rag.NewRetriever(embedder, sessions)

	snapshots, err := services.NewSnapshotStore(cfg.SnapshotDir)
	if err != nil {
		log.Fatal("Failed to create snapshot store:", err)
	}
	pdfService := services.NewPDFService(cfg, retriever, snapshots, metrics)

	// Prompt versioning and A/B testing
	prompts := prompt.NewManager(cfg.GeminiModel)
	abTests := prompt.NewABTestManager(prompts, cfg.ABTestingEnabled, cfg.ABTestingSplit, time.Now().UnixNano())

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestIDMiddleware())
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg)))

	// Health check endpoints
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	}
	router.GET("/health", healthHandler)
	router.GET("/api/health", healthHandler)

	// Setup routes
	routes.SetupChatRoutes(router, cfg, gemini, retriever, abTests)
	routes.SetupPDFRoutes(router, cfg, pdfService, retriever, metrics)
	routes.SetupABTestRoutes(router, abTests)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
