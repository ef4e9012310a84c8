package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sashabaranov/go-openai"

	"travel-assistant/amadeus"
	"travel-assistant/config"
	"travel-assistant/database"
	"travel-assistant/handlers"
	"travel-assistant/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Starting Travel Assistant")
	log.Printf("LLM model: %s, Amadeus: %s, Location store: %s", cfg.OpenAIModel, cfg.AmadeusBaseURL, cfg.LocationStore)

	// Persistent location cache is optional
	var store services.LocationStore
	if cfg.UsePostgres() {
		if err := database.Connect(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(database.GetDB()); err != nil {
			log.Printf("Migration check warning: %v", err)
		}
		store = services.NewPostgresLocationStore(database.GetDB(), cfg.LocationCacheTTL)
	}

	provider := amadeus.NewClient(amadeus.Config{
		ClientID:     cfg.AmadeusAPIKey,
		ClientSecret: cfg.AmadeusAPISecret,
		BaseURL:      cfg.AmadeusBaseURL,
		Timeout:      cfg.ProviderTimeout,
		RateLimit:    cfg.ProviderRateLimit,
		Burst:        cfg.ProviderRateBurst,
	})

	llmConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	llmConfig.BaseURL = cfg.OpenAIBaseURL
	llm := openai.NewClientWithConfig(llmConfig)

	locations := services.NewLocationResolver(provider, store, cfg.LocationCacheTTL)
	tools := services.NewToolExecutor(provider, locations, services.DefaultDestinationCatalog())
	assistant := services.NewAssistant(llm, tools, locations, services.AssistantConfig{
		LLM: services.LLMPolicy{
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.LLMTimeout,
			MaxRetries: cfg.LLMMaxRetries,
			Backoff:    cfg.LLMRetryBackoff,
		},
		ScopeGate: cfg.ScopeGateEnabled,
	})

	// Setup Gin router
	router := setupRouter(handlers.NewChatHandler(assistant))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// in-flight turns may still be waiting on the LLM or the provider
	ctx, cancel := context.WithTimeout(context.Background(), cfg.TurnBudget()+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func setupRouter(chat *handlers.ChatHandler) *gin.Engine {
	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(handlers.RequestID())

	// CORS is open to all origins
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", handlers.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", handlers.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/chat", chat.Chat)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
