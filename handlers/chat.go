package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travel-assistant/models"
	"travel-assistant/services"
)

// Replier answers one chat turn
type Replier interface {
	Reply(ctx context.Context, turn models.ChatTurn) (*models.ChatResponse, error)
}

// ChatHandler serves the chat endpoint
type ChatHandler struct {
	assistant Replier
}

// NewChatHandler creates a ChatHandler
func NewChatHandler(assistant Replier) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// Chat processes a chat message
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	requestID := GetRequestID(c)
	log.Printf("Chat request - ID: %s, Message: %s, History: %d, Location: %t, Pending date: %q",
		requestID, req.Message, len(req.History), req.Location != nil, req.PendingDate)

	response, err := h.assistant.Reply(c.Request.Context(), req.Turn())
	if err != nil {
		log.Printf("Error processing chat request %s: %v", requestID, err)

		if errors.Is(err, services.ErrLLMTimeout) {
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error":     "The assistant took too long to respond. Please try again.",
				"retryable": true,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "I'm sorry, I encountered an error processing your request. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
