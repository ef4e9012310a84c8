package models

import "strings"

// Conversation roles accepted from clients
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryMessage represents one prior conversation message supplied by the client
type HistoryMessage struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// UserLocation is the device position shared by the client
type UserLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ChatRequest represents an incoming chat message
type ChatRequest struct {
	Message       string           `json:"message" binding:"required"`
	History       []HistoryMessage `json:"history"`
	Location      *UserLocation    `json:"location"`
	LastKnownCity string           `json:"lastKnownCity"`
	PendingDate   string           `json:"pendingDate"`
}

// ChatTurn is the request-scoped input of one assistant turn
type ChatTurn struct {
	Message       string
	History       []HistoryMessage
	UserLocation  *UserLocation
	LastKnownCity string
	// PendingDate is the raw departure date the previous turn rejected as past
	PendingDate string
}

// Turn converts the request payload into a ChatTurn
func (r ChatRequest) Turn() ChatTurn {
	return ChatTurn{
		Message:       r.Message,
		History:       r.History,
		UserLocation:  r.Location,
		LastKnownCity: strings.TrimSpace(r.LastKnownCity),
		PendingDate:   strings.TrimSpace(r.PendingDate),
	}
}

// ChatResponse represents the assistant reply returned to the client
type ChatResponse struct {
	Response    string  `json:"response"`
	City        *string `json:"city,omitempty"`
	PendingDate string  `json:"pendingDate,omitempty"`
}

// TextReply builds a reply that carries only text
func TextReply(text string) *ChatResponse {
	return &ChatResponse{Response: text}
}
