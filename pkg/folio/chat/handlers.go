package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles chat requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new chat handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ChatRequest is one user turn plus the transcript the client holds.
type ChatRequest struct {
	Message   string    `json:"message" binding:"required"`
	History   []Message `json:"history"`
	AccessKey string    `json:"accessKey"`
}

// ChatResponse carries the assistant reply. Error statuses still carry a
// user-displayable reply so the client can drop it straight into the
// transcript.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat runs one generation round-trip
// @Summary Submit a chat turn
// @Description Send a user message with the conversation history and receive the assistant reply
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "User message, history, and optional access key"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} ChatResponse "Generation service not configured"
// @Failure 502 {object} ChatResponse "Generation failed"
// @Router /chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.svc.SubmitTurn(c.Request.Context(), req.AccessKey, req.Message, req.History)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message must not be empty"})
		case errors.Is(err, ErrNotConfigured):
			log.Printf("Chat turn rejected: %v", err)
			c.JSON(http.StatusInternalServerError, ChatResponse{Reply: UnconfiguredReply})
		default:
			log.Printf("Chat turn failed: %v", err)
			c.JSON(http.StatusBadGateway, ChatResponse{Reply: h.svc.ErrorReply(err)})
		}
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// HistoryResponse is the persisted transcript for an access key.
type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

// History returns the persisted transcript for an access key
// @Summary Get chat history
// @Description Load the persisted conversation transcript for an access key, ordered by creation time
// @Tags chat
// @Produce json
// @Param key query string true "Access key"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} map[string]string "Missing key"
// @Router /chat/history [get]
func (h *Handler) History(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Access key is required"})
		return
	}

	messages, err := LoadHistory(h.svc.db, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Messages: messages})
}

// RegisterRoutes registers chat routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.Chat)
	rg.GET("/chat/history", h.History)
}
