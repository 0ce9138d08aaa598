package grounding

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles grounding configuration requests
type Handler struct {
	resolver *Resolver
}

// NewHandler creates a new grounding handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{resolver: NewResolver(db)}
}

// SaveRequest represents a request to save the grounding configuration
type SaveRequest struct {
	Name         string `json:"name"`
	Content      string `json:"content" binding:"required"`
	SystemPrompt string `json:"system_prompt"`
}

// Get returns the current grounding configuration
// @Summary Get grounding configuration
// @Description Get the chatbot's display name, background content, and prompt template (with defaults applied)
// @Tags grounding
// @Produce json
// @Success 200 {object} Config
// @Security BearerAuth
// @Router /admin/context [get]
func (h *Handler) Get(c *gin.Context) {
	cfg, err := h.resolver.Resolve()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load configuration"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Save upserts the grounding configuration
// @Summary Save grounding configuration
// @Description Create or update the chatbot's grounding configuration
// @Tags grounding
// @Accept json
// @Produce json
// @Param request body SaveRequest true "Configuration fields"
// @Success 200 {object} Config
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /admin/context [put]
func (h *Handler) Save(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resolver.Save(req.Name, req.Content, req.SystemPrompt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration"})
		return
	}

	cfg, err := h.resolver.Resolve()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load configuration"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// RegisterRoutes registers grounding configuration routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/context", h.Get)
	rg.PUT("/context", h.Save)
}
