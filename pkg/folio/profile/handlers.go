package profile

import (
	"net/http"

	"github.com/cwolf/folio/pkg/folio/grounding"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves the gated profile page data
type Handler struct {
	resolver *grounding.Resolver
}

// NewHandler creates a new profile handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{resolver: grounding.NewResolver(db)}
}

// ProfileResponse is the detailed-context page payload
type ProfileResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Get returns the profile's display name and long-form content
// @Summary Get profile content
// @Description Get the display name and long-form background content for the detailed-context page
// @Tags profile
// @Produce json
// @Param key query string true "Access key"
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} gate.DeniedResponse
// @Failure 403 {object} gate.DeniedResponse
// @Router /profile [get]
func (h *Handler) Get(c *gin.Context) {
	cfg, err := h.resolver.Resolve()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Name: cfg.Name, Content: cfg.Content})
}

// RegisterRoutes registers profile routes on the given router group.
// The group is expected to carry the access gate middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Get)
}
