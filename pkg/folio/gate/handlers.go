package gate

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// ContextKeyAccessKey is the gin context key holding the granted AccessKey record
	ContextKeyAccessKey = "access_key"
)

// Handler handles access-key validation requests
type Handler struct {
	gate *Gate
}

// NewHandler creates a new gate handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{gate: New(db)}
}

// ValidateResponse is returned for a granted validation
type ValidateResponse struct {
	Granted bool   `json:"granted"`
	Name    string `json:"name"`
}

// DeniedResponse is returned for a denied validation
type DeniedResponse struct {
	Granted bool   `json:"granted"`
	Reason  Reason `json:"reason"`
	Header  string `json:"header"`
	Message string `json:"message"`
}

// Validate performs one page-view validation and charges usage on grant
// @Summary Validate an access key
// @Description Validate the access key for one page view. A granted result consumes one unit of usage.
// @Tags gate
// @Produce json
// @Param key query string false "Access key"
// @Success 200 {object} ValidateResponse
// @Failure 403 {object} DeniedResponse
// @Router /gate [get]
func (h *Handler) Validate(c *gin.Context) {
	result := h.gate.Validate(c.Query("key"))
	if !result.Granted {
		c.JSON(statusFor(result.Reason), DeniedResponse{
			Granted: false,
			Reason:  result.Reason,
			Header:  result.Header,
			Message: result.Message,
		})
		return
	}

	c.JSON(http.StatusOK, ValidateResponse{Granted: true, Name: result.Key.Name})
}

// RegisterRoutes registers the gate routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/gate", h.Validate)
}

// Middleware gates an endpoint behind key validation. Each request through it
// is an independent page view: validate, then charge one unit of usage.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	g := New(db)
	return func(c *gin.Context) {
		result := g.Validate(c.Query("key"))
		if !result.Granted {
			c.AbortWithStatusJSON(statusFor(result.Reason), DeniedResponse{
				Granted: false,
				Reason:  result.Reason,
				Header:  result.Header,
				Message: result.Message,
			})
			return
		}

		c.Set(ContextKeyAccessKey, result.Key)
		c.Next()
	}
}

func statusFor(reason Reason) int {
	switch reason {
	case ReasonMissingKey:
		return http.StatusUnauthorized
	case ReasonInvalidKey:
		return http.StatusUnauthorized
	case ReasonKeyInactive, ReasonLimitReached:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
