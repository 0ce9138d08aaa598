package accesskeys

import (
	"crypto/rand"
	"math/big"
	"net/http"

	"github.com/cwolf/folio/pkg/folio/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// KeyLength is the length of generated access keys
	KeyLength = 8
	// keyCharset matches what operators expect to read back over the phone
	keyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Handler handles access key management requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new access keys handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateKeyRequest represents a request to create an access key
type CreateKeyRequest struct {
	Name     string `json:"name" binding:"required"`
	MaxUsage int    `json:"max_usage"`
}

// UpdateKeyRequest represents a request to update an access key
type UpdateKeyRequest struct {
	IsActive *bool `json:"is_active"`
	MaxUsage *int  `json:"max_usage"`
}

// generateKey generates a short random access key. Keys are handed to
// external recipients in a URL, so they stay short and alphanumeric.
func generateKey() (string, error) {
	out := make([]byte, KeyLength)
	max := big.NewInt(int64(len(keyCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = keyCharset[n.Int64()]
	}
	return string(out), nil
}

// List returns all access keys
// @Summary List access keys
// @Description List all access keys with their usage counters
// @Tags access-keys
// @Produce json
// @Success 200 {array} models.AccessKey
// @Security BearerAuth
// @Router /admin/keys [get]
func (h *Handler) List(c *gin.Context) {
	var keys []models.AccessKey
	if err := h.db.Order("created_at DESC").Find(&keys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access keys"})
		return
	}

	c.JSON(http.StatusOK, keys)
}

// Create creates a new access key with a generated random token
// @Summary Create an access key
// @Description Create a new access key for a named recipient
// @Tags access-keys
// @Accept json
// @Produce json
// @Param request body CreateKeyRequest true "Recipient name and usage limit"
// @Success 201 {object} models.AccessKey
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /admin/keys [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	generated, err := generateKey()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access key"})
		return
	}

	maxUsage := req.MaxUsage
	if maxUsage <= 0 {
		maxUsage = models.DefaultMaxUsage
	}

	key := models.AccessKey{
		Key:        generated,
		Name:       req.Name,
		UsageCount: 0,
		MaxUsage:   maxUsage,
		IsActive:   true,
	}

	if err := h.db.Create(&key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access key"})
		return
	}

	c.JSON(http.StatusCreated, key)
}

// Update activates/deactivates a key or changes its usage limit
// @Summary Update an access key
// @Description Toggle a key's active flag or raise its usage limit
// @Tags access-keys
// @Accept json
// @Produce json
// @Param key path string true "Access key"
// @Param request body UpdateKeyRequest true "Fields to update"
// @Success 200 {object} models.AccessKey
// @Failure 404 {object} map[string]string "Key not found"
// @Security BearerAuth
// @Router /admin/keys/{key} [patch]
func (h *Handler) Update(c *gin.Context) {
	var key models.AccessKey
	if err := h.db.First(&key, "key = ?", c.Param("key")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Access key not found"})
		return
	}

	var req UpdateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.MaxUsage != nil {
		if *req.MaxUsage <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_usage must be positive"})
			return
		}
		updates["max_usage"] = *req.MaxUsage
	}

	if len(updates) > 0 {
		if err := h.db.Model(&key).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update access key"})
			return
		}
	}

	c.JSON(http.StatusOK, key)
}

// Delete removes an access key
// @Summary Delete an access key
// @Description Permanently delete an access key
// @Tags access-keys
// @Produce json
// @Param key path string true "Access key"
// @Success 200 {object} map[string]string "Key deleted"
// @Failure 404 {object} map[string]string "Key not found"
// @Security BearerAuth
// @Router /admin/keys/{key} [delete]
func (h *Handler) Delete(c *gin.Context) {
	var key models.AccessKey
	if err := h.db.First(&key, "key = ?", c.Param("key")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Access key not found"})
		return
	}

	if err := h.db.Delete(&key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete access key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Access key deleted"})
}

// RegisterRoutes registers access key management routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/keys", h.List)
	rg.POST("/keys", h.Create)
	rg.PATCH("/keys/:key", h.Update)
	rg.DELETE("/keys/:key", h.Delete)
}
