package notes

import (
	"net/http"
	"strconv"

	"github.com/cwolf/folio/pkg/folio/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles note requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new notes handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateNoteRequest represents a request to create a note
type CreateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// List returns all notes
// @Summary List notes
// @Description List the notes shown on the gated landing page
// @Tags notes
// @Produce json
// @Param key query string true "Access key"
// @Success 200 {array} models.Note
// @Router /notes [get]
func (h *Handler) List(c *gin.Context) {
	var notes []models.Note
	if err := h.db.Order("created_at ASC").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Create creates a new note
// @Summary Create a note
// @Description Create a note on the gated landing page
// @Tags notes
// @Accept json
// @Produce json
// @Param key query string true "Access key"
// @Param request body CreateNoteRequest true "Note content"
// @Success 201 {object} models.Note
// @Failure 400 {object} map[string]string "Validation error"
// @Router /notes [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := models.Note{Content: req.Content}
	if err := h.db.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	c.JSON(http.StatusCreated, note)
}

// Delete removes a note
// @Summary Delete a note
// @Description Delete a note by id
// @Tags notes
// @Produce json
// @Param key query string true "Access key"
// @Param id path int true "Note ID"
// @Success 200 {object} map[string]string "Note deleted"
// @Failure 404 {object} map[string]string "Note not found"
// @Router /notes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	var note models.Note
	if err := h.db.First(&note, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}

	if err := h.db.Delete(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

// RegisterRoutes registers note routes on the given router group.
// The group is expected to carry the access gate middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notes", h.List)
	rg.POST("/notes", h.Create)
	rg.DELETE("/notes/:id", h.Delete)
}
