package delivery

import (
	"net/http"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
	sourcedomain "aura-backend/internal/source/domain"
	"aura-backend/internal/source/usecase"

	"github.com/gin-gonic/gin"
)

// SourceHandler manages connected accounts over HTTP
type SourceHandler struct {
	sourceUsecase usecase.SourceUsecase
}

func NewSourceHandler(sourceUsecase usecase.SourceUsecase) *SourceHandler {
	return &SourceHandler{sourceUsecase: sourceUsecase}
}

// RegisterSourceRequest is the connect payload; tokens arrive in
// plaintext over TLS and are encrypted before storage
type RegisterSourceRequest struct {
	SourceType   string     `json:"source_type" binding:"required"`
	DisplayName  string     `json:"display_name"`
	AccessToken  string     `json:"access_token" binding:"required"`
	RefreshToken string     `json:"refresh_token"`
	TokenExpiry  *time.Time `json:"token_expiry"`
}

// RegisterSource connects or reconnects a source
// POST /api/sources
func (h *SourceHandler) RegisterSource(c *gin.Context) {
	userID := c.GetString("userID")

	var req RegisterSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sourceType := ingestdomain.SourceType(req.SourceType)
	if !sourceType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}

	source, err := h.sourceUsecase.Register(userID, usecase.RegisterSourceRequest{
		SourceType:   sourceType,
		DisplayName:  req.DisplayName,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenExpiry:  req.TokenExpiry,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, source)
}

// GetSources lists the user's connected accounts
// GET /api/sources
func (h *SourceHandler) GetSources(c *gin.Context) {
	userID := c.GetString("userID")

	sources, err := h.sourceUsecase.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sources == nil {
		sources = []*sourcedomain.DataSource{}
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// ToggleSource flips a source between active and inactive without
// dropping tokens
// PUT /api/sources/:type/toggle
func (h *SourceHandler) ToggleSource(c *gin.Context) {
	userID := c.GetString("userID")

	sourceType := ingestdomain.SourceType(c.Param("type"))
	if !sourceType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}

	source, err := h.sourceUsecase.Toggle(userID, sourceType)
	if err != nil {
		if err == usecase.ErrSourceNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, source)
}

// DeleteSource disconnects a source and discards its tokens
// DELETE /api/sources/:type
func (h *SourceHandler) DeleteSource(c *gin.Context) {
	userID := c.GetString("userID")

	sourceType := ingestdomain.SourceType(c.Param("type"))
	if !sourceType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}

	if err := h.sourceUsecase.Remove(userID, sourceType); err != nil {
		if err == usecase.ErrSourceNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Source disconnected"})
}
