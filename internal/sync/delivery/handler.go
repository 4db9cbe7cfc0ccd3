package delivery

import (
	"errors"
	"net/http"

	ingestdomain "aura-backend/internal/ingest/domain"
	syncdomain "aura-backend/internal/sync/domain"
	"aura-backend/internal/sync/repository"
	"aura-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes sync start, cancel, and poll endpoints
type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase}
}

// StartSyncRequest names one source or "all"
type StartSyncRequest struct {
	SourceType string `json:"source_type" binding:"required"`
}

// StartSync launches a background sync and returns immediately
// POST /api/sync
func (h *SyncHandler) StartSync(c *gin.Context) {
	userID := c.GetString("userID")

	var req StartSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SourceType == "all" {
		started, err := h.syncUsecase.StartSyncAll(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if started == nil {
			started = []*syncdomain.SyncState{}
		}
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Sync started",
			"started": started,
		})
		return
	}

	sourceType := ingestdomain.SourceType(req.SourceType)
	if !sourceType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}

	state, err := h.syncUsecase.StartSync(userID, sourceType)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "Sync already running for this source"})
			return
		}
		if errors.Is(err, usecase.ErrSourceUnavailable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, state)
}

// CancelSync stops an in-flight sync for one source
// POST /api/sync/:type/cancel
func (h *SyncHandler) CancelSync(c *gin.Context) {
	userID := c.GetString("userID")

	sourceType := ingestdomain.SourceType(c.Param("type"))
	if !sourceType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source_type"})
		return
	}

	if err := h.syncUsecase.Cancel(userID, sourceType); err != nil {
		if errors.Is(err, usecase.ErrNotRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "No sync running for this source"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sync cancelled"})
}

// GetSyncStatus is the poll endpoint backing progress bars
// GET /api/sync/status
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	userID := c.GetString("userID")

	report, err := h.syncUsecase.Status(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
