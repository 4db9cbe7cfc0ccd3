package delivery

import (
	"net/http"

	factdomain "aura-backend/internal/fact/domain"
	"aura-backend/internal/fact/repository"

	"github.com/gin-gonic/gin"
)

// FactHandler serves the categorized-fact read API
type FactHandler struct {
	factRepo repository.FactRepository
}

func NewFactHandler(factRepo repository.FactRepository) *FactHandler {
	return &FactHandler{factRepo: factRepo}
}

// GetFacts returns the authenticated user's facts, optionally filtered
// GET /api/facts?property_id=...&fact_type=expense&category=rent
func (h *FactHandler) GetFacts(c *gin.Context) {
	userID := c.GetString("userID")

	filter := repository.FactFilter{
		Category: c.Query("category"),
	}
	if propertyID := c.Query("property_id"); propertyID != "" {
		filter.PropertyID = &propertyID
	}
	if factType := c.Query("fact_type"); factType != "" {
		ft := factdomain.FactType(factType)
		if ft != factdomain.FactExpense && ft != factdomain.FactDocument && ft != factdomain.FactContact {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fact_type"})
			return
		}
		filter.FactType = ft
	}

	facts, err := h.factRepo.ListByUser(userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if facts == nil {
		facts = []*factdomain.Fact{}
	}

	c.JSON(http.StatusOK, gin.H{
		"facts": facts,
		"total": len(facts),
	})
}
