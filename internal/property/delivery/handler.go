package delivery

import (
	"errors"
	"net/http"

	"aura-backend/internal/property/usecase"

	"github.com/gin-gonic/gin"
)

// PropertyHandler exposes the property directory
type PropertyHandler struct {
	propertyUsecase usecase.PropertyUsecase
}

func NewPropertyHandler(propertyUsecase usecase.PropertyUsecase) *PropertyHandler {
	return &PropertyHandler{propertyUsecase: propertyUsecase}
}

// GetProperties returns all properties for the authenticated user
// GET /api/properties
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	userID := c.GetString("userID")

	properties, err := h.propertyUsecase.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"total":      len(properties),
	})
}

// GetPropertyByID returns a single property
// GET /api/properties/:id
func (h *PropertyHandler) GetPropertyByID(c *gin.Context) {
	userID := c.GetString("userID")
	propertyID := c.Param("id")

	property, err := h.propertyUsecase.Get(userID, propertyID)
	if err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, property)
}

// DeleteProperty removes a property; facts that referenced it keep their
// data but lose the link
// DELETE /api/properties/:id
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	userID := c.GetString("userID")
	propertyID := c.Param("id")

	if err := h.propertyUsecase.Remove(userID, propertyID); err != nil {
		if errors.Is(err, usecase.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}
