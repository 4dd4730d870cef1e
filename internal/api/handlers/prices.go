package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardfolio/cardfolio/internal/services"
)

type PriceHandler struct {
	priceWorker *services.PriceWorker
}

func NewPriceHandler(priceWorker *services.PriceWorker) *PriceHandler {
	return &PriceHandler{
		priceWorker: priceWorker,
	}
}

// GetPriceStatus returns the price worker's refresh state
func (h *PriceHandler) GetPriceStatus(c *gin.Context) {
	status := h.priceWorker.GetStatus()
	c.JSON(http.StatusOK, status)
}

// RefreshItemPrice manually refreshes a single item's market price
func (h *PriceHandler) RefreshItemPrice(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	item, err := h.priceWorker.RefreshItem(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}
