package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cardfolio/cardfolio/internal/database"
	"github.com/cardfolio/cardfolio/internal/models"
	"github.com/cardfolio/cardfolio/internal/services"
)

// Maximum quantity allowed per owned item
const maxQuantity = 9999

type InventoryHandler struct {
	snapshotService *services.SnapshotService
}

func NewInventoryHandler(snapshot *services.SnapshotService) *InventoryHandler {
	return &InventoryHandler{
		snapshotService: snapshot,
	}
}

func (h *InventoryHandler) GetInventory(c *gin.Context) {
	db := database.GetDB()

	var items []models.OwnedItem
	query := db.Order("added_at DESC")

	// Optional filters
	if set := c.Query("set"); set != "" {
		query = query.Where("set_name = ?", set)
	}
	if grading := c.Query("grading"); grading != "" {
		if grading == models.GradingRaw {
			query = query.Where("grading_company = ?", models.GradingRaw)
		} else {
			query = query.Where("grading_company != ?", models.GradingRaw)
		}
	}

	if err := query.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) AddItem(c *gin.Context) {
	var req models.AddOwnedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	// Validate and set defaults
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}
	if quantity > maxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity exceeds maximum allowed (9999)"})
		return
	}
	if req.PurchasePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase price must not be negative"})
		return
	}
	if req.MarketPrice != nil && *req.MarketPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market price must not be negative"})
		return
	}
	grading := req.GradingCompany
	if grading == "" {
		grading = models.GradingRaw
	}

	// Try to merge into an existing stack of the same card
	var existing models.OwnedItem
	err := db.Where("LOWER(name) = ? AND set_name = ? AND grading_company = ?",
		strings.ToLower(req.Name), req.SetName, grading).
		First(&existing).Error

	if err == nil {
		existing.Quantity += quantity
		if existing.Quantity > maxQuantity {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity exceeds maximum allowed (9999)"})
			return
		}
		if req.MarketPrice != nil {
			existing.MarketPrice = req.MarketPrice
		}
		if err := db.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, existing)
		return
	}

	item := models.OwnedItem{
		Name:           req.Name,
		SetName:        req.SetName,
		Quantity:       quantity,
		PurchasePrice:  req.PurchasePrice,
		MarketPrice:    req.MarketPrice,
		GradingCompany: grading,
		Notes:          req.Notes,
		PriceSource:    "pending",
		AddedAt:        time.Now(),
	}

	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req models.UpdateOwnedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var item models.OwnedItem
	if err := db.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	if req.Quantity != nil {
		if *req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
			return
		}
		if *req.Quantity > maxQuantity {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity exceeds maximum allowed (9999)"})
			return
		}
		item.Quantity = *req.Quantity
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchase price must not be negative"})
			return
		}
		item.PurchasePrice = *req.PurchasePrice
	}
	if req.MarketPrice != nil {
		if *req.MarketPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "market price must not be negative"})
			return
		}
		item.MarketPrice = req.MarketPrice
	}
	if req.GradingCompany != nil {
		grading := *req.GradingCompany
		if grading == "" {
			grading = models.GradingRaw
		}
		item.GradingCompany = grading
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	db := database.GetDB()

	result := db.Delete(&models.OwnedItem{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *InventoryHandler) GetStats(c *gin.Context) {
	stats := services.CalculateStats(database.GetDB())
	c.JSON(http.StatusOK, stats)
}

// GetValueHistory returns collection value snapshots for charting
func (h *InventoryHandler) GetValueHistory(c *gin.Context) {
	if h.snapshotService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot service not available"})
		return
	}

	period := c.DefaultQuery("period", "month")

	snapshots, err := h.snapshotService.GetHistory(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Snapshots: snapshots,
		Period:    period,
	})
}

// TakeSnapshot records a value snapshot immediately
func (h *InventoryHandler) TakeSnapshot(c *gin.Context) {
	if h.snapshotService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot service not available"})
		return
	}

	if err := h.snapshotService.ForceTakeSnapshot(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "snapshot recorded"})
}
