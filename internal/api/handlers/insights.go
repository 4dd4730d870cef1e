package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardfolio/cardfolio/internal/services"
)

type InsightsHandler struct {
	insightsService *services.InsightsService
}

func NewInsightsHandler(insightsService *services.InsightsService) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
	}
}

// GetProfile returns the derived collection profile
func (h *InsightsHandler) GetProfile(c *gin.Context) {
	profile, err := h.insightsService.Profile()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetRecommendations returns ranked acquisition suggestions. The optional
// seed parameter reshuffles candidate ordering; clients bump it to implement
// the shuffle action.
func (h *InsightsHandler) GetRecommendations(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	var seed uint64
	if seedStr := c.Query("seed"); seedStr != "" {
		parsed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be a non-negative integer"})
			return
		}
		seed = parsed
	}

	recs, err := h.insightsService.Recommendations(limit, seed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"total_count":     len(recs),
		"seed":            seed,
	})
}
