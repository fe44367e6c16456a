package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartmap-backend/internal/catalog"
)

type categoryResponse struct {
	Code  catalog.Category `json:"code"`
	Label string           `json:"label"`
}

// GetCatalog handles GET /api/catalog.
func (h *Handler) GetCatalog(c *gin.Context) {
	categories := make([]categoryResponse, 0, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		categories = append(categories, categoryResponse{Code: cat, Label: cat.Label()})
	}
	c.JSON(http.StatusOK, gin.H{
		"explorerDistricts": catalog.ExplorerDistricts,
		"districts":         catalog.Districts,
		"categories":        categories,
		"allServicesLabel":  catalog.AllServicesLabel,
	})
}
