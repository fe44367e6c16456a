package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartmap-backend/internal/catalog"
	"smartmap-backend/internal/filter"
	"smartmap-backend/internal/model"
)

// facilityResponse is a record plus its outbound map link.
type facilityResponse struct {
	model.Facility
	MapURL string `json:"mapUrl"`
}

type listResponse struct {
	Title    string             `json:"title"`
	District catalog.District   `json:"district"`
	Items    []facilityResponse `json:"items"`
}

func toResponses(recs []model.Facility) []facilityResponse {
	out := make([]facilityResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, facilityResponse{Facility: r, MapURL: filter.MapURL(r.Address)})
	}
	return out
}

// ListFacilities handles GET /api/facilities. The service filter is given either
// as a category (code or label) or as a composed "<district> <category>" label.
func (h *Handler) ListFacilities(c *gin.Context) {
	district := catalog.AllDistricts
	if raw := c.Query("district"); raw != "" {
		d, err := catalog.ParseDistrict(raw)
		if err != nil {
			h.abort(c, err)
			return
		}
		district = d
	}

	recs := h.store.All()

	if label, ok := c.GetQuery("service"); ok {
		c.JSON(http.StatusOK, listResponse{
			Title:    label,
			District: district,
			Items:    toResponses(filter.FilterByLabel(recs, district, label)),
		})
		return
	}

	category := catalog.AllCategories
	if raw := c.Query("category"); raw != "" {
		cat, err := catalog.ParseCategory(raw)
		if err != nil {
			h.abort(c, err)
			return
		}
		category = cat
	}

	c.JSON(http.StatusOK, listResponse{
		Title:    catalog.ServiceLabel(district, category),
		District: district,
		Items:    toResponses(filter.Filter(recs, filter.Selection{District: district, Category: category})),
	})
}

// GetFacility handles GET /api/facilities/:id.
func (h *Handler) GetFacility(c *gin.Context) {
	rec, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "facility not found"})
		return
	}
	c.JSON(http.StatusOK, facilityResponse{Facility: rec, MapURL: filter.MapURL(rec.Address)})
}
