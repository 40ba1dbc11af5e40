package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/gazetteer"
)

// DistrictHandler serves the gazetteer loaded at startup.
type DistrictHandler struct {
	places *gazetteer.Gazetteer
}

// NewDistrictHandler constructs a DistrictHandler.
func NewDistrictHandler(places *gazetteer.Gazetteer) *DistrictHandler {
	return &DistrictHandler{places: places}
}

// ListDistricts returns every district in dataset order.
func (h *DistrictHandler) ListDistricts() gin.HandlerFunc {
	return func(c *gin.Context) {
		places := h.places.Places()
		c.JSON(http.StatusOK, gin.H{
			"count":     len(places),
			"districts": places,
		})
	}
}

// GetDistrict returns one district by canonical name.
func (h *DistrictHandler) GetDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		place, ok := h.places.Lookup(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "District not found",
				"error":   c.Param("name"),
			})
			return
		}
		c.JSON(http.StatusOK, place)
	}
}

// RegisterDistrictRoutes mounts the district endpoints on g.
func RegisterDistrictRoutes(g gin.IRoutes, h *DistrictHandler) {
	g.GET("/districts", h.ListDistricts())
	g.GET("/districts/:name", h.GetDistrict())
}
