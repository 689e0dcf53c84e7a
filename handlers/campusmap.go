package handlers

import (
	"net/http"

	"bcplughub/services/campusmap"

	"github.com/gin-gonic/gin"
)

// MapHandler serves /api/map.
type MapHandler struct {
	Map *campusmap.Service
}

func NewMapHandler(svc *campusmap.Service) *MapHandler {
	return &MapHandler{Map: svc}
}

func (h *MapHandler) HeatmapHandler(c *gin.Context) {
	window, err := campusmap.ParseWindow(c.Query("hours"))
	if err != nil {
		badRequest(c, err)
		return
	}
	points, err := h.Map.Heatmap(window)
	if err != nil {
		respondError(c, err, "Failed to build heatmap")
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points, "count": len(points), "hours": window.Hours()})
}

func (h *MapHandler) MarkersHandler(c *gin.Context) {
	window, err := campusmap.ParseWindow(c.Query("hours"))
	if err != nil {
		badRequest(c, err)
		return
	}
	groups, err := h.Map.Markers(window)
	if err != nil {
		respondError(c, err, "Failed to group events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": groups, "count": len(groups), "hours": window.Hours()})
}

func (h *MapHandler) LocationsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"center":    campusmap.Center,
		"bounds":    campusmap.Bounds,
		"locations": campusmap.Locations,
	})
}
