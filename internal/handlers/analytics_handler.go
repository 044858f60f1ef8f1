package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/services"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

// CategoryCounts returns issues-per-category totals
// @Summary Issue counts per category
// @Tags analytics
// @Produce json
// @Success 200 {object} services.AnalyticsSummary
// @Router /analytics/categories [get]
func (h *AnalyticsHandler) CategoryCounts(c *gin.Context) {
	summary, err := h.analyticsService.CategoryCounts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Locations returns issue coordinates for the heat map
// @Summary Issue locations
// @Tags analytics
// @Produce json
// @Success 200 {array} models.LocationPoint
// @Router /analytics/locations [get]
func (h *AnalyticsHandler) Locations(c *gin.Context) {
	points, err := h.analyticsService.Locations(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// ExportIssues downloads all issues as an xlsx workbook
// @Summary Export issues workbook
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /analytics/export [get]
func (h *AnalyticsHandler) ExportIssues(c *gin.Context) {
	h.LogRequest(c, "Exporting issues workbook")

	data, err := h.analyticsService.ExportIssues(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("issues-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
