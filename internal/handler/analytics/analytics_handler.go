// internal/handler/analytics_handler.go
package handler

import (
	"net/http"
	"strings"

	"github.com/dinerozz/focus-tracker-backend/internal/model/response/wrapper"
	service "github.com/dinerozz/focus-tracker-backend/internal/service/analytics"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// GetAnalytics godoc
// @Summary      Get analytics report
// @Description  Aggregated usage report for a period: summary, daily, top domains, hourly and category breakdowns
// @Tags         /api/v1/admin/analytics
// @Accept       json
// @Produce      json
// @Param        userId  query     string  false  "User ID"
// @Param        period  query     string  false  "Period: 1d, 7d, 30d or 90d (default 7d)"
// @Success      200     {object}  wrapper.ResponseWrapper{data=entity.AnalyticsReport}
// @Failure      400     {object}  wrapper.ErrorWrapper
// @Failure      500     {object}  wrapper.ErrorWrapper
// @Router       /analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", "7d")

	report, err := h.service.GetAnalytics(c.Request.Context(), c.Query("userId"), period)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.HasPrefix(err.Error(), "unknown period") {
			status = http.StatusBadRequest
		}
		c.JSON(status, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    report,
		Success: true,
	})
}

// GetDashboard godoc
// @Summary      Get dashboard
// @Description  Today's totals with top sites and a zero-filled weekly breakdown
// @Tags         /api/v1/admin/dashboard
// @Accept       json
// @Produce      json
// @Param        userId  query     string  false  "User ID"
// @Success      200     {object}  wrapper.ResponseWrapper{data=entity.DashboardResponse}
// @Failure      500     {object}  wrapper.ErrorWrapper
// @Router       /dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context(), c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    dashboard,
		Success: true,
	})
}
