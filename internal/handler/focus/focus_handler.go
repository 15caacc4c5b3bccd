// internal/handler/focus_handler.go
package handler

import (
	"net/http"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/model/response/wrapper"
	service "github.com/dinerozz/focus-tracker-backend/internal/service/focus"
	"github.com/gin-gonic/gin"
)

type FocusHandler struct {
	service service.FocusService
}

func NewFocusHandler(service service.FocusService) *FocusHandler {
	return &FocusHandler{
		service: service,
	}
}

// IngestEvents godoc
// @Summary      Ingest focus events
// @Description  Fold raw tab focus / window visibility events through the server-side tracker
// @Tags         /api/v1/extension/events
// @Accept       json
// @Produce      json
// @Param        events  body      entity.IngestEventsRequest  true  "Ordered focus events"
// @Success      200     {object}  wrapper.ResponseWrapper{data=entity.IngestEventsResponse}
// @Failure      400     {object}  wrapper.ErrorWrapper
// @Failure      500     {object}  wrapper.ErrorWrapper
// @Router       /events [post]
func (h *FocusHandler) IngestEvents(c *gin.Context) {
	var req entity.IngestEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	result, err := h.service.HandleEvents(c.Request.Context(), c.GetString("extension_user_id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    result,
		Success: true,
	})
}

// Live godoc
// @Summary      Live tracking stats
// @Description  Today's in-memory rollup, the currently tracked domain and the size of the retry queue
// @Tags         /api/v1/extension/live
// @Accept       json
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.LiveStatsResponse}
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /live [get]
func (h *FocusHandler) Live(c *gin.Context) {
	stats, err := h.service.Live(c.Request.Context(), c.GetString("extension_user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    stats,
		Success: true,
	})
}
