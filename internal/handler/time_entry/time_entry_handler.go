// internal/handler/time_entry_handler.go
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/model/response/wrapper"
	service "github.com/dinerozz/focus-tracker-backend/internal/service/time_entry"
	"github.com/gin-gonic/gin"
)

type TimeEntryHandler struct {
	service service.TimeEntryService
}

func NewTimeEntryHandler(service service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{
		service: service,
	}
}

// Track godoc
// @Summary      Track time entry
// @Description  Record a single completed focus session
// @Tags         /api/v1/extension/track
// @Accept       json
// @Produce      json
// @Param        entry  body      entity.CreateTimeEntryRequest  true  "Time entry"
// @Success      201    {object}  wrapper.ResponseWrapper{data=entity.TimeEntry}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /track [post]
func (h *TimeEntryHandler) Track(c *gin.Context) {
	var req entity.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), c.GetString("extension_user_id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusCreated, wrapper.ResponseWrapper{
		Data:    entry,
		Success: true,
	})
}

// Sync godoc
// @Summary      Sync time entries
// @Description  Upload locally buffered entries in batches, failed batches do not abort the rest
// @Tags         /api/v1/extension/sync
// @Accept       json
// @Produce      json
// @Param        entries  body      entity.SyncEntriesRequest  true  "Entries to sync"
// @Success      200      {object}  wrapper.ResponseWrapper{data=entity.SyncEntriesResponse}
// @Failure      400      {object}  wrapper.ErrorWrapper
// @Failure      500      {object}  wrapper.ErrorWrapper
// @Router       /sync [post]
func (h *TimeEntryHandler) Sync(c *gin.Context) {
	var req entity.SyncEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	result, err := h.service.SyncEntries(c.Request.Context(), c.GetString("extension_user_id"), req)
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

// GetEntries godoc
// @Summary      Get time entries
// @Description  Get recorded time entries with optional filters
// @Tags         /api/v1/admin/entries
// @Accept       json
// @Produce      json
// @Param        userId     query     string  false  "User ID"
// @Param        domain     query     string  false  "Domain"
// @Param        startTime  query     string  false  "Start time (RFC3339 format)"
// @Param        endTime    query     string  false  "End time (RFC3339 format)"
// @Param        page       query     int     false  "Page number (starts from 1)"
// @Param        per_page   query     int     false  "Items per page (default: 50, max: 100)"
// @Success      200        {object}  wrapper.PaginatedResponseWrapper{data=[]entity.TimeEntry}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /entries [get]
func (h *TimeEntryHandler) GetEntries(c *gin.Context) {
	var filter entity.TimeEntryFilter

	// Парсинг query параметров
	if userID := c.Query("userId"); userID != "" {
		filter.UserID = &userID
	}

	if domain := c.Query("domain"); domain != "" {
		filter.Domain = &domain
	}

	if startTime := c.Query("startTime"); startTime != "" {
		t, err := time.Parse(time.RFC3339, startTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
				Message: "Invalid startTime format, expected RFC3339",
				Success: false,
			})
			return
		}
		filter.StartTime = &t
	}

	if endTime := c.Query("endTime"); endTime != "" {
		t, err := time.Parse(time.RFC3339, endTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
				Message: "Invalid endTime format, expected RFC3339",
				Success: false,
			})
			return
		}
		filter.EndTime = &t
	}

	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}

	if perPage := c.Query("per_page"); perPage != "" {
		if pp, err := strconv.Atoi(perPage); err == nil {
			filter.PerPage = pp
		}
	}

	entries, pagination, err := h.service.GetEntries(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, entity.PaginatedResponse{
		Data:       entries,
		Success:    true,
		Pagination: *pagination,
	})
}

// GetRollups godoc
// @Summary      Get daily rollups
// @Description  Get precomputed per-day aggregates for a date range
// @Tags         /api/v1/admin/entries
// @Accept       json
// @Produce      json
// @Param        userId     query     string  false  "User ID"
// @Param        startDate  query     string  true   "Start date (YYYY-MM-DD)"
// @Param        endDate    query     string  true   "End date (YYYY-MM-DD)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=[]entity.DailyRollup}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Router       /entries/rollups [get]
func (h *TimeEntryHandler) GetRollups(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	for _, date := range []string{startDate, endDate} {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
				Message: "startDate and endDate must be YYYY-MM-DD",
				Success: false,
			})
			return
		}
	}

	rollups, err := h.service.GetRollups(c.Request.Context(), c.Query("userId"), startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    rollups,
		Success: true,
	})
}
