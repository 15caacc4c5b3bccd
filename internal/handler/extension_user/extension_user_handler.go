// internal/handler/extension_user_handler.go
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/model/response/wrapper"
	service "github.com/dinerozz/focus-tracker-backend/internal/service/extension_user"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type ExtensionUserHandler struct {
	service service.ExtensionUserService
}

func NewExtensionUserHandler(service service.ExtensionUserService) *ExtensionUserHandler {
	return &ExtensionUserHandler{
		service: service,
	}
}

// CreateExtensionUser godoc
// @Summary      Create extension user
// @Description  Create a new extension user with API key
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        user  body      entity.CreateExtensionUserRequest  true  "User data"
// @Success      201   {object}  wrapper.ResponseWrapper{data=entity.ExtensionUser}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Router       /extension/users/generate [post]
func (h *ExtensionUserHandler) CreateExtensionUser(c *gin.Context) {
	var req entity.CreateExtensionUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		if err.Error() == "username already exists" {
			c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
				Message: err.Error(),
				Success: false,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusCreated, wrapper.ResponseWrapper{
		Data:    user,
		Success: true,
	})
}

// GetExtensionUserByID godoc
// @Summary      Get extension user by ID
// @Description  Get a specific extension user by their ID
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserPublic}
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      404  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /extension/users/{id} [get]
func (h *ExtensionUserHandler) GetExtensionUserByID(c *gin.Context) {
	idStr := c.Param("id")
	userID, err := uuid.FromString(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid UUID format",
			Success: false,
		})
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if err.Error() == "user not found" {
			c.JSON(http.StatusNotFound, wrapper.ErrorWrapper{
				Message: "Extension user not found",
				Success: false,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    user,
		Success: true,
	})
}

// GetExtensionUsers godoc
// @Summary      List extension users
// @Description  Get extension users with optional filters
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        username  query     string  false  "Username (partial match)"
// @Param        isActive  query     bool    false  "Active flag"
// @Param        limit     query     int     false  "Limit (default: 50, max: 200)"
// @Param        offset    query     int     false  "Offset"
// @Success      200       {object}  wrapper.ResponseWrapper{data=[]entity.ExtensionUserPublic}
// @Failure      500       {object}  wrapper.ErrorWrapper
// @Router       /extension/users [get]
func (h *ExtensionUserHandler) GetExtensionUsers(c *gin.Context) {
	var filter entity.ExtensionUserFilter

	filter.Username = c.Query("username")

	if isActive := c.Query("isActive"); isActive != "" {
		if parsed, err := strconv.ParseBool(isActive); err == nil {
			filter.IsActive = &parsed
		}
	}

	if limit := c.Query("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filter.Limit = parsed
		}
	}

	if offset := c.Query("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil {
			filter.Offset = parsed
		}
	}

	users, err := h.service.GetAllUsers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    users,
		Success: true,
	})
}

// UpdateExtensionUser godoc
// @Summary      Update extension user
// @Description  Update username or active flag
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        id    path      string                             true  "User ID"
// @Param        user  body      entity.UpdateExtensionUserRequest  true  "Fields to update"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserPublic}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      404   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Router       /extension/users/{id} [patch]
func (h *ExtensionUserHandler) UpdateExtensionUser(c *gin.Context) {
	idStr := c.Param("id")
	userID, err := uuid.FromString(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid UUID format",
			Success: false,
		})
		return
	}

	var req entity.UpdateExtensionUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		if err.Error() == "user not found" {
			c.JSON(http.StatusNotFound, wrapper.ErrorWrapper{
				Message: "Extension user not found",
				Success: false,
			})
			return
		}
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    user,
		Success: true,
	})
}

// RegenerateAPIKey godoc
// @Summary      Regenerate API key
// @Description  Issue a new API key for an active extension user
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.RegenerateAPIKeyResponse}
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      404  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /extension/users/{id}/regenerate [post]
func (h *ExtensionUserHandler) RegenerateAPIKey(c *gin.Context) {
	idStr := c.Param("id")
	userID, err := uuid.FromString(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid UUID format",
			Success: false,
		})
		return
	}

	result, err := h.service.RegenerateAPIKey(c.Request.Context(), userID)
	if err != nil {
		if err.Error() == "user not found" {
			c.JSON(http.StatusNotFound, wrapper.ErrorWrapper{
				Message: "Extension user not found",
				Success: false,
			})
			return
		}
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

// DeleteExtensionUser godoc
// @Summary      Delete extension user
// @Description  Permanently delete an extension user
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  wrapper.SuccessWrapper
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      404  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /extension/users/{id} [delete]
func (h *ExtensionUserHandler) DeleteExtensionUser(c *gin.Context) {
	idStr := c.Param("id")
	userID, err := uuid.FromString(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid UUID format",
			Success: false,
		})
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, wrapper.ErrorWrapper{
				Message: "Extension user not found",
				Success: false,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.SuccessWrapper{
		Message: "Extension user deleted",
		Success: true,
	})
}

// ValidateAPIKey godoc
// @Summary      Validate API key
// @Description  Confirm the X-API-Key header belongs to an active extension user
// @Tags         /api/v1/extension
// @Accept       json
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserPublic}
// @Failure      401  {object}  wrapper.ErrorWrapper
// @Router       /users/auth [get]
func (h *ExtensionUserHandler) ValidateAPIKey(c *gin.Context) {
	user, exists := c.Get("extension_user")
	if !exists {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{
			Message: "Invalid or inactive API key",
			Success: false,
		})
		return
	}

	extensionUser := user.(*entity.ExtensionUser)

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data: entity.ExtensionUserPublic{
			ID:         extensionUser.ID,
			Username:   extensionUser.Username,
			IsActive:   extensionUser.IsActive,
			CreatedAt:  extensionUser.CreatedAt,
			UpdatedAt:  extensionUser.UpdatedAt,
			LastUsedAt: extensionUser.LastUsedAt,
		},
		Success: true,
	})
}

// GetExtensionUserStats godoc
// @Summary      Extension user stats
// @Description  Aggregate counts of extension users and recent activity
// @Tags         /api/v1/admin/extension
// @Accept       json
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.ExtensionUserStats}
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /extension/users/stats [get]
func (h *ExtensionUserHandler) GetExtensionUserStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
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
