// internal/handler/category_handler.go
package handler

import (
	"errors"
	"net/http"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/model/response/wrapper"
	"github.com/dinerozz/focus-tracker-backend/internal/service/category"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// GetCategories godoc
// @Summary      Get domain categories
// @Description  Get the user's productive/unproductive domain sets, defaults when not configured
// @Tags         /api/v1/admin/categories
// @Accept       json
// @Produce      json
// @Param        userId  query     string  true  "User ID"
// @Success      200     {object}  wrapper.ResponseWrapper{data=entity.Categories}
// @Failure      400     {object}  wrapper.ErrorWrapper
// @Failure      500     {object}  wrapper.ErrorWrapper
// @Router       /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.service.GetCategories(c.Request.Context(), c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    categories,
		Success: true,
	})
}

// UpdateCategories godoc
// @Summary      Replace domain categories
// @Description  Replace both category sets at once, sets must stay disjoint
// @Tags         /api/v1/admin/categories
// @Accept       json
// @Produce      json
// @Param        userId      query     string             true  "User ID"
// @Param        categories  body      entity.Categories  true  "Category sets"
// @Success      200         {object}  wrapper.ResponseWrapper{data=entity.Categories}
// @Failure      400         {object}  wrapper.ErrorWrapper
// @Failure      500         {object}  wrapper.ErrorWrapper
// @Router       /categories [put]
func (h *CategoryHandler) UpdateCategories(c *gin.Context) {
	var req entity.Categories
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	if err := h.service.SaveCategories(c.Request.Context(), c.Query("userId"), req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    req,
		Success: true,
	})
}

// AddDomain godoc
// @Summary      Categorize a domain
// @Description  Put a domain into the productive or unproductive set, removing it from the other
// @Tags         /api/v1/admin/categories
// @Accept       json
// @Produce      json
// @Param        userId  query     string                       true  "User ID"
// @Param        domain  body      entity.CategoryDomainRequest true  "Domain and target category"
// @Success      200     {object}  wrapper.ResponseWrapper{data=entity.Categories}
// @Failure      400     {object}  wrapper.ErrorWrapper
// @Failure      500     {object}  wrapper.ErrorWrapper
// @Router       /categories/domains [post]
func (h *CategoryHandler) AddDomain(c *gin.Context) {
	var req entity.CategoryDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	categories, err := h.service.AddDomain(c.Request.Context(), c.Query("userId"), req.Domain, req.Category)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, category.ErrInvalidDomain) {
			status = http.StatusBadRequest
		}
		c.JSON(status, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    categories,
		Success: true,
	})
}

// RemoveDomain godoc
// @Summary      Uncategorize a domain
// @Description  Remove a domain from a category set, it becomes neutral
// @Tags         /api/v1/admin/categories
// @Accept       json
// @Produce      json
// @Param        userId  query     string                       true  "User ID"
// @Param        domain  body      entity.CategoryDomainRequest true  "Domain and category to remove from"
// @Success      200     {object}  wrapper.ResponseWrapper{data=entity.Categories}
// @Failure      400     {object}  wrapper.ErrorWrapper
// @Failure      500     {object}  wrapper.ErrorWrapper
// @Router       /categories/domains [delete]
func (h *CategoryHandler) RemoveDomain(c *gin.Context) {
	var req entity.CategoryDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
			Success: false,
		})
		return
	}

	categories, err := h.service.RemoveDomain(c.Request.Context(), c.Query("userId"), req.Domain, req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    categories,
		Success: true,
	})
}
