package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shareit-lending/service-shareit/internal/application"
	"github.com/shareit-lending/service-shareit/internal/common/middleware"
	"github.com/shareit-lending/service-shareit/internal/common/response"
)

// ItemHandler handles HTTP requests for items and their comments.
type ItemHandler struct {
	service *application.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers item routes. Deletion does not require a caller id.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	sharer := middleware.SharerIDMiddleware()

	items.POST("", sharer, h.CreateItem)
	items.GET("", sharer, h.ListOwnerItems)
	items.GET("/search", sharer, h.SearchItems)
	items.GET("/:id", sharer, h.GetItem)
	items.PATCH("/:id", sharer, h.UpdateItem)
	items.DELETE("/:id", h.DeleteItem)
	items.POST("/:id/comment", sharer, h.CreateComment)
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetItem handles GET /items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	result, err := h.service.GetItem(c.Request.Context(), itemID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateItem handles PATCH /items/:id.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), itemID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteItem handles DELETE /items/:id.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListOwnerItems handles GET /items.
func (h *ItemHandler) ListOwnerItems(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}
	page, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListOwnerItems(c.Request.Context(), userID, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SearchItems handles GET /items/search?text=.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	page, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.SearchItems(c.Request.Context(), c.Query("text"), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateComment handles POST /items/:id/comment.
func (h *ItemHandler) CreateComment(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateComment(c.Request.Context(), itemID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
