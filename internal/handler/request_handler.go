package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shareit-lending/service-shareit/internal/application"
	"github.com/shareit-lending/service-shareit/internal/common/middleware"
	"github.com/shareit-lending/service-shareit/internal/common/response"
)

// RequestHandler handles HTTP requests for item requests.
type RequestHandler struct {
	service *application.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *application.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers item request routes.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	requests.Use(middleware.SharerIDMiddleware())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListOwnRequests)
		requests.GET("/all", h.ListOtherRequests)
		requests.GET("/:id", h.GetRequest)
	}
}

// CreateRequest handles POST /requests.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	var req application.CreateItemRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListOwnRequests handles GET /requests.
func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	result, err := h.service.ListOwnRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOtherRequests handles GET /requests/all?from&size.
func (h *RequestHandler) ListOtherRequests(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}
	page, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListOtherRequests(c.Request.Context(), userID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetRequest handles GET /requests/:id.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	result, err := h.service.GetRequest(c.Request.Context(), requestID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
