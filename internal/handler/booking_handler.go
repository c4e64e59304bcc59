package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shareit-lending/service-shareit/internal/application"
	"github.com/shareit-lending/service-shareit/internal/common/middleware"
	"github.com/shareit-lending/service-shareit/internal/common/response"
	bookingDomain "github.com/shareit-lending/service-shareit/internal/domain/booking"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
	now     func() time.Time
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service, now: time.Now}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.SharerIDMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookerBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.PatchBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	now := h.now()
	switch {
	case req.Start.IsZero() || req.End.IsZero():
		response.BadRequest(c, "start and end are required")
		return
	case req.Start.Before(now.Truncate(time.Second)):
		response.BadRequest(c, "start must not be in the past")
		return
	case !req.End.After(now):
		response.BadRequest(c, "end must be in the future")
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// PatchBooking handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) PatchBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.PatchBooking(c.Request.Context(), bookingID, approved, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookerBookings handles GET /bookings.
func (h *BookingHandler) ListBookerBookings(c *gin.Context) {
	h.list(c, application.RoleBooker)
}

// ListOwnerBookings handles GET /bookings/owner.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	h.list(c, application.RoleOwner)
}

func (h *BookingHandler) list(c *gin.Context, role application.BookingRole) {
	userID, ok := sharerID(c)
	if !ok {
		return
	}

	state, err := bookingDomain.ParseState(c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}

	page, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), role, userID, state, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
