package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peershare/service-rental/internal/application"
	bookingDomain "github.com/peershare/service-rental/internal/domain/booking"
	"github.com/peershare/service-rental/internal/middleware"
	"github.com/peershare/service-rental/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, identity gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	bookings.Use(identity)
	{
		bookings.POST("", h.CreateBooking)
		bookings.PATCH("/:id", h.ApproveBooking)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("", h.ListBookerBookings)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ApproveBooking handles PATCH /api/v1/bookings/:id?approved=true|false.
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "query parameter 'approved' must be true or false")
		return
	}

	result, err := h.service.ApproveBooking(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookerBookings handles GET /api/v1/bookings?state=.
func (h *BookingHandler) ListBookerBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	state, err := bookingDomain.ParseQueryState(c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ListByBooker(c.Request.Context(), userID, state)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOwnerBookings handles GET /api/v1/bookings/owner?state=.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	state, err := bookingDomain.ParseQueryState(c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ListByOwner(c.Request.Context(), userID, state)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func parseID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
