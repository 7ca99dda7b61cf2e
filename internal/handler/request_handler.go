package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peershare/service-rental/internal/application"
	"github.com/peershare/service-rental/internal/middleware"
	"github.com/peershare/service-rental/internal/response"
)

// RequestHandler handles HTTP requests for the request board.
type RequestHandler struct {
	service *application.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *application.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers all request-board routes on the given router group.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup, identity gin.HandlerFunc) {
	requests := r.Group("/requests")
	requests.Use(identity)
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListOwnRequests)
		requests.GET("/all", h.ListOtherRequests)
		requests.GET("/:id", h.GetRequest)
	}
}

// CreateRequest handles POST /api/v1/requests.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
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

// ListOwnRequests handles GET /api/v1/requests.
func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListOwnRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOtherRequests handles GET /api/v1/requests/all.
func (h *RequestHandler) ListOtherRequests(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListOtherRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRequest handles GET /api/v1/requests/:id.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	_, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requestID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid request ID")
		return
	}

	result, err := h.service.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
