package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peershare/service-rental/internal/application"
	"github.com/peershare/service-rental/internal/middleware"
	"github.com/peershare/service-rental/internal/response"
)

// ItemHandler handles HTTP requests for item and comment operations.
type ItemHandler struct {
	service *application.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers all item routes on the given router group. Reads of
// a single item and search are open; everything else needs the identity header.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup, identity gin.HandlerFunc) {
	items := r.Group("/items")
	{
		items.POST("", identity, h.CreateItem)
		items.PATCH("/:id", identity, h.UpdateItem)
		items.GET("", identity, h.ListOwnerItems)
		items.POST("/:id/comment", identity, h.CreateComment)
		items.GET("/search", h.SearchItems)
		items.GET("/:id", h.GetItem)
	}
}

// CreateItem handles POST /api/v1/items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
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

// UpdateItem handles PATCH /api/v1/items/:id.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	itemID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid item ID")
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetItem handles GET /api/v1/items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid item ID")
		return
	}

	result, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOwnerItems handles GET /api/v1/items.
func (h *ItemHandler) ListOwnerItems(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListOwnerItems(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SearchItems handles GET /api/v1/items/search?text=.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	result, err := h.service.SearchItems(c.Request.Context(), c.Query("text"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateComment handles POST /api/v1/items/:id/comment.
func (h *ItemHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	itemID, err := parseID(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid item ID")
		return
	}

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateComment(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
