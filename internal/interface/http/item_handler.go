package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devstack-id/fullstack-api/internal/application"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	"github.com/devstack-id/fullstack-api/internal/interface/middleware"
	"github.com/devstack-id/fullstack-api/pkg/response"
	"github.com/devstack-id/fullstack-api/pkg/validation"
)

// ItemHandler translates the /items routes into ItemService calls. Ownership
// enforcement happens in the service; this layer only shapes HTTP.
type ItemHandler struct {
	Svc    *application.ItemService
	Logger *logrus.Logger
}

func NewItemHandler(svc *application.ItemService, logger *logrus.Logger) *ItemHandler {
	return &ItemHandler{Svc: svc, Logger: logger}
}

type ItemPublic struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toItemPublic(it *entity.Item) ItemPublic {
	return ItemPublic{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Title:       it.Title,
		Description: it.Description,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

type createItemRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=2048"`
}

// Create POST /api/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.Detail(err))
		return
	}
	it, err := h.Svc.Create(c.Request.Context(), middleware.Caller(c), application.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemPublic(it))
}

// Get GET /api/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	it, err := h.Svc.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemPublic(it))
}

// List GET /api/items returns the caller's items; superusers see all.
func (h *ItemHandler) List(c *gin.Context) {
	offset, limit := pageParams(c)
	items, total, err := h.Svc.List(c.Request.Context(), middleware.Caller(c), offset, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	data := make([]ItemPublic, 0, len(items))
	for _, it := range items {
		data = append(data, toItemPublic(it))
	}
	c.JSON(http.StatusOK, response.List[ItemPublic]{Data: data, Count: total})
}

type updateItemRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2048"`
}

// Update PUT /api/items/:id. Partial: only supplied fields change.
func (h *ItemHandler) Update(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.Detail(err))
		return
	}
	it, err := h.Svc.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), application.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemPublic(it))
}

// Delete DELETE /api/items/:id returns the removed record.
func (h *ItemHandler) Delete(c *gin.Context) {
	it, err := h.Svc.Delete(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemPublic(it))
}
