package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/service"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

type catalogService interface {
	ListCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, tenantID string, req service.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, tenantID, id string, req service.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, tenantID, id string) error
	ListModifierGroups(ctx context.Context, tenantID string) ([]models.ModifierGroup, error)
	CreateModifierGroup(ctx context.Context, tenantID string, req service.ModifierGroupRequest) (*models.ModifierGroup, error)
	DeleteModifierGroup(ctx context.Context, tenantID, id string) error
	ListItems(ctx context.Context, filter models.MenuItemFilter) ([]models.MenuItem, *models.Pagination, error)
	GetItem(ctx context.Context, tenantID, id string) (*models.MenuItem, error)
	CreateItem(ctx context.Context, tenantID string, req service.MenuItemRequest) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, tenantID, id string, req service.MenuItemRequest) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, tenantID, id string) error
}

// CatalogHandler exposes categories, modifier groups and menu items.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListCategories godoc
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), tenantFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// CreateCategory godoc
// @Summary Create category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CategoryRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), tenantFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory godoc
// @Summary Update category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param payload body service.CategoryRequest true "Category payload"
// @Success 200 {object} response.Envelope
// @Router /categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category, nil)
}

// DeleteCategory godoc
// @Summary Delete category
// @Tags Catalog
// @Param id path string true "Category ID"
// @Success 204
// @Router /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Request.Context(), tenantFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListModifierGroups godoc
// @Summary List modifier groups
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /modifier-groups [get]
func (h *CatalogHandler) ListModifierGroups(c *gin.Context) {
	groups, err := h.service.ListModifierGroups(c.Request.Context(), tenantFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// CreateModifierGroup godoc
// @Summary Create modifier group
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.ModifierGroupRequest true "Modifier group payload"
// @Success 201 {object} response.Envelope
// @Router /modifier-groups [post]
func (h *CatalogHandler) CreateModifierGroup(c *gin.Context) {
	var req service.ModifierGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.service.CreateModifierGroup(c.Request.Context(), tenantFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// DeleteModifierGroup godoc
// @Summary Delete modifier group
// @Tags Catalog
// @Param id path string true "Modifier group ID"
// @Success 204
// @Router /modifier-groups/{id} [delete]
func (h *CatalogHandler) DeleteModifierGroup(c *gin.Context) {
	if err := h.service.DeleteModifierGroup(c.Request.Context(), tenantFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListItems godoc
// @Summary List menu items
// @Tags Catalog
// @Produce json
// @Param category query string false "Category ID"
// @Param search query string false "Name search"
// @Param available query bool false "Availability"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "name, price or created_at"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	filter := models.MenuItemFilter{
		TenantID:   tenantFromContext(c),
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Available:  queryBool(c, "available"),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}
	filter.Page, filter.PageSize = queryPaging(c)

	items, pagination, err := h.service.ListItems(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// GetItem godoc
// @Summary Get menu item
// @Tags Catalog
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} response.Envelope
// @Router /items/{id} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.service.GetItem(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// CreateItem godoc
// @Summary Create menu item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.MenuItemRequest true "Menu item payload"
// @Success 201 {object} response.Envelope
// @Router /items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.MenuItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.CreateItem(c.Request.Context(), tenantFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateItem godoc
// @Summary Update menu item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param payload body service.MenuItemRequest true "Menu item payload"
// @Success 200 {object} response.Envelope
// @Router /items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var req service.MenuItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.UpdateItem(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteItem godoc
// @Summary Delete menu item
// @Tags Catalog
// @Param id path string true "Menu item ID"
// @Success 204
// @Router /items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.service.DeleteItem(c.Request.Context(), tenantFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
