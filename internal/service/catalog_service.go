package service

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/models"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type catalogRepository interface {
	ListCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	FindCategoryByID(ctx context.Context, tenantID, id string) (*models.Category, error)
	FindCategoryBySlug(ctx context.Context, tenantID, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, tenantID, id string) error
	ListModifierGroups(ctx context.Context, tenantID string) ([]models.ModifierGroup, error)
	CreateModifierGroup(ctx context.Context, group *models.ModifierGroup) error
	DeleteModifierGroup(ctx context.Context, tenantID, id string) error
	ListItems(ctx context.Context, filter models.MenuItemFilter) ([]models.MenuItem, int, error)
	ListAllItems(ctx context.Context, tenantID string) ([]models.MenuItem, error)
	FindItemByID(ctx context.Context, tenantID, id string) (*models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, tenantID, id string) error
}

// CategoryRequest is the create/update payload of a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// ModifierGroupRequest is the create payload of a modifier group.
type ModifierGroupRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	MinSelections int    `json:"min_selections" validate:"min=0"`
	MaxSelections int    `json:"max_selections" validate:"min=0"`
}

// MenuItemRequest is the create/update payload of a menu item.
type MenuItemRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description"`
	CategoryID     string   `json:"category" validate:"required"`
	Price          float64  `json:"price" validate:"min=0"`
	Cost           float64  `json:"cost" validate:"min=0"`
	Allergens      []string `json:"allergens"`
	DietaryTags    []string `json:"dietary_tags"`
	ModifierGroups []string `json:"modifier_groups"`
	IsAvailable    *bool    `json:"is_available"`
}

// CatalogService manages categories, modifier groups and menu items.
type CatalogService struct {
	repo      catalogRepository
	notifier  changeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(repo catalogRepository, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, notifier: notifierOrNop(notifier), validator: validate, logger: logger}
}

// ListCategories returns the categories of a tenant.
func (s *CatalogService) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// CreateCategory adds a category with a unique slug.
func (s *CatalogService) CreateCategory(ctx context.Context, tenantID string, req CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "category slug is empty")
	}
	if err := s.ensureSlugFree(ctx, tenantID, slug, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		TenantID:    tenantID,
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, category.ID)
	return category, nil
}

// UpdateCategory modifies a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, tenantID, id string, req CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}
	category, err := s.getCategory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if slug := Slugify(req.Slug); slug != "" && slug != category.Slug {
		if err := s.ensureSlugFree(ctx, tenantID, slug, id); err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	category.SortOrder = req.SortOrder
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update category")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, category.ID)
	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, tenantID, id string) error {
	if _, err := s.getCategory(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, tenantID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, id)
	return nil
}

// ListModifierGroups returns the modifier groups of a tenant.
func (s *CatalogService) ListModifierGroups(ctx context.Context, tenantID string) ([]models.ModifierGroup, error) {
	groups, err := s.repo.ListModifierGroups(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modifier groups")
	}
	return groups, nil
}

// CreateModifierGroup adds a modifier group.
func (s *CatalogService) CreateModifierGroup(ctx context.Context, tenantID string, req ModifierGroupRequest) (*models.ModifierGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid modifier group payload")
	}
	if req.MaxSelections > 0 && req.MaxSelections < req.MinSelections {
		return nil, appErrors.Clone(appErrors.ErrValidation, "max_selections must not be lower than min_selections")
	}
	group := &models.ModifierGroup{
		TenantID:      tenantID,
		Name:          strings.TrimSpace(req.Name),
		MinSelections: req.MinSelections,
		MaxSelections: req.MaxSelections,
		IsActive:      true,
	}
	if err := s.repo.CreateModifierGroup(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create modifier group")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, group.ID)
	return group, nil
}

// DeleteModifierGroup removes a modifier group.
func (s *CatalogService) DeleteModifierGroup(ctx context.Context, tenantID, id string) error {
	if err := s.repo.DeleteModifierGroup(ctx, tenantID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete modifier group")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, id)
	return nil
}

// ListItems returns paginated menu items.
func (s *CatalogService) ListItems(ctx context.Context, filter models.MenuItemFilter) ([]models.MenuItem, *models.Pagination, error) {
	items, total, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list menu items")
	}
	return items, paginate(filter.Page, filter.PageSize, total), nil
}

// GetItem returns a menu item by identifier.
func (s *CatalogService) GetItem(ctx context.Context, tenantID, id string) (*models.MenuItem, error) {
	item, err := s.repo.FindItemByID(ctx, tenantID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "menu item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load menu item")
	}
	return item, nil
}

// CreateItem adds a menu item to an existing category.
func (s *CatalogService) CreateItem(ctx context.Context, tenantID string, req MenuItemRequest) (*models.MenuItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid menu item payload")
	}
	category, err := s.getCategory(ctx, tenantID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	item := &models.MenuItem{TenantID: tenantID, IsAvailable: true}
	applyItemRequest(item, req, *category)
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create menu item")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, item.ID)
	return item, nil
}

// UpdateItem modifies a menu item.
func (s *CatalogService) UpdateItem(ctx context.Context, tenantID, id string, req MenuItemRequest) (*models.MenuItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid menu item payload")
	}
	item, err := s.GetItem(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	category, err := s.getCategory(ctx, tenantID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	applyItemRequest(item, req, *category)
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update menu item")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, item.ID)
	return item, nil
}

// DeleteItem removes a menu item.
func (s *CatalogService) DeleteItem(ctx context.Context, tenantID, id string) error {
	if _, err := s.GetItem(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, tenantID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete menu item")
	}
	s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, id)
	return nil
}

func (s *CatalogService) getCategory(ctx context.Context, tenantID, id string) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, tenantID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	return category, nil
}

func (s *CatalogService) ensureSlugFree(ctx context.Context, tenantID, slug, excludeID string) error {
	existing, err := s.repo.FindCategoryBySlug(ctx, tenantID, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category slug")
	}
	if existing.ID != excludeID {
		return appErrors.Clone(appErrors.ErrConflict, "category slug already exists")
	}
	return nil
}

func applyItemRequest(item *models.MenuItem, req MenuItemRequest, category models.Category) {
	item.Name = strings.TrimSpace(req.Name)
	item.Description = req.Description
	item.CategoryID = category.ID
	item.Category = models.Resolved(category)
	item.Price = req.Price
	item.Cost = req.Cost
	item.Allergens = req.Allergens
	item.DietaryTags = req.DietaryTags
	item.ModifierGroups = req.ModifierGroups
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
}

// Slugify lower-cases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
