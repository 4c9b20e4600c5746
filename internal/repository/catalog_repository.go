package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resto-menu-api/internal/models"
)

const (
	categoryColumns      = "id, tenant_id, name, slug, description, sort_order, is_active, created_at, updated_at"
	modifierGroupColumns = "id, tenant_id, name, min_selections, max_selections, is_active, created_at, updated_at"
	menuItemColumns      = "id, tenant_id, name, description, category_id, price, cost, allergens, dietary_tags, modifier_group_ids, is_available, created_at, updated_at"
)

// CatalogRepository persists categories, modifier groups and menu items.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories returns a tenant's categories in display order.
func (r *CatalogRepository) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE tenant_id = $1 ORDER BY sort_order ASC, name ASC", categoryColumns)
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, tenantID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindCategoryByID loads a category.
func (r *CatalogRepository) FindCategoryByID(ctx context.Context, tenantID, id string) (*models.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE tenant_id = $1 AND id = $2", categoryColumns)
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, tenantID, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoryBySlug loads a category by its slug.
func (r *CatalogRepository) FindCategoryBySlug(ctx context.Context, tenantID, slug string) (*models.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE tenant_id = $1 AND slug = $2", categoryColumns)
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, tenantID, slug); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category.
func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	const query = `INSERT INTO categories (id, tenant_id, name, slug, description, sort_order, is_active, created_at, updated_at)
VALUES (:id, :tenant_id, :name, :slug, :description, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory updates a category.
func (r *CatalogRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE categories SET name = :name, slug = :slug, description = :description, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at WHERE tenant_id = :tenant_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ListModifierGroups returns a tenant's modifier groups.
func (r *CatalogRepository) ListModifierGroups(ctx context.Context, tenantID string) ([]models.ModifierGroup, error) {
	query := fmt.Sprintf("SELECT %s FROM modifier_groups WHERE tenant_id = $1 ORDER BY name ASC", modifierGroupColumns)
	var groups []models.ModifierGroup
	if err := r.db.SelectContext(ctx, &groups, query, tenantID); err != nil {
		return nil, fmt.Errorf("list modifier groups: %w", err)
	}
	return groups, nil
}

// CreateModifierGroup inserts a modifier group.
func (r *CatalogRepository) CreateModifierGroup(ctx context.Context, group *models.ModifierGroup) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	const query = `INSERT INTO modifier_groups (id, tenant_id, name, min_selections, max_selections, is_active, created_at, updated_at)
VALUES (:id, :tenant_id, :name, :min_selections, :max_selections, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create modifier group: %w", err)
	}
	return nil
}

// DeleteModifierGroup removes a modifier group.
func (r *CatalogRepository) DeleteModifierGroup(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM modifier_groups WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete modifier group: %w", err)
	}
	return nil
}

// ListItems returns menu items with optional filtering and pagination.
func (r *CatalogRepository) ListItems(ctx context.Context, filter models.MenuItemFilter) ([]models.MenuItem, int, error) {
	base := "FROM menu_items WHERE tenant_id = $1"
	args := []interface{}{filter.TenantID}
	var conditions []string

	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)+1))
		args = append(args, filter.CategoryID)
	}
	if filter.Available != nil {
		conditions = append(conditions, fmt.Sprintf("is_available = $%d", len(args)+1))
		args = append(args, *filter.Available)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	allowedSorts := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", menuItemColumns, base, sortBy, order, size, offset)
	var items []models.MenuItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list menu items: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count menu items: %w", err)
	}

	return withCategoryRefs(items), total, nil
}

// ListAllItems returns every item of a tenant for snapshot building.
func (r *CatalogRepository) ListAllItems(ctx context.Context, tenantID string) ([]models.MenuItem, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_items WHERE tenant_id = $1 ORDER BY name ASC, id ASC", menuItemColumns)
	var items []models.MenuItem
	if err := r.db.SelectContext(ctx, &items, query, tenantID); err != nil {
		return nil, fmt.Errorf("list tenant menu items: %w", err)
	}
	return withCategoryRefs(items), nil
}

// FindItemByID loads a menu item.
func (r *CatalogRepository) FindItemByID(ctx context.Context, tenantID, id string) (*models.MenuItem, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_items WHERE tenant_id = $1 AND id = $2", menuItemColumns)
	var item models.MenuItem
	if err := r.db.GetContext(ctx, &item, query, tenantID, id); err != nil {
		return nil, err
	}
	item = withCategoryRefs([]models.MenuItem{item})[0]
	return &item, nil
}

// CreateItem inserts a menu item.
func (r *CatalogRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	syncCategoryID(item)

	const query = `INSERT INTO menu_items (id, tenant_id, name, description, category_id, price, cost, allergens, dietary_tags, modifier_group_ids, is_available, created_at, updated_at)
VALUES (:id, :tenant_id, :name, :description, :category_id, :price, :cost, :allergens, :dietary_tags, :modifier_group_ids, :is_available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

// UpdateItem updates a menu item.
func (r *CatalogRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now().UTC()
	syncCategoryID(item)
	const query = `UPDATE menu_items SET name = :name, description = :description, category_id = :category_id, price = :price, cost = :cost, allergens = :allergens, dietary_tags = :dietary_tags, modifier_group_ids = :modifier_group_ids, is_available = :is_available, updated_at = :updated_at WHERE tenant_id = :tenant_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

// DeleteItem removes a menu item.
func (r *CatalogRepository) DeleteItem(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

func withCategoryRefs(items []models.MenuItem) []models.MenuItem {
	for i := range items {
		if items[i].CategoryID != "" {
			items[i].Category = models.RefByID[models.Category](items[i].CategoryID)
		}
	}
	return items
}

func syncCategoryID(item *models.MenuItem) {
	if id := item.Category.Identifier(); id != "" {
		item.CategoryID = id
	}
}
