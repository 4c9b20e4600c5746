package models

import (
	"time"

	"github.com/lib/pq"
)

// Category groups menu items. Schedules reference categories by slug.
type Category struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description,omitempty"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RefID implements Identifiable.
func (c Category) RefID() string { return c.ID }

// ModifierGroup is a set of options (sizes, extras) attachable to items.
type ModifierGroup struct {
	ID            string    `db:"id" json:"id"`
	TenantID      string    `db:"tenant_id" json:"tenant_id"`
	Name          string    `db:"name" json:"name"`
	MinSelections int       `db:"min_selections" json:"min_selections"`
	MaxSelections int       `db:"max_selections" json:"max_selections"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RefID implements Identifiable.
func (g ModifierGroup) RefID() string { return g.ID }

// MenuItem is a sellable catalog entry.
type MenuItem struct {
	ID             string         `db:"id" json:"id"`
	TenantID       string         `db:"tenant_id" json:"tenant_id"`
	Name           string         `db:"name" json:"name"`
	Description    string         `db:"description" json:"description,omitempty"`
	CategoryID     string         `db:"category_id" json:"-"`
	Category       Ref[Category]  `db:"-" json:"category"`
	Price          float64        `db:"price" json:"price"`
	Cost           float64        `db:"cost" json:"cost"`
	Allergens      pq.StringArray `db:"allergens" json:"allergens"`
	DietaryTags    pq.StringArray `db:"dietary_tags" json:"dietary_tags"`
	ModifierGroups pq.StringArray `db:"modifier_group_ids" json:"modifier_groups"`
	IsAvailable    bool           `db:"is_available" json:"is_available"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// RefID implements Identifiable.
func (m MenuItem) RefID() string { return m.ID }

// MenuItemFilter describes query params for listing menu items.
type MenuItemFilter struct {
	TenantID   string
	CategoryID string
	Search     string
	Available  *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// Catalog is the full tenant catalog used by menu aggregation.
type Catalog struct {
	Items          []MenuItem      `json:"items"`
	Categories     []Category      `json:"categories"`
	ModifierGroups []ModifierGroup `json:"modifier_groups"`
}

// CategorySlug returns the slug of the item's category, looked up in the catalog
// when the reference is not populated.
func (c Catalog) CategorySlug(item MenuItem) string {
	if cat, ok := item.Category.Resolve(); ok {
		return cat.Slug
	}
	id := item.Category.Identifier()
	if id == "" {
		id = item.CategoryID
	}
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat.Slug
		}
	}
	return ""
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
