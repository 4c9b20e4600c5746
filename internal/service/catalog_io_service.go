package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/models"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
	"github.com/noah-isme/resto-menu-api/pkg/export"
)

// CatalogFormat is an interchange format of the catalog.
type CatalogFormat string

const (
	CatalogFormatCSV  CatalogFormat = "csv"
	CatalogFormatJSON CatalogFormat = "json"
	CatalogFormatPDF  CatalogFormat = "pdf"
)

const listSeparator = "|"

var catalogHeaders = []string{"name", "category", "price", "cost", "description", "allergens", "dietary_tags", "is_available"}

// CatalogRow is one menu item in the interchange shape. Category is a slug or
// a display name.
type CatalogRow struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required"`
	Price       float64  `json:"price" validate:"min=0"`
	Cost        float64  `json:"cost" validate:"min=0"`
	Description string   `json:"description"`
	Allergens   []string `json:"allergens"`
	DietaryTags []string `json:"dietary_tags"`
	IsAvailable *bool    `json:"is_available"`
}

// ImportRowError reports a rejected row. Rows are numbered from 1.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarises an import.
type ImportResult struct {
	Created           int              `json:"created"`
	CategoriesCreated int              `json:"categories_created"`
	Errors            []ImportRowError `json:"errors"`
}

// ExportFile is a rendered catalog export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type catalogCSVRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type catalogPDFRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

// CatalogIOService imports and exports the catalog.
type CatalogIOService struct {
	repo      catalogRepository
	notifier  changeNotifier
	csv       catalogCSVRenderer
	pdf       catalogPDFRenderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogIOService constructs the import/export service.
func NewCatalogIOService(repo catalogRepository, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *CatalogIOService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pdf := export.NewPDFExporter()
	pdf.Widths = map[string]float64{"name": 3, "category": 2, "description": 4}
	return &CatalogIOService{
		repo:      repo,
		notifier:  notifierOrNop(notifier),
		csv:       export.NewCSVExporter(),
		pdf:       pdf,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// ParseCatalogFormat validates a format query value.
func ParseCatalogFormat(raw string, allowPDF bool) (CatalogFormat, error) {
	switch f := CatalogFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", CatalogFormatCSV:
		return CatalogFormatCSV, nil
	case CatalogFormatJSON:
		return f, nil
	case CatalogFormatPDF:
		if allowPDF {
			return f, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", raw))
}

// Export renders every item of the tenant.
func (s *CatalogIOService) Export(ctx context.Context, tenantID string, format CatalogFormat) (*ExportFile, error) {
	rows, err := s.rows(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	stamp := s.now().UTC().Format("20060102")
	base := fmt.Sprintf("catalog-%s-%s", tenantID, stamp)

	switch format {
	case CatalogFormatJSON:
		body, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode catalog")
		}
		return &ExportFile{Filename: base + ".json", ContentType: "application/json", Body: body}, nil
	case CatalogFormatPDF:
		data := priceSheet(rows)
		body, err := s.pdf.Render(data, "Menu price sheet", fmt.Sprintf("Tenant %s, %d items, generated %s", tenantID, len(rows), s.now().UTC().Format(time.RFC1123)))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render price sheet")
		}
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		body, err := s.csv.Render(catalogDataset(rows))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render catalog csv")
		}
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Body: body}, nil
	}
}

func (s *CatalogIOService) rows(ctx context.Context, tenantID string) ([]CatalogRow, error) {
	categories, err := s.repo.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	items, err := s.repo.ListAllItems(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list menu items")
	}
	catalog := models.Catalog{Items: items, Categories: categories}

	rows := make([]CatalogRow, 0, len(items))
	for _, item := range items {
		available := item.IsAvailable
		rows = append(rows, CatalogRow{
			Name:        item.Name,
			Category:    catalog.CategorySlug(item),
			Price:       item.Price,
			Cost:        item.Cost,
			Description: item.Description,
			Allergens:   nonNil(item.Allergens),
			DietaryTags: nonNil(item.DietaryTags),
			IsAvailable: &available,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// Import creates menu items from a CSV or JSON document. Unknown categories
// are created on the fly; invalid rows are reported and skipped.
func (s *CatalogIOService) Import(ctx context.Context, tenantID string, format CatalogFormat, body io.Reader) (*ImportResult, error) {
	rows, rowErrors, err := decodeCatalogRows(format, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid catalog document")
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	categories := make(map[string]*models.Category)
	for i, row := range rows {
		n := i + 1
		if rowErr, ok := rowErrors[n]; ok {
			result.Errors = append(result.Errors, ImportRowError{Row: n, Message: rowErr.Error()})
			continue
		}
		if err := s.validator.Struct(row); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: n, Message: err.Error()})
			continue
		}
		category, created, err := s.categoryFor(ctx, tenantID, row.Category, categories)
		if err != nil {
			return nil, err
		}
		if created {
			result.CategoriesCreated++
		}
		item := &models.MenuItem{
			TenantID:    tenantID,
			Name:        strings.TrimSpace(row.Name),
			Description: row.Description,
			CategoryID:  category.ID,
			Category:    models.Resolved(*category),
			Price:       row.Price,
			Cost:        row.Cost,
			Allergens:   row.Allergens,
			DietaryTags: row.DietaryTags,
			IsAvailable: row.IsAvailable == nil || *row.IsAvailable,
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import menu item")
		}
		result.Created++
	}

	if result.Created > 0 || result.CategoriesCreated > 0 {
		s.notifier.Notify(ctx, tenantID, models.EventCatalogChanged, "")
	}
	s.logger.Info("catalog imported",
		zap.String("tenant_id", tenantID),
		zap.Int("created", result.Created),
		zap.Int("rejected", len(result.Errors)))
	return result, nil
}

func (s *CatalogIOService) categoryFor(ctx context.Context, tenantID, raw string, seen map[string]*models.Category) (*models.Category, bool, error) {
	slug := Slugify(raw)
	if category, ok := seen[slug]; ok {
		return category, false, nil
	}
	category, err := s.repo.FindCategoryBySlug(ctx, tenantID, slug)
	if err == nil {
		seen[slug] = category
		return category, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	category = &models.Category{TenantID: tenantID, Name: strings.TrimSpace(raw), Slug: slug, IsActive: true}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	seen[slug] = category
	return category, true, nil
}

func decodeCatalogRows(format CatalogFormat, body io.Reader) ([]CatalogRow, map[int]error, error) {
	if format == CatalogFormatJSON {
		var rows []CatalogRow
		if err := json.NewDecoder(body).Decode(&rows); err != nil {
			return nil, nil, err
		}
		return rows, nil, nil
	}

	data, rowErrors, err := export.ParseCSV(body, []string{"name", "category", "price"})
	if err != nil {
		return nil, nil, err
	}
	rows := make([]CatalogRow, len(data.Rows))
	for i, values := range data.Rows {
		if values == nil {
			continue
		}
		row, err := csvRow(values)
		if err != nil {
			rowErrors[i+1] = err
			continue
		}
		rows[i] = row
	}
	return rows, rowErrors, nil
}

func csvRow(values map[string]string) (CatalogRow, error) {
	row := CatalogRow{
		Name:        values["name"],
		Category:    values["category"],
		Description: values["description"],
		Allergens:   splitList(values["allergens"]),
		DietaryTags: splitList(values["dietary_tags"]),
	}
	price, err := strconv.ParseFloat(values["price"], 64)
	if err != nil {
		return row, fmt.Errorf("invalid price %q", values["price"])
	}
	row.Price = price
	if raw := values["cost"]; raw != "" {
		cost, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return row, fmt.Errorf("invalid cost %q", raw)
		}
		row.Cost = cost
	}
	if raw := values["is_available"]; raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return row, fmt.Errorf("invalid is_available %q", raw)
		}
		row.IsAvailable = &available
	}
	return row, nil
}

func catalogDataset(rows []CatalogRow) export.Dataset {
	data := export.Dataset{Headers: catalogHeaders}
	for _, row := range rows {
		available := row.IsAvailable == nil || *row.IsAvailable
		data.Rows = append(data.Rows, map[string]string{
			"name":         row.Name,
			"category":     row.Category,
			"price":        formatAmount(row.Price),
			"cost":         formatAmount(row.Cost),
			"description":  row.Description,
			"allergens":    strings.Join(row.Allergens, listSeparator),
			"dietary_tags": strings.Join(row.DietaryTags, listSeparator),
			"is_available": strconv.FormatBool(available),
		})
	}
	return data
}

func priceSheet(rows []CatalogRow) export.Dataset {
	data := export.Dataset{Headers: []string{"name", "category", "price", "cost", "margin", "description"}}
	for _, row := range rows {
		if row.IsAvailable != nil && !*row.IsAvailable {
			continue
		}
		data.Rows = append(data.Rows, map[string]string{
			"name":        row.Name,
			"category":    row.Category,
			"price":       formatAmount(row.Price),
			"cost":        formatAmount(row.Cost),
			"margin":      formatAmount(row.Price - row.Cost),
			"description": row.Description,
		})
	}
	return data
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
