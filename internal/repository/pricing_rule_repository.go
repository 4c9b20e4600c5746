package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resto-menu-api/internal/models"
)

const pricingRuleColumns = "id, tenant_id, menu_item_id, name, type, priority, is_active, conditions, value, created_at, updated_at"

// PricingRuleRepository persists per-item pricing rules.
type PricingRuleRepository struct {
	db *sqlx.DB
}

// NewPricingRuleRepository creates a new pricing rule repository.
func NewPricingRuleRepository(db *sqlx.DB) *PricingRuleRepository {
	return &PricingRuleRepository{db: db}
}

// ListByItem returns the rules of one item in insertion order. Evaluation
// depends on this order for equal priorities.
func (r *PricingRuleRepository) ListByItem(ctx context.Context, tenantID, itemID string) ([]models.PricingRule, error) {
	query := fmt.Sprintf("SELECT %s FROM pricing_rules WHERE tenant_id = $1 AND menu_item_id = $2 ORDER BY created_at ASC, id ASC", pricingRuleColumns)
	var rows []models.PricingRuleRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, itemID); err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	return decodePricingRules(rows)
}

// ListByTenant returns every rule of a tenant grouped by menu item.
func (r *PricingRuleRepository) ListByTenant(ctx context.Context, tenantID string) (map[string][]models.PricingRule, error) {
	query := fmt.Sprintf("SELECT %s FROM pricing_rules WHERE tenant_id = $1 ORDER BY menu_item_id ASC, created_at ASC, id ASC", pricingRuleColumns)
	var rows []models.PricingRuleRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("list tenant pricing rules: %w", err)
	}
	rules, err := decodePricingRules(rows)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]models.PricingRule)
	for _, rule := range rules {
		id := rule.MenuItem.Identifier()
		grouped[id] = append(grouped[id], rule)
	}
	return grouped, nil
}

// FindByID loads a rule.
func (r *PricingRuleRepository) FindByID(ctx context.Context, tenantID, id string) (*models.PricingRule, error) {
	query := fmt.Sprintf("SELECT %s FROM pricing_rules WHERE tenant_id = $1 AND id = $2", pricingRuleColumns)
	var row models.PricingRuleRow
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		return nil, err
	}
	rule, err := row.ToModel()
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create inserts a rule.
func (r *PricingRuleRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	row, err := rule.ToRow()
	if err != nil {
		return err
	}
	const query = `INSERT INTO pricing_rules (id, tenant_id, menu_item_id, name, type, priority, is_active, conditions, value, created_at, updated_at)
VALUES (:id, :tenant_id, :menu_item_id, :name, :type, :priority, :is_active, :conditions, :value, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create pricing rule: %w", err)
	}
	return nil
}

// Update replaces a rule's mutable fields.
func (r *PricingRuleRepository) Update(ctx context.Context, rule *models.PricingRule) error {
	rule.UpdatedAt = time.Now().UTC()
	row, err := rule.ToRow()
	if err != nil {
		return err
	}
	const query = `UPDATE pricing_rules SET name = :name, type = :type, priority = :priority, is_active = :is_active, conditions = :conditions, value = :value, updated_at = :updated_at WHERE tenant_id = :tenant_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update pricing rule: %w", err)
	}
	return nil
}

// SetActive toggles a rule.
func (r *PricingRuleRepository) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	const query = `UPDATE pricing_rules SET is_active = $1, updated_at = $2 WHERE tenant_id = $3 AND id = $4`
	if _, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), tenantID, id); err != nil {
		return fmt.Errorf("set pricing rule active: %w", err)
	}
	return nil
}

// Delete removes a rule.
func (r *PricingRuleRepository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pricing_rules WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete pricing rule: %w", err)
	}
	return nil
}

func decodePricingRules(rows []models.PricingRuleRow) ([]models.PricingRule, error) {
	rules := make([]models.PricingRule, 0, len(rows))
	for _, row := range rows {
		rule, err := row.ToModel()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
