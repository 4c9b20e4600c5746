package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/pricing"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type pricingRuleRepository interface {
	ListByItem(ctx context.Context, tenantID, itemID string) ([]models.PricingRule, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.PricingRule, error)
	Create(ctx context.Context, rule *models.PricingRule) error
	Update(ctx context.Context, rule *models.PricingRule) error
	SetActive(ctx context.Context, tenantID, id string, active bool) error
	Delete(ctx context.Context, tenantID, id string) error
}

type menuItemFinder interface {
	FindItemByID(ctx context.Context, tenantID, id string) (*models.MenuItem, error)
}

// PricingRuleRequest is the create/update payload of a pricing rule.
type PricingRuleRequest struct {
	Name           string                 `json:"name" validate:"required,max=120"`
	Type           models.PricingRuleType `json:"type" validate:"required,oneof=time_based day_of_week quantity_based percentage_discount fixed_discount"`
	Priority       int                    `json:"priority"`
	IsActive       *bool                  `json:"isActive"`
	TimeRules      []models.TimeRule      `json:"timeRules"`
	DayOfWeekRules []models.DayOfWeekRule `json:"dayOfWeekRules"`
	QuantityRules  []models.QuantityRule  `json:"quantityRules"`
	Value          *float64               `json:"value"`
}

// PricingRuleService manages the pricing rules of menu items.
type PricingRuleService struct {
	repo      pricingRuleRepository
	items     menuItemFinder
	notifier  changeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPricingRuleService creates a pricing rule service.
func NewPricingRuleService(repo pricingRuleRepository, items menuItemFinder, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *PricingRuleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingRuleService{repo: repo, items: items, notifier: notifierOrNop(notifier), validator: validate, logger: logger}
}

// ListByItem returns the rules of a menu item in evaluation order.
func (s *PricingRuleService) ListByItem(ctx context.Context, tenantID, itemID string) ([]models.PricingRule, error) {
	if _, err := s.item(ctx, tenantID, itemID); err != nil {
		return nil, err
	}
	rules, err := s.repo.ListByItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pricing rules")
	}
	return rules, nil
}

// Get returns a rule by identifier.
func (s *PricingRuleService) Get(ctx context.Context, tenantID, id string) (*models.PricingRule, error) {
	rule, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pricing rule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pricing rule")
	}
	return rule, nil
}

// Create attaches a new rule to a menu item.
func (s *PricingRuleService) Create(ctx context.Context, tenantID, itemID string, req PricingRuleRequest) (*models.PricingRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pricing rule payload")
	}
	item, err := s.item(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	rule := &models.PricingRule{TenantID: tenantID, MenuItem: models.RefByID[models.MenuItem](item.ID), IsActive: true}
	applyRuleRequest(rule, req)
	if err := pricing.Validate(*rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pricing rule")
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pricing rule")
	}
	s.notifier.Notify(ctx, tenantID, models.EventPricingRuleChanged, rule.ID)
	return rule, nil
}

// Update replaces a rule definition. The owning item cannot change.
func (s *PricingRuleService) Update(ctx context.Context, tenantID, id string, req PricingRuleRequest) (*models.PricingRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pricing rule payload")
	}
	rule, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	applyRuleRequest(rule, req)
	if err := pricing.Validate(*rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pricing rule")
	}
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pricing rule")
	}
	s.notifier.Notify(ctx, tenantID, models.EventPricingRuleChanged, rule.ID)
	return rule, nil
}

// SetActive toggles a rule.
func (s *PricingRuleService) SetActive(ctx context.Context, tenantID, id string, req SetActiveRequest) (*models.PricingRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	rule, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, tenantID, id, *req.IsActive); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pricing rule status")
	}
	rule.IsActive = *req.IsActive
	s.notifier.Notify(ctx, tenantID, models.EventPricingRuleChanged, id)
	return rule, nil
}

// Delete removes a rule.
func (s *PricingRuleService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete pricing rule")
	}
	s.notifier.Notify(ctx, tenantID, models.EventPricingRuleChanged, id)
	return nil
}

func (s *PricingRuleService) item(ctx context.Context, tenantID, itemID string) (*models.MenuItem, error) {
	item, err := s.items.FindItemByID(ctx, tenantID, itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "menu item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load menu item")
	}
	return item, nil
}

func applyRuleRequest(rule *models.PricingRule, req PricingRuleRequest) {
	rule.Name = strings.TrimSpace(req.Name)
	rule.Type = req.Type
	rule.Priority = req.Priority
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.TimeRules = req.TimeRules
	rule.DayOfWeekRules = req.DayOfWeekRules
	rule.QuantityRules = req.QuantityRules
	rule.Value = req.Value
}
