package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/models"
)

var pricingRuleRowColumns = []string{"id", "tenant_id", "menu_item_id", "name", "type", "priority", "is_active", "conditions", "value", "created_at", "updated_at"}

func TestPricingRuleRepositoryListByTenantGroupsByItem(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPricingRuleRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + pricingRuleColumns + " FROM pricing_rules WHERE tenant_id = $1 ORDER BY menu_item_id ASC, created_at ASC, id ASC")).
		WithArgs("tenant-1").
		WillReturnRows(sqlmock.NewRows(pricingRuleRowColumns).
			AddRow("r1", "tenant-1", "burger", "Happy hour", "time_based", 2, true,
				`{"timeRules":[{"startTime":"16:00","endTime":"18:00","discountPercentage":20,"days":[1,2,3,4,5]}]}`, nil, now, now).
			AddRow("r2", "tenant-1", "burger", "Flat", "fixed_discount", 1, true, `{}`, 1.5, now, now).
			AddRow("r3", "tenant-1", "cola", "Bulk", "quantity_based", 0, false,
				`{"quantityRules":[{"minQuantity":6,"fixedDiscount":0.5}]}`, nil, now, now))

	grouped, err := repo.ListByTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, grouped["burger"], 2)
	assert.Equal(t, "r1", grouped["burger"][0].ID)
	require.Len(t, grouped["burger"][0].TimeRules, 1)
	assert.Equal(t, 20.0, *grouped["burger"][0].TimeRules[0].DiscountPercentage)
	require.NotNil(t, grouped["burger"][1].Value)
	assert.Equal(t, 1.5, *grouped["burger"][1].Value)
	require.Len(t, grouped["cola"], 1)
	assert.Nil(t, grouped["cola"][0].QuantityRules[0].MaxQuantity)
	assert.Equal(t, "cola", grouped["cola"][0].MenuItem.Identifier())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRuleRepositoryCreateAndToggle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPricingRuleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pricing_rules")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	value := 10.0
	rule := &models.PricingRule{
		TenantID: "tenant-1",
		MenuItem: models.RefByID[models.MenuItem]("burger"),
		Type:     models.PricingRulePercentageDiscount,
		Value:    &value,
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), rule))
	assert.NotEmpty(t, rule.ID)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pricing_rules SET is_active = $1")).
		WithArgs(false, sqlmock.AnyArg(), "tenant-1", rule.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetActive(context.Background(), "tenant-1", rule.ID, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}
