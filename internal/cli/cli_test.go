package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/service"
)

const snapshotYAML = `
tenant_id: tenant-1
catalog:
  categories:
    - {id: c-mains, slug: mains, name: Mains}
    - {id: c-drinks, slug: drinks, name: Drinks}
  items:
    - {id: burger, name: Burger, category: c-mains, price: 20, cost: 8, is_available: true}
    - {id: cola, name: Cola, category: c-drinks, price: 3, cost: 1, is_available: true}
schedules:
  - id: lunch
    isActive: true
    scheduleType: time-based
    priority: 1
    timeSlots:
      - {startTime: "11:00", endTime: "14:00", categories: [mains]}
  - id: christmas
    isActive: true
    scheduleType: date-based
    dateSlots:
      - {startDate: 2024-12-24, endDate: 2024-12-26, menuItems: [cola]}
channels:
  - {id: bar, isActive: true, operatingHours: [{day: 5, open: "22:00", close: "02:00"}]}
rules:
  burger:
    - {id: happy, type: percentage_discount, value: 10, priority: 1, isActive: true}
    - {id: flat, type: fixed_discount, value: 5, priority: 5, isActive: true}
`

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluateRestrictsToLunchSlot(t *testing.T) {
	path := writeSnapshot(t, "tenant.yaml", snapshotYAML)

	out, err := run(t, "evaluate", "--snapshot", path, "--at", "2024-03-08T12:00:00Z")
	require.NoError(t, err)

	var result struct {
		Restricted bool `json:"restricted"`
		Items      []struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
			Pricing struct {
				Price float64 `json:"price"`
			} `json:"pricing"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Restricted)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "burger", result.Items[0].Item.ID)
	assert.Equal(t, 15.0, result.Items[0].Pricing.Price)
}

func TestEvaluateDateSlotFromUnquotedYAMLDates(t *testing.T) {
	path := writeSnapshot(t, "tenant.yml", snapshotYAML)

	out, err := run(t, "evaluate", "--snapshot", path, "--at", "2024-12-25T18:00:00Z", "--no-prices")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "cola"`)
	assert.NotContains(t, out, `"id": "burger"`)
}

func TestEvaluateRejectsUnknownChannelAndTimezone(t *testing.T) {
	path := writeSnapshot(t, "tenant.yaml", snapshotYAML)

	_, err := run(t, "evaluate", "--snapshot", path, "--channel", "drive-thru")
	assert.Error(t, err)

	_, err = run(t, "evaluate", "--snapshot", path, "--tz", "Mars/Olympus")
	assert.Error(t, err)
}

func TestPriceCommandYAMLOutput(t *testing.T) {
	path := writeSnapshot(t, "tenant.yaml", snapshotYAML)

	out, err := run(t, "price", "--snapshot", path, "--item", "burger", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "price: 15")
	assert.Contains(t, out, "applied_rule_id: flat")
}

func TestValidateReportsMalformedRecords(t *testing.T) {
	broken := strings.Replace(snapshotYAML, `startTime: "11:00"`, `startTime: "lunchtime"`, 1)
	path := writeSnapshot(t, "tenant.yaml", broken)

	out, err := run(t, "validate", "--snapshot", path)
	require.Error(t, err)
	assert.Contains(t, out, `"kind": "schedule"`)
	assert.Contains(t, out, `"id": "lunch"`)

	path = writeSnapshot(t, "ok.yaml", snapshotYAML)
	_, err = run(t, "validate", "--snapshot", path)
	assert.NoError(t, err)
}

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	out, err := run(t, "token", "--tenant", "tenant-1", "--secret", "s3cret")
	require.NoError(t, err)

	claims, err := service.NewTenantTokenService("s3cret").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", claims.TenantID)

	_, err = service.NewTenantTokenService("other").ValidateToken(strings.TrimSpace(out))
	assert.Error(t, err)
}

func TestLoadSnapshotJSON(t *testing.T) {
	path := writeSnapshot(t, "tenant.json", `{"tenant_id":"t","catalog":{"items":[{"id":"x","category":{"id":"c","slug":"s"}}]}}`)

	snapshot, err := LoadSnapshot(path, nil)
	require.NoError(t, err)
	item, ok := snapshot.Item("x")
	require.True(t, ok)
	assert.Equal(t, "s", snapshot.Catalog.CategorySlug(item))
}
