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

const scheduleColumns = "id, tenant_id, name, description, is_active, schedule_type, time_slots, date_slots, priority, applicable_channels, settings, created_at, updated_at"

// ScheduleRepository provides persistence for menu schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.MenuSchedule, int, error) {
	base := "FROM menu_schedules WHERE tenant_id = $1"
	args := []interface{}{filter.TenantID}
	var conditions []string

	if filter.ScheduleType != "" {
		conditions = append(conditions, fmt.Sprintf("schedule_type = $%d", len(args)+1))
		args = append(args, filter.ScheduleType)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.ChannelID != "" {
		conditions = append(conditions, fmt.Sprintf("(applicable_channels = '[]'::jsonb OR applicable_channels @> jsonb_build_array($%d::text))", len(args)+1))
		args = append(args, filter.ChannelID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "priority"
	}
	allowedSorts := map[string]bool{
		"priority":   true,
		"name":       true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "priority"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, created_at ASC, id ASC LIMIT %d OFFSET %d", scheduleColumns, base, sortBy, order, size, offset)
	var rows []models.MenuScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	schedules, err := decodeSchedules(rows)
	if err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

// ListByTenant returns every schedule of a tenant in evaluation order.
func (r *ScheduleRepository) ListByTenant(ctx context.Context, tenantID string) ([]models.MenuSchedule, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_schedules WHERE tenant_id = $1 ORDER BY priority DESC, created_at ASC, id ASC", scheduleColumns)
	var rows []models.MenuScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("list tenant schedules: %w", err)
	}
	return decodeSchedules(rows)
}

// FindByID loads a schedule by id within a tenant.
func (r *ScheduleRepository) FindByID(ctx context.Context, tenantID, id string) (*models.MenuSchedule, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_schedules WHERE tenant_id = $1 AND id = $2", scheduleColumns)
	var row models.MenuScheduleRow
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		return nil, err
	}
	schedule, err := row.ToModel()
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create stores a new schedule record.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.MenuSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	row, err := schedule.ToRow()
	if err != nil {
		return err
	}
	const query = `INSERT INTO menu_schedules (id, tenant_id, name, description, is_active, schedule_type, time_slots, date_slots, priority, applicable_channels, settings, created_at, updated_at)
VALUES (:id, :tenant_id, :name, :description, :is_active, :schedule_type, :time_slots, :date_slots, :priority, :applicable_channels, :settings, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update replaces a schedule's mutable fields.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.MenuSchedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	row, err := schedule.ToRow()
	if err != nil {
		return err
	}
	const query = `UPDATE menu_schedules SET name = :name, description = :description, is_active = :is_active, schedule_type = :schedule_type, time_slots = :time_slots, date_slots = :date_slots, priority = :priority, applicable_channels = :applicable_channels, settings = :settings, updated_at = :updated_at WHERE tenant_id = :tenant_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// SetActive toggles a schedule.
func (r *ScheduleRepository) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	const query = `UPDATE menu_schedules SET is_active = $1, updated_at = $2 WHERE tenant_id = $3 AND id = $4`
	if _, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), tenantID, id); err != nil {
		return fmt.Errorf("set schedule active: %w", err)
	}
	return nil
}

// Delete removes a schedule.
func (r *ScheduleRepository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM menu_schedules WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func decodeSchedules(rows []models.MenuScheduleRow) ([]models.MenuSchedule, error) {
	schedules := make([]models.MenuSchedule, 0, len(rows))
	for _, row := range rows {
		s, err := row.ToModel()
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}
