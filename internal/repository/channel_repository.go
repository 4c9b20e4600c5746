package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resto-menu-api/internal/models"
)

const channelColumns = "id, tenant_id, name, type, is_active, operating_hours, created_at, updated_at"

// ChannelRepository persists ordering channels.
type ChannelRepository struct {
	db *sqlx.DB
}

// NewChannelRepository creates a new channel repository.
func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// List returns every channel of a tenant.
func (r *ChannelRepository) List(ctx context.Context, tenantID string) ([]models.Channel, error) {
	query := fmt.Sprintf("SELECT %s FROM channels WHERE tenant_id = $1 ORDER BY name ASC", channelColumns)
	var rows []models.ChannelRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	channels := make([]models.Channel, 0, len(rows))
	for _, row := range rows {
		ch, err := row.ToModel()
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// FindByID loads a channel.
func (r *ChannelRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Channel, error) {
	query := fmt.Sprintf("SELECT %s FROM channels WHERE tenant_id = $1 AND id = $2", channelColumns)
	var row models.ChannelRow
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		return nil, err
	}
	ch, err := row.ToModel()
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// Create inserts a channel.
func (r *ChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	if channel.ID == "" {
		channel.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = now
	}
	channel.UpdatedAt = now

	row, err := channel.ToRow()
	if err != nil {
		return err
	}
	const query = `INSERT INTO channels (id, tenant_id, name, type, is_active, operating_hours, created_at, updated_at)
VALUES (:id, :tenant_id, :name, :type, :is_active, :operating_hours, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

// Update replaces a channel's mutable fields.
func (r *ChannelRepository) Update(ctx context.Context, channel *models.Channel) error {
	channel.UpdatedAt = time.Now().UTC()
	row, err := channel.ToRow()
	if err != nil {
		return err
	}
	const query = `UPDATE channels SET name = :name, type = :type, is_active = :is_active, operating_hours = :operating_hours, updated_at = :updated_at WHERE tenant_id = :tenant_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	return nil
}

// Delete removes a channel.
func (r *ChannelRepository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}
