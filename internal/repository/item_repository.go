package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/peershare/service-rental/internal/domain"
	itemDomain "github.com/peershare/service-rental/internal/domain/item"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"not null;index"`
	Name        string    `gorm:"not null;size:255"`
	Description string    `gorm:"not null;size:1000"`
	Available   bool      `gorm:"not null"`
	RequestID   *int64    `gorm:"index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of ItemRepository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by id.
func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("item", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find item by id: %w", err)
	}
	return toDomainItem(&model), nil
}

// FindByOwnerID retrieves all items of an owner.
func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID int64) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by owner: %w", err)
	}
	return toDomainItems(models), nil
}

// FindByRequestID retrieves the items offered in answer to a request.
func (r *GormItemRepository) FindByRequestID(ctx context.Context, requestID int64) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by request: %w", err)
	}
	return toDomainItems(models), nil
}

// SearchAvailable matches available items by name or description,
// case-insensitively. A blank query matches nothing.
func (r *GormItemRepository) SearchAvailable(ctx context.Context, text string) ([]*itemDomain.Item, error) {
	if text == "" {
		return []*itemDomain.Item{}, nil
	}
	pattern := "%" + strings.ToLower(text) + "%"

	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("available = ? AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", true, pattern, pattern).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toDomainItems(models), nil
}

// Save persists a new item and returns it with the store-assigned id.
func (r *GormItemRepository) Save(ctx context.Context, it *itemDomain.Item) (*itemDomain.Item, error) {
	model := toItemModel(it)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	return toDomainItem(model), nil
}

// Update persists changes to an existing item.
func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", it.ID()).
		Updates(map[string]interface{}{
			"name":        it.Name(),
			"description": it.Description(),
			"available":   it.Available(),
			"updated_at":  it.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("item", strconv.FormatInt(it.ID(), 10))
	}
	return nil
}

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
		CreatedAt:   it.CreatedAt(),
		UpdatedAt:   it.UpdatedAt(),
	}
}

func toDomainItem(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Name,
		m.Description,
		m.Available,
		m.RequestID,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainItems(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toDomainItem(&models[i])
	}
	return items
}
