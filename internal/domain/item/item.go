package item

import (
	"time"

	"github.com/peershare/service-rental/internal/domain"
)

// Item is the aggregate root for a listed item.
type Item struct {
	id          int64
	ownerID     int64
	name        string
	description string
	available   bool
	requestID   *int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates a new item listing. requestID links the listing to the
// request-board entry it answers, when there is one.
func NewItem(ownerID int64, name, description string, available bool, requestID *int64) (*Item, error) {
	if name == "" {
		return nil, domain.NewValidationError("item name is required")
	}
	if description == "" {
		return nil, domain.NewValidationError("item description is required")
	}

	now := time.Now().UTC()
	return &Item{
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID int64,
	name, description string,
	available bool,
	requestID *int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() int64           { return i.id }
func (i *Item) OwnerID() int64      { return i.ownerID }
func (i *Item) Name() string        { return i.name }
func (i *Item) Description() string { return i.description }
func (i *Item) Available() bool     { return i.available }
func (i *Item) RequestID() *int64   { return i.requestID }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the item belongs to the given owner.
func (i *Item) IsOwnedBy(ownerID int64) bool {
	return i.ownerID == ownerID
}

// Update applies partial updates; nil fields are left untouched.
func (i *Item) Update(name, description *string, available *bool) {
	if name != nil {
		i.name = *name
	}
	if description != nil {
		i.description = *description
	}
	if available != nil {
		i.available = *available
	}
	i.updatedAt = time.Now().UTC()
}
