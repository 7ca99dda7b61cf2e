package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/peershare/service-rental/internal/domain"
	requestDomain "github.com/peershare/service-rental/internal/domain/request"
)

// RequestModel is the GORM model for the requests table.
type RequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Description string    `gorm:"not null;size:1000"`
	RequesterID int64     `gorm:"not null;index"`
	Created     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RequestModel) TableName() string {
	return "requests"
}

// GormRequestRepository is the GORM-based implementation of ItemRequestRepository.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID retrieves a request-board entry by id.
func (r *GormRequestRepository) FindByID(ctx context.Context, id int64) (*requestDomain.ItemRequest, error) {
	var model RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("request", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find request by id: %w", err)
	}
	return toDomainRequest(&model), nil
}

// FindByRequesterID retrieves the requester's own entries, newest first.
func (r *GormRequestRepository) FindByRequesterID(ctx context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find requests by requester: %w", err)
	}
	return toDomainRequests(models), nil
}

// FindByOtherRequesters retrieves entries created by everyone else, newest first.
func (r *GormRequestRepository) FindByOtherRequesters(ctx context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	err := r.db.WithContext(ctx).
		Where("requester_id <> ?", requesterID).
		Order("created DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find requests by other requesters: %w", err)
	}
	return toDomainRequests(models), nil
}

// Save persists a new request-board entry and returns it with the store-assigned id.
func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.ItemRequest) (*requestDomain.ItemRequest, error) {
	model := &RequestModel{
		Description: req.Description(),
		RequesterID: req.RequesterID(),
		Created:     req.Created(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}
	return toDomainRequest(model), nil
}

func toDomainRequest(m *RequestModel) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(m.ID, m.Description, m.RequesterID, m.Created)
}

func toDomainRequests(models []RequestModel) []*requestDomain.ItemRequest {
	out := make([]*requestDomain.ItemRequest, 0, len(models))
	for i := range models {
		out = append(out, toDomainRequest(&models[i]))
	}
	return out
}
