package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	itemDomain "github.com/peershare/service-rental/internal/domain/item"
	requestDomain "github.com/peershare/service-rental/internal/domain/request"
	userDomain "github.com/peershare/service-rental/internal/domain/user"
)

// CreateItemRequestRequest holds the description of a request-board entry.
type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// AnswerDTO is an item offered in answer to a request-board entry.
type AnswerDTO struct {
	ItemID  int64  `json:"item_id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// ItemRequestDTO is the response representation of a request-board entry.
type ItemRequestDTO struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	RequesterID int64       `json:"requester_id"`
	Created     time.Time   `json:"created"`
	Answers     []AnswerDTO `json:"answers"`
}

// RequestService is the application service for the request board.
type RequestService struct {
	requests requestDomain.ItemRequestRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.ItemRequestRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		logger:   logger,
	}
}

// CreateRequest posts a new request-board entry.
func (s *RequestService) CreateRequest(ctx context.Context, requesterID int64, req CreateItemRequestRequest) (*ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, requesterID); err != nil {
		return nil, err
	}

	r, err := requestDomain.NewItemRequest(requesterID, req.Description)
	if err != nil {
		return nil, err
	}

	saved, err := s.requests.Save(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	result := ItemRequestDTO{
		ID:          saved.ID(),
		Description: saved.Description(),
		RequesterID: saved.RequesterID(),
		Created:     saved.Created(),
		Answers:     []AnswerDTO{},
	}
	return &result, nil
}

// ListOwnRequests retrieves the caller's requests with answers, newest first.
func (s *RequestService) ListOwnRequests(ctx context.Context, requesterID int64) ([]ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for user %d: %w", requesterID, err)
	}
	return s.toDTOsWithAnswers(ctx, requests)
}

// ListOtherRequests retrieves every other user's requests with answers,
// newest first.
func (s *RequestService) ListOtherRequests(ctx context.Context, requesterID int64) ([]ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindByOtherRequesters(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list other users' requests: %w", err)
	}
	return s.toDTOsWithAnswers(ctx, requests)
}

// GetRequest retrieves a single request-board entry with its answers.
func (s *RequestService) GetRequest(ctx context.Context, requestID int64) (*ItemRequestDTO, error) {
	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.toDTOsWithAnswers(ctx, []*requestDomain.ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *RequestService) toDTOsWithAnswers(ctx context.Context, requests []*requestDomain.ItemRequest) ([]ItemRequestDTO, error) {
	dtos := make([]ItemRequestDTO, len(requests))
	for i, r := range requests {
		answers, err := s.items.FindByRequestID(ctx, r.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to load answers for request %d: %w", r.ID(), err)
		}
		answerDTOs := make([]AnswerDTO, len(answers))
		for j, it := range answers {
			answerDTOs[j] = AnswerDTO{
				ItemID:  it.ID(),
				Name:    it.Name(),
				OwnerID: it.OwnerID(),
			}
		}
		dtos[i] = ItemRequestDTO{
			ID:          r.ID(),
			Description: r.Description(),
			RequesterID: r.RequesterID(),
			Created:     r.Created(),
			Answers:     answerDTOs,
		}
	}
	return dtos, nil
}
