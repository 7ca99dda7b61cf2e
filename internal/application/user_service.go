package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/peershare/service-rental/internal/domain"
	userDomain "github.com/peershare/service-rental/internal/domain/user"
)

// CreateUserRequest holds the data needed to register a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest holds a partial user update; nil fields are untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// UserDTO is the response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService is the application service for user records.
type UserService struct {
	users  userDomain.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// CreateUser registers a new user.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	result := toUserDTO(saved)
	return &result, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// UpdateUser applies a partial update. A new email must not belong to
// another user.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		holder, err := s.users.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if holder != nil && holder.ID() != u.ID() {
			return nil, domain.NewValidationError(
				fmt.Sprintf("user with email=%s already exists", *req.Email))
		}
	}

	u.Update(req.Name, req.Email)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	result := toUserDTO(u)
	return &result, nil
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email(),
	}
}
