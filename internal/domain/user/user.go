package user

import (
	"time"

	"github.com/peershare/service-rental/internal/domain"
)

// User is the aggregate root for a registered user.
type User struct {
	id        int64
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new user with validated fields.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("user email is required")
	}

	now := time.Now().UTC()
	return &User{
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Update applies partial updates; nil fields are left untouched.
func (u *User) Update(name, email *string) {
	if name != nil {
		u.name = *name
	}
	if email != nil {
		u.email = *email
	}
	u.updatedAt = time.Now().UTC()
}
