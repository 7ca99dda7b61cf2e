package user

import "context"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByEmail returns nil (no error) when no user holds the email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}
