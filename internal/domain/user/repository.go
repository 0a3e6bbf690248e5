package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// GetByUserIDForUpdate takes an exclusive row lock for the duration of
	// the surrounding transaction.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*User, error)
	Save(ctx context.Context, u *User) error
}
