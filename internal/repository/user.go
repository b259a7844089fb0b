package repository

import (
	"context"

	"stock-api/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Emails are matched case-insensitively; lookups that find nothing return
// (nil, nil).
type UserRepository interface {
	Init(ctx context.Context) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
