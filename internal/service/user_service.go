package service

import (
	"context"
	"fmt"
	"strings"

	"stock-api/internal/domain"
	"stock-api/internal/repository"
)

// ProfileUpdate holds the editable profile fields. Nil fields are left as is.
type ProfileUpdate struct {
	Name     *string
	LastName *string
}

// UserService describes user lookup and profile operations.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user.Sanitized(), nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user.Sanitized(), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return updated.Sanitized(), nil
}
