package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-api/internal/domain"
)

func seededUserService(t *testing.T) (UserService, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	_, err := repo.Create(context.Background(), &domain.User{
		ID:           "42",
		Name:         "Ana",
		LastName:     "Perez",
		Email:        "ana@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return NewUserService(repo), repo
}

func TestUserService_Get(t *testing.T) {
	svc, _ := seededUserService(t)
	ctx := context.Background()

	byID, err := svc.GetByID(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)
	assert.Empty(t, byID.PasswordHash)

	byEmail, err := svc.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "42", byEmail.ID)

	_, err = svc.GetByID(ctx, "7")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = svc.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, repo := seededUserService(t)
	ctx := context.Background()

	name := "  Ana Maria "
	updated, err := svc.UpdateProfile(ctx, "42", ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "Perez", updated.LastName)
	assert.Empty(t, updated.PasswordHash)

	stored, err := repo.FindByID(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "hash", stored.PasswordHash, "profile updates keep the credential hash")

	empty := " "
	_, err = svc.UpdateProfile(ctx, "42", ProfileUpdate{LastName: &empty})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "LastName", verr.Field)

	_, err = svc.UpdateProfile(ctx, "missing", ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
