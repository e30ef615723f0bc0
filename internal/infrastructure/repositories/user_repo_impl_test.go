package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &entities.User{
		MerchantID:   uuid.New(),
		Email:        "dana@shop.test",
		Name:         "Dana",
		Role:         entities.UserRoleManager,
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleManager, byID.Role)
	assert.True(t, byID.IsActive)

	byEmail, err := repo.GetByEmail(ctx, "dana@shop.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@shop.test")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &entities.User{MerchantID: uuid.New(), Email: "dana@shop.test", Name: "Dana", Role: entities.UserRoleStaff, PasswordHash: "h", IsActive: true}
	require.NoError(t, repo.Create(ctx, first))

	dup := &entities.User{MerchantID: uuid.New(), Email: "dana@shop.test", Name: "Other", Role: entities.UserRoleStaff, PasswordHash: "h", IsActive: true}
	assert.ErrorIs(t, repo.Create(ctx, dup), domainerrors.ErrAlreadyExists)
}
