package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/internal/testdb"
	"github.com/shashiranjanraj/inventory/pkg/auth"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(repositories.NewUserRepository(testdb.Open(t)))
}

func TestUserService_Create(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, UserCreate{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "user", u.Role)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "s3cret-pass"))

	_, err = svc.Create(ctx, UserCreate{Username: "alice", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, UserCreate{Username: "bob", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, UserCreate{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, UserCreate{Username: "bob", Password: "s3cret-pass"})
	require.NoError(t, err)

	name, pass := "alicia", "brand-new-pass"
	u, err := svc.Update(ctx, alice.ID, UserUpdate{Username: &name, Password: &pass})
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Username)
	assert.True(t, auth.CheckPassword(u.PasswordHash, pass))

	taken := "bob"
	_, err = svc.Update(ctx, alice.ID, UserUpdate{Username: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	users, page, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.EqualValues(t, 2, page.Total)

	require.NoError(t, svc.Delete(ctx, alice.ID))
	_, err = svc.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, alice.ID), ErrNotFound)
}
