package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/carlot/internal/listing"
	"github.com/atinyakov/carlot/internal/models"
)

func TestMemoryCarRepository_IDsAreUniqueAndIncreasing(t *testing.T) {
	repo := NewMemoryCarRepository()
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		c := &models.Car{Name: "car"}
		require.NoError(t, repo.Create(ctx, c))
		assert.Greater(t, c.ID, last)
		last = c.ID
	}
}

func TestMemoryCarRepository_RegistrationNumberUnique(t *testing.T) {
	repo := NewMemoryCarRepository()
	ctx := context.Background()
	reg := "ABC123"

	first := &models.Car{Name: "a", RegistrationNumber: &reg}
	require.NoError(t, repo.Create(ctx, first))
	assert.ErrorIs(t, repo.Create(ctx, &models.Car{Name: "b", RegistrationNumber: &reg}), ErrConflict)

	second := &models.Car{Name: "b"}
	require.NoError(t, repo.Create(ctx, second))
	second.RegistrationNumber = &reg
	assert.ErrorIs(t, repo.Update(ctx, second), ErrConflict)

	first.Name = "renamed"
	assert.NoError(t, repo.Update(ctx, first), "a listing keeps its own number")
}

func TestMemoryCarRepository_GetReturnsCopy(t *testing.T) {
	repo := NewMemoryCarRepository()
	ctx := context.Background()

	c := &models.Car{Name: "original"}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryCarRepository_Upsert(t *testing.T) {
	repo := NewMemoryCarRepository()
	ctx := context.Background()
	reg := "XYZ789"

	created, err := repo.Upsert(ctx, &models.Car{Name: "v1", RegistrationNumber: &reg})
	require.NoError(t, err)
	assert.True(t, created)

	c := &models.Car{Name: "v2", RegistrationNumber: &reg}
	created, err = repo.Upsert(ctx, c)
	require.NoError(t, err)
	assert.False(t, created)

	cars, total, err := repo.List(ctx, listing.NewQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "v2", cars[0].Name)
	assert.Equal(t, c.ID, cars[0].ID)

	exists, err := repo.ExistsByRegistrationNumber(ctx, reg)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u := &models.User{Email: "admin@example.com", Name: "Admin", IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.ErrorIs(t, repo.Create(ctx, &models.User{Email: "admin@example.com"}), ErrConflict)

	_, err := repo.FindByEmail(ctx, "Admin@example.com")
	assert.ErrorIs(t, err, ErrNotFound, "email lookup is case-sensitive")

	require.NoError(t, repo.SetActive("admin@example.com", false))
	got, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
