package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macaria/backend/internal/domain"
)

func TestTenantRepo_Create(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Tenants.Create(context.Background(), domain.Tenant{Name: "Quinntyne"})

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Quinntyne", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTenantRepo_GetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Tenants.Create(ctx, domain.Tenant{Name: "Quinntyne"})
	require.NoError(t, err)

	got, err := s.Tenants.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
}

func TestTenantRepo_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Tenants.GetByID(context.Background(), 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
