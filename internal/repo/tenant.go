package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/macaria/backend/internal/domain"
)

// TenantRepo defines the persistence operations for Tenants.
// Tenants are the one entity without a tenant scope of their own; they are
// created by provisioning tooling, not by API requests.
type TenantRepo interface {
	// Create inserts a new tenant and returns the persisted record.
	Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)

	// GetByID retrieves a single tenant by id.
	GetByID(ctx context.Context, id int64) (domain.Tenant, error)
}

// pgTenantRepo is the Postgres implementation of TenantRepo.
type pgTenantRepo struct {
	db db
}

// NewTenantRepo constructs a TenantRepo backed by the provided db connection.
func NewTenantRepo(db db) TenantRepo {
	return &pgTenantRepo{db: db}
}

func (r *pgTenantRepo) Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	const q = `
		INSERT INTO tenants (name)
		VALUES (@name)
		RETURNING id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": tenant.Name})
	result, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("repo.TenantRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTenantRepo) GetByID(ctx context.Context, id int64) (domain.Tenant, error) {
	const q = `
		SELECT id, name, created_at
		FROM tenants
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("repo.TenantRepo.GetByID: %w", err)
	}
	return result, nil
}

// scanTenant maps a single database row into a domain.Tenant.
func scanTenant(s scanner) (domain.Tenant, error) {
	var t domain.Tenant
	err := s.Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tenant{}, domain.ErrNotFound
		}
		return domain.Tenant{}, err
	}
	return t, nil
}
