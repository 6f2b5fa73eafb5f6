package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/macaria/backend/internal/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// UserRepo defines the persistence operations for Users.
// Usernames are unique within a tenant ignoring case, enforced by a unique
// index on (tenant_id, lower(username)).
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	// Returns domain.ErrConflict when the username is already taken in the
	// tenant (case-insensitive).
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a single user by id within the tenant.
	GetByID(ctx context.Context, tenantID, id int64) (domain.User, error)

	// GetByUsername retrieves a user by username within the tenant,
	// matching case-insensitively.
	GetByUsername(ctx context.Context, tenantID int64, username string) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (tenant_id, username, password_hash)
		VALUES (@tenant_id, @username, @password_hash)
		RETURNING id, tenant_id, username, password_hash, created_at`

	args := pgx.NamedArgs{
		"tenant_id":     user.TenantID,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: username taken: %w", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, tenantID, id int64) (domain.User, error) {
	const q = `
		SELECT id, tenant_id, username, password_hash, created_at
		FROM users
		WHERE id = @id AND tenant_id = @tenant_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "tenant_id": tenantID})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByUsername(ctx context.Context, tenantID int64, username string) (domain.User, error) {
	const q = `
		SELECT id, tenant_id, username, password_hash, created_at
		FROM users
		WHERE lower(username) = lower(@username) AND tenant_id = @tenant_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"username": username, "tenant_id": tenantID})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByUsername: %w", err)
	}
	return result, nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.TenantID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
