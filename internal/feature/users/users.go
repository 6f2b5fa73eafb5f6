// Package users implements account creation and authentication.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/macaria/backend/internal/auth"
	"github.com/macaria/backend/internal/crypto"
	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/mediator"
	"github.com/macaria/backend/internal/repo"
)

// minPasswordLength is the smallest accepted password, in bytes.
const minPasswordLength = 5

// CreateUser registers a new account in the caller's tenant.
type CreateUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserResponse returns the id of the new user.
type CreateUserResponse struct {
	UserID int64 `json:"userId"`
}

// AuthenticateUser exchanges credentials for a signed token usable on the
// API and the push channel. It is the one unauthenticated request, so the
// caller names the tenant explicitly instead of deriving it from a token.
type AuthenticateUser struct {
	TenantID int64  `json:"tenantId"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthenticateUserResponse carries the signed token and the account id.
type AuthenticateUserResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}

// ValidateCreateUser requires an email-format username and a password of at
// least minPasswordLength characters.
func ValidateCreateUser(req CreateUser) []mediator.FieldError {
	var errs []mediator.FieldError
	if req.Username == "" {
		errs = append(errs, mediator.FieldError{Field: "username", Message: "Email address is required"})
	} else if _, err := mail.ParseAddress(req.Username); err != nil {
		errs = append(errs, mediator.FieldError{Field: "username", Message: "A valid email is required"})
	}
	if len(req.Password) < minPasswordLength {
		errs = append(errs, mediator.FieldError{Field: "password", Message: "Password is too short"})
	}
	return errs
}

// ValidateAuthenticateUser requires the tenant and both credential fields.
func ValidateAuthenticateUser(req AuthenticateUser) []mediator.FieldError {
	var errs []mediator.FieldError
	if req.TenantID == 0 {
		errs = append(errs, mediator.FieldError{Field: "tenantId", Message: "Tenant id is required"})
	}
	if req.Username == "" {
		errs = append(errs, mediator.FieldError{Field: "username", Message: "Username is required"})
	}
	if req.Password == "" {
		errs = append(errs, mediator.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// Commands holds the user use cases. Password transformation goes through
// the Hasher so the plaintext never reaches the store; hasher and store
// failures are wrapped with their original cause intact.
type Commands struct {
	users  repo.UserRepo
	hasher crypto.Hasher
	tokens *auth.Tokens
}

// NewCommands constructs the user commands.
func NewCommands(users repo.UserRepo, hasher crypto.Hasher, tokens *auth.Tokens) *Commands {
	return &Commands{users: users, hasher: hasher, tokens: tokens}
}

// CreateUser registers an account. The username must be unused within the
// tenant ignoring case; a duplicate is ErrConflict whether it is caught by
// the pre-check or by the unique index underneath.
func (c *Commands) CreateUser(ctx context.Context, tc domain.TenantContext, req CreateUser) (CreateUserResponse, []domain.Event, error) {
	_, err := c.users.GetByUsername(ctx, tc.TenantID, req.Username)
	switch {
	case err == nil:
		return CreateUserResponse{}, nil, fmt.Errorf("users.Commands.CreateUser: username taken: %w", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return CreateUserResponse{}, nil, fmt.Errorf("users.Commands.CreateUser: %w", err)
	}

	hash, err := c.hasher.Hash(req.Password)
	if err != nil {
		return CreateUserResponse{}, nil, fmt.Errorf("users.Commands.CreateUser: transform password: %w", err)
	}

	user, err := c.users.Create(ctx, domain.User{
		TenantID:     tc.TenantID,
		Username:     req.Username,
		PasswordHash: hash,
	})
	if err != nil {
		return CreateUserResponse{}, nil, fmt.Errorf("users.Commands.CreateUser: %w", err)
	}

	return CreateUserResponse{UserID: user.ID}, nil, nil
}

// AuthenticateUser verifies credentials and issues a token. A wrong tenant,
// a wrong username, and a wrong password all produce the same
// ErrUnauthorized.
func (c *Commands) AuthenticateUser(ctx context.Context, _ domain.TenantContext, req AuthenticateUser) (AuthenticateUserResponse, []domain.Event, error) {
	user, err := c.users.GetByUsername(ctx, req.TenantID, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthenticateUserResponse{}, nil, fmt.Errorf("users.Commands.AuthenticateUser: %w", domain.ErrUnauthorized)
		}
		return AuthenticateUserResponse{}, nil, fmt.Errorf("users.Commands.AuthenticateUser: %w", err)
	}

	if err := c.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return AuthenticateUserResponse{}, nil, fmt.Errorf("users.Commands.AuthenticateUser: %w", domain.ErrUnauthorized)
	}

	token, err := c.tokens.Issue(user.ID, user.TenantID)
	if err != nil {
		return AuthenticateUserResponse{}, nil, fmt.Errorf("users.Commands.AuthenticateUser: %w", err)
	}

	return AuthenticateUserResponse{Token: token, UserID: user.ID}, nil, nil
}
