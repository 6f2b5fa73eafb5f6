package handler

import (
	"net/http"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/feature/users"
	"github.com/macaria/backend/internal/mediator"
)

// CreateUser handles POST /api/users. The new account lands in the caller's
// tenant.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}

	var req users.CreateUser
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := mediator.Dispatch[users.CreateUser, users.CreateUserResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, res)
}

// AuthenticateUser handles POST /api/users/token. This is the one
// unauthenticated API endpoint; the request body names the tenant.
func (s *Server) AuthenticateUser(w http.ResponseWriter, r *http.Request) {
	var req users.AuthenticateUser
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := mediator.Dispatch[users.AuthenticateUser, users.AuthenticateUserResponse](r.Context(), s.dispatcher, domain.TenantContext{}, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}
