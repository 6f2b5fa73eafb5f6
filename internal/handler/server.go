// Package handler implements the HTTP surface of the note backend.
// Handlers decode a request body or URL params into a feature request,
// resolve the caller's TenantContext, and dispatch through the mediator;
// they contain no business logic of their own.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macaria/backend/internal/hub"
	"github.com/macaria/backend/internal/mediator"
	"github.com/macaria/backend/internal/middleware"
)

// Server holds the dependencies shared by every HTTP handler.
// Methods are split into domain-specific files (notes.go, tags.go, users.go,
// ws.go) but all operate on this struct.
type Server struct {
	dispatcher *mediator.Dispatcher
	hub        *hub.Hub
	tokens     middleware.TokenVerifier
	log        *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d *mediator.Dispatcher, h *hub.Hub, tokens middleware.TokenVerifier, log *slog.Logger) *Server {
	return &Server{dispatcher: d, hub: h, tokens: tokens, log: log}
}

// Routes builds the API router. Everything under /api except the token
// endpoint requires a valid bearer token; /hub authenticates inside its own
// handler because websocket clients pass the token as a query parameter.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Post("/api/users/token", s.AuthenticateUser)
	r.Get("/hub", s.HubSocket().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuth(s.tokens))

		r.Route("/api/notes", func(r chi.Router) {
			r.Get("/", s.GetNotes)
			r.Post("/", s.SaveNote)
			r.Get("/{noteID}", s.GetNoteByID)
			r.Delete("/{noteID}", s.RemoveNote)
			r.Get("/slug/{slug}", s.GetNoteBySlug)
			r.Get("/tag/{tagSlug}", s.GetNotesByTagSlug)
			r.Post("/{noteID}/tags/{tagID}", s.AddTag)
			r.Delete("/{noteID}/tags/{tagID}", s.RemoveTag)
		})

		r.Route("/api/tags", func(r chi.Router) {
			r.Get("/", s.GetTags)
			r.Post("/", s.SaveTag)
		})

		r.Post("/api/users", s.CreateUser)
	})

	return r
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
// A false return means the 400 response has already been written.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, requestBody("invalid request body"))
		return false
	}
	return true
}

// writeJSON writes v as the JSON response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("handler: write response", "error", err)
	}
}
