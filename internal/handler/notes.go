package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/feature/notes"
	"github.com/macaria/backend/internal/mediator"
	"github.com/macaria/backend/internal/middleware"
)

// SaveNote handles POST /api/notes for both create and update; the request
// body's noteId decides which.
func (s *Server) SaveNote(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}

	var req notes.SaveNote
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := mediator.Dispatch[notes.SaveNote, notes.SaveNoteResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// RemoveNote handles DELETE /api/notes/{noteID}.
func (s *Server) RemoveNote(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}
	noteID, ok := s.pathID(w, r, "noteID")
	if !ok {
		return
	}

	req := notes.RemoveNote{NoteID: noteID}
	_, err := mediator.Dispatch[notes.RemoveNote, notes.RemoveNoteResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTag handles POST /api/notes/{noteID}/tags/{tagID}.
func (s *Server) AddTag(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}
	noteID, ok := s.pathID(w, r, "noteID")
	if !ok {
		return
	}
	tagID, ok := s.pathID(w, r, "tagID")
	if !ok {
		return
	}

	req := notes.AddTag{NoteID: noteID, TagID: tagID}
	_, err := mediator.Dispatch[notes.AddTag, notes.AddTagResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveTag handles DELETE /api/notes/{noteID}/tags/{tagID}.
func (s *Server) RemoveTag(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}
	noteID, ok := s.pathID(w, r, "noteID")
	if !ok {
		return
	}
	tagID, ok := s.pathID(w, r, "tagID")
	if !ok {
		return
	}

	req := notes.RemoveTag{NoteID: noteID, TagID: tagID}
	_, err := mediator.Dispatch[notes.RemoveTag, notes.RemoveTagResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetNotes handles GET /api/notes.
func (s *Server) GetNotes(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}

	res, err := mediator.Dispatch[notes.GetNotes, notes.GetNotesResponse](r.Context(), s.dispatcher, tc, notes.GetNotes{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetNoteByID handles GET /api/notes/{noteID}.
func (s *Server) GetNoteByID(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}
	noteID, ok := s.pathID(w, r, "noteID")
	if !ok {
		return
	}

	req := notes.GetNoteByID{NoteID: noteID}
	res, err := mediator.Dispatch[notes.GetNoteByID, notes.GetNoteResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetNoteBySlug handles GET /api/notes/slug/{slug}.
func (s *Server) GetNoteBySlug(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}

	req := notes.GetNoteBySlug{Slug: chi.URLParam(r, "slug")}
	res, err := mediator.Dispatch[notes.GetNoteBySlug, notes.GetNoteResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetNotesByTagSlug handles GET /api/notes/tag/{tagSlug}.
func (s *Server) GetNotesByTagSlug(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}

	req := notes.GetNotesByTagSlug{TagSlug: chi.URLParam(r, "tagSlug")}
	res, err := mediator.Dispatch[notes.GetNotesByTagSlug, notes.GetNotesResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// tenant resolves the caller's TenantContext set by the auth middleware.
// A false return means the 401 response has already been written.
func (s *Server) tenant(w http.ResponseWriter, r *http.Request) (domain.TenantContext, bool) {
	tc, ok := middleware.TenantFrom(r.Context())
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{
			Code: "unauthorized", Message: "authentication required",
		}})
		return domain.TenantContext{}, false
	}
	return tc, true
}

// pathID parses a numeric chi URL parameter. A false return means the 404
// response has already been written — a non-numeric id cannot name anything.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		s.writeJSON(w, http.StatusNotFound, notFoundBody("not found"))
		return 0, false
	}
	return id, true
}
