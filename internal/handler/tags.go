package handler

import (
	"net/http"

	"github.com/macaria/backend/internal/feature/tags"
	"github.com/macaria/backend/internal/mediator"
)

// SaveTag handles POST /api/tags for both create and update; the request
// body's tagId decides which (zero means create).
func (s *Server) SaveTag(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}

	var req tags.SaveTag
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := mediator.Dispatch[tags.SaveTag, tags.SaveTagResponse](r.Context(), s.dispatcher, tc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetTags handles GET /api/tags.
func (s *Server) GetTags(w http.ResponseWriter, r *http.Request) {
	tc, ok := s.tenant(w, r)
	if !ok {
		return
	}

	res, err := mediator.Dispatch[tags.GetTags, tags.GetTagsResponse](r.Context(), s.dispatcher, tc, tags.GetTags{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}
