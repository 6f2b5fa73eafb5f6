package notes

import (
	"context"
	"fmt"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/repo"
)

// Queries holds the read-only note use cases. Queries emit no events and run
// against a pool-bound store — no transaction needed for single reads.
type Queries struct {
	store repo.Store
}

// NewQueries constructs the note queries over a pool-bound store.
func NewQueries(store repo.Store) *Queries {
	return &Queries{store: store}
}

// GetNotes lists the tenant's notes, tags included.
func (q *Queries) GetNotes(ctx context.Context, tc domain.TenantContext, _ GetNotes) (GetNotesResponse, []domain.Event, error) {
	list, err := q.store.Notes.List(ctx, tc.TenantID)
	if err != nil {
		return GetNotesResponse{}, nil, fmt.Errorf("notes.Queries.GetNotes: %w", err)
	}
	if err := q.attachTags(ctx, tc.TenantID, list); err != nil {
		return GetNotesResponse{}, nil, fmt.Errorf("notes.Queries.GetNotes: %w", err)
	}
	return GetNotesResponse{Notes: list}, nil, nil
}

// GetNoteByID fetches one note by id.
func (q *Queries) GetNoteByID(ctx context.Context, tc domain.TenantContext, req GetNoteByID) (GetNoteResponse, []domain.Event, error) {
	note, err := q.store.Notes.GetByID(ctx, tc.TenantID, req.NoteID)
	if err != nil {
		return GetNoteResponse{}, nil, fmt.Errorf("notes.Queries.GetNoteByID: %w", err)
	}
	note.Tags, err = q.store.Tags.ListByNote(ctx, tc.TenantID, note.ID)
	if err != nil {
		return GetNoteResponse{}, nil, fmt.Errorf("notes.Queries.GetNoteByID: %w", err)
	}
	return GetNoteResponse{Note: note}, nil, nil
}

// GetNoteBySlug fetches one note by slug.
func (q *Queries) GetNoteBySlug(ctx context.Context, tc domain.TenantContext, req GetNoteBySlug) (GetNoteResponse, []domain.Event, error) {
	note, err := q.store.Notes.GetBySlug(ctx, tc.TenantID, req.Slug)
	if err != nil {
		return GetNoteResponse{}, nil, fmt.Errorf("notes.Queries.GetNoteBySlug: %w", err)
	}
	note.Tags, err = q.store.Tags.ListByNote(ctx, tc.TenantID, note.ID)
	if err != nil {
		return GetNoteResponse{}, nil, fmt.Errorf("notes.Queries.GetNoteBySlug: %w", err)
	}
	return GetNoteResponse{Note: note}, nil, nil
}

// GetNotesByTagSlug lists the tenant's notes linked to the given tag slug.
func (q *Queries) GetNotesByTagSlug(ctx context.Context, tc domain.TenantContext, req GetNotesByTagSlug) (GetNotesResponse, []domain.Event, error) {
	list, err := q.store.Notes.ListByTagSlug(ctx, tc.TenantID, req.TagSlug)
	if err != nil {
		return GetNotesResponse{}, nil, fmt.Errorf("notes.Queries.GetNotesByTagSlug: %w", err)
	}
	if err := q.attachTags(ctx, tc.TenantID, list); err != nil {
		return GetNotesResponse{}, nil, fmt.Errorf("notes.Queries.GetNotesByTagSlug: %w", err)
	}
	return GetNotesResponse{Notes: list}, nil, nil
}

// attachTags fills Tags for each note in place.
func (q *Queries) attachTags(ctx context.Context, tenantID int64, list []domain.Note) error {
	for i := range list {
		tags, err := q.store.Tags.ListByNote(ctx, tenantID, list[i].ID)
		if err != nil {
			return err
		}
		list[i].Tags = tags
	}
	return nil
}
