// Package notes implements the note use cases: upsert, delete, tag linking,
// and the read queries. Each use case is a request/response pair dispatched
// through the mediator; mutations run inside one transaction and report what
// happened as domain events.
package notes

import "github.com/macaria/backend/internal/domain"

// SaveNote creates a note when NoteID is zero and updates it otherwise.
// When Slug is empty a slug is derived from the title; either way the final
// slug is made unique within the tenant by suffixing. TagIDs becomes the
// note's exact tag set.
type SaveNote struct {
	NoteID int64   `json:"noteId"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Slug   string  `json:"slug"`
	TagIDs []int64 `json:"tags"`
}

// SaveNoteResponse returns the id of the created or updated note.
type SaveNoteResponse struct {
	NoteID int64 `json:"noteId"`
}

// RemoveNote deletes a note by id.
type RemoveNote struct {
	NoteID int64 `json:"noteId"`
}

// RemoveNoteResponse is empty; a nil error is the whole answer.
type RemoveNoteResponse struct{}

// AddTag links an existing tag to an existing note.
type AddTag struct {
	NoteID int64 `json:"noteId"`
	TagID  int64 `json:"tagId"`
}

// AddTagResponse is empty.
type AddTagResponse struct{}

// RemoveTag unlinks a tag from a note.
type RemoveTag struct {
	NoteID int64 `json:"noteId"`
	TagID  int64 `json:"tagId"`
}

// RemoveTagResponse is empty.
type RemoveTagResponse struct{}

// GetNotes lists all of the tenant's notes.
type GetNotes struct{}

// GetNotesResponse carries the tenant's notes, tags included.
type GetNotesResponse struct {
	Notes []domain.Note `json:"notes"`
}

// GetNoteByID fetches one note by id.
type GetNoteByID struct {
	NoteID int64 `json:"noteId"`
}

// GetNoteBySlug fetches one note by slug.
type GetNoteBySlug struct {
	Slug string `json:"slug"`
}

// GetNoteResponse carries one note, tags included.
type GetNoteResponse struct {
	Note domain.Note `json:"note"`
}

// GetNotesByTagSlug lists the tenant's notes linked to the tag with the
// given slug.
type GetNotesByTagSlug struct {
	TagSlug string `json:"tagSlug"`
}
