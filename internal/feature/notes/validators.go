package notes

import (
	"strings"

	"github.com/macaria/backend/internal/mediator"
)

// ValidateSaveNote requires a non-blank title. Slug and tag problems are
// checked inside the handler's transaction, where the store is available.
func ValidateSaveNote(req SaveNote) []mediator.FieldError {
	var errs []mediator.FieldError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, mediator.FieldError{Field: "title", Message: "Title is required"})
	}
	return errs
}

// ValidateRemoveNote requires a note id.
func ValidateRemoveNote(req RemoveNote) []mediator.FieldError {
	var errs []mediator.FieldError
	if req.NoteID == 0 {
		errs = append(errs, mediator.FieldError{Field: "noteId", Message: "Note id is required"})
	}
	return errs
}

// ValidateAddTag requires both ids.
func ValidateAddTag(req AddTag) []mediator.FieldError {
	return validateLink(req.NoteID, req.TagID)
}

// ValidateRemoveTag requires both ids.
func ValidateRemoveTag(req RemoveTag) []mediator.FieldError {
	return validateLink(req.NoteID, req.TagID)
}

func validateLink(noteID, tagID int64) []mediator.FieldError {
	var errs []mediator.FieldError
	if noteID == 0 {
		errs = append(errs, mediator.FieldError{Field: "noteId", Message: "Note id is required"})
	}
	if tagID == 0 {
		errs = append(errs, mediator.FieldError{Field: "tagId", Message: "Tag id is required"})
	}
	return errs
}
