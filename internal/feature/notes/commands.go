package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/repo"
)

// Commands holds the mutating note use cases. Every command runs its store
// work inside a single transaction, so the events it returns always describe
// committed state.
type Commands struct {
	tx repo.TxRunner
}

// NewCommands constructs the note commands over the given transaction runner.
func NewCommands(tx repo.TxRunner) *Commands {
	return &Commands{tx: tx}
}

// SaveNote creates or updates a note, syncs its tag set, and emits a
// NoteSaved event carrying the full committed note.
func (c *Commands) SaveNote(ctx context.Context, tc domain.TenantContext, req SaveNote) (SaveNoteResponse, []domain.Event, error) {
	var saved domain.Note

	err := c.tx.InTx(ctx, func(s repo.Store) error {
		// Resolve the requested tags first: an unknown or cross-tenant tag
		// id aborts before any write.
		tagIDs := dedupe(req.TagIDs)
		if len(tagIDs) > 0 {
			tags, err := s.Tags.ListByIDs(ctx, tc.TenantID, tagIDs)
			if err != nil {
				return err
			}
			if len(tags) != len(tagIDs) {
				return fmt.Errorf("unknown tag: %w", domain.ErrNotFound)
			}
		}

		note := domain.Note{
			ID:       req.NoteID,
			TenantID: tc.TenantID,
			Title:    strings.TrimSpace(req.Title),
			Body:     req.Body,
		}

		var err error
		if req.NoteID != 0 {
			existing, err := s.Notes.GetByID(ctx, tc.TenantID, req.NoteID)
			if err != nil {
				return err
			}
			// Updates keep their slug unless the caller supplies a new one,
			// so note URLs stay stable across edits.
			note.Slug = existing.Slug
			if req.Slug != "" {
				note.Slug, err = uniqueNoteSlug(ctx, s, tc.TenantID, req.Slug, existing.Slug)
				if err != nil {
					return err
				}
			}
			saved, err = s.Notes.Update(ctx, note)
			if err != nil {
				return err
			}
		} else {
			source := req.Slug
			if source == "" {
				source = note.Title
			}
			note.Slug, err = uniqueNoteSlug(ctx, s, tc.TenantID, source, "")
			if err != nil {
				return err
			}
			saved, err = s.Notes.Create(ctx, note)
			if err != nil {
				return err
			}
		}

		if err := s.Tags.ReplaceForNote(ctx, tc.TenantID, saved.ID, tagIDs); err != nil {
			return err
		}
		saved.Tags, err = s.Tags.ListByNote(ctx, tc.TenantID, saved.ID)
		return err
	})
	if err != nil {
		return SaveNoteResponse{}, nil, fmt.Errorf("notes.Commands.SaveNote: %w", err)
	}

	events := []domain.Event{domain.NoteSaved{TenantID: tc.TenantID, Note: saved}}
	return SaveNoteResponse{NoteID: saved.ID}, events, nil
}

// RemoveNote deletes a note and emits a NoteRemoved event. The join rows go
// with it via the FK cascade. A missing note is ErrNotFound and emits nothing.
func (c *Commands) RemoveNote(ctx context.Context, tc domain.TenantContext, req RemoveNote) (RemoveNoteResponse, []domain.Event, error) {
	err := c.tx.InTx(ctx, func(s repo.Store) error {
		return s.Notes.Delete(ctx, tc.TenantID, req.NoteID)
	})
	if err != nil {
		return RemoveNoteResponse{}, nil, fmt.Errorf("notes.Commands.RemoveNote: %w", err)
	}

	events := []domain.Event{domain.NoteRemoved{TenantID: tc.TenantID, NoteID: req.NoteID}}
	return RemoveNoteResponse{}, events, nil
}

// AddTag links a tag to a note and emits a NoteTagAdded event. Both entities
// must exist in the caller's tenant.
func (c *Commands) AddTag(ctx context.Context, tc domain.TenantContext, req AddTag) (AddTagResponse, []domain.Event, error) {
	err := c.tx.InTx(ctx, func(s repo.Store) error {
		if _, err := s.Notes.GetByID(ctx, tc.TenantID, req.NoteID); err != nil {
			return err
		}
		if _, err := s.Tags.GetByID(ctx, tc.TenantID, req.TagID); err != nil {
			return err
		}
		return s.Tags.LinkToNote(ctx, tc.TenantID, req.NoteID, req.TagID)
	})
	if err != nil {
		return AddTagResponse{}, nil, fmt.Errorf("notes.Commands.AddTag: %w", err)
	}

	events := []domain.Event{domain.NoteTagAdded{TenantID: tc.TenantID, NoteID: req.NoteID, TagID: req.TagID}}
	return AddTagResponse{}, events, nil
}

// RemoveTag unlinks a tag from a note and emits a NoteTagRemoved event.
// An absent link is ErrNotFound and emits nothing.
func (c *Commands) RemoveTag(ctx context.Context, tc domain.TenantContext, req RemoveTag) (RemoveTagResponse, []domain.Event, error) {
	err := c.tx.InTx(ctx, func(s repo.Store) error {
		return s.Tags.UnlinkFromNote(ctx, tc.TenantID, req.NoteID, req.TagID)
	})
	if err != nil {
		return RemoveTagResponse{}, nil, fmt.Errorf("notes.Commands.RemoveTag: %w", err)
	}

	events := []domain.Event{domain.NoteTagRemoved{TenantID: tc.TenantID, NoteID: req.NoteID, TagID: req.TagID}}
	return RemoveTagResponse{}, events, nil
}

// uniqueNoteSlug derives a slug from source and resolves collisions within
// the tenant by suffixing. keep names a slug that does not count as a
// collision (the note's own current slug during an update).
func uniqueNoteSlug(ctx context.Context, s repo.Store, tenantID int64, source, keep string) (string, error) {
	base := domain.Slugify(source)
	if base == "" {
		return "", fmt.Errorf("title yields an empty slug: %w", domain.ErrValidation)
	}

	taken, err := s.Notes.ExistingSlugs(ctx, tenantID, base)
	if err != nil {
		return "", err
	}
	if keep != "" {
		taken = without(taken, keep)
	}
	return domain.UniqueSlug(base, taken), nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(slugs []string, drop string) []string {
	out := slugs[:0]
	for _, s := range slugs {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
