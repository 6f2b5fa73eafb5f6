package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macaria/backend/internal/domain"
)

func TestNoteRepo_Create(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := createTenant(t, s, "Quinntyne")

	got, err := s.Notes.Create(ctx, domain.Note{
		TenantID: tenantID,
		Title:    "First Note",
		Body:     "<p>Something Important</p>",
		Slug:     "first-note",
	})

	require.NoError(t, err)
	assert.NotZero(t, got.ID, "id should be DB-generated")
	assert.Equal(t, tenantID, got.TenantID)
	assert.Equal(t, "First Note", got.Title)
	assert.Equal(t, "first-note", got.Slug)
	assert.False(t, got.CreatedAt.IsZero(), "created_at should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "updated_at should be set by DB")
}

func TestNoteRepo_GetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := createTenant(t, s, "Quinntyne")
	created := createNote(t, s, tenantID, "First Note", "first-note")

	got, err := s.Notes.GetByID(ctx, tenantID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
}

func TestNoteRepo_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	tenantID := createTenant(t, s, "Quinntyne")

	_, err := s.Notes.GetByID(context.Background(), tenantID, 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepo_GetByID_OtherTenant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantA := createTenant(t, s, "Tenant A")
	tenantB := createTenant(t, s, "Tenant B")
	note := createNote(t, s, tenantA, "Private", "private")

	// A real id under the wrong tenant must look exactly like a missing row.
	_, err := s.Notes.GetByID(ctx, tenantB, note.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepo_GetBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := createTenant(t, s, "Quinntyne")
	created := createNote(t, s, tenantID, "First Note", "first-note")

	got, err := s.Notes.GetBySlug(ctx, tenantID, "first-note")

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestNoteRepo_GetBySlug_SameSlugDifferentTenants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantA := createTenant(t, s, "Tenant A")
	tenantB := createTenant(t, s, "Tenant B")
	noteA := createNote(t, s, tenantA, "Note A", "shared-slug")
	noteB := createNote(t, s, tenantB, "Note B", "shared-slug")

	gotA, err := s.Notes.GetBySlug(ctx, tenantA, "shared-slug")
	require.NoError(t, err)
	gotB, err := s.Notes.GetBySlug(ctx, tenantB, "shared-slug")
	require.NoError(t, err)

	assert.Equal(t, noteA.ID, gotA.ID)
	assert.Equal(t, noteB.ID, gotB.ID)
}

func TestNoteRepo_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := createTenant(t, s, "Quinntyne")
	created := createNote(t, s, tenantID, "First Note", "first-note")

	created.Title = "Renamed"
	created.Body = "<p>edited</p>"
	got, err := s.Notes.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "<p>edited</p>", got.Body)
	assert.Equal(t, created.ID, got.ID)
}

func TestNoteRepo_Update_OtherTenant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantA := createTenant(t, s, "Tenant A")
	tenantB := createTenant(t, s, "Tenant B")
	note := createNote(t, s, tenantA, "Private", "private")

	note.TenantID = tenantB
	note.Title = "Hijacked"
	_, err := s.Notes.Update(ctx, note)

	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The original row is untouched.
	got, err := s.Notes.GetByID(ctx, tenantA, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestNoteRepo_List_ScopedAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantA := createTenant(t, s, "Tenant A")
	tenantB := createTenant(t, s, "Tenant B")

	first := createNote(t, s, tenantA, "First Note", "first-note")
	second := createNote(t, s, tenantA, "Second Note", "second-note")
	createNote(t, s, tenantB, "Other Tenant Note", "other")

	got, err := s.Notes.List(ctx, tenantA)

	require.NoError(t, err)
	require.Len(t, got, 2, "only tenant A's notes")
	// Most recently created first; equal timestamps fall back to id DESC.
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestNoteRepo_ListByTagSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := createTenant(t, s, "Quinntyne")

	tagged := createNote(t, s, tenantID, "Tagged", "tagged")
	createNote(t, s, tenantID, "Untagged", "untagged")
	tag := createTag(t, s, tenantID, "Angular", "angular")
	require.NoError(t, s.Tags.LinkToNote(ctx, tenantID, tagged.ID, tag.ID))

	got, err := s.Notes.ListByTagSlug(ctx, tenantID, "angular")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tagged.ID, got[0].ID)
}

func TestNoteRepo_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := createTenant(t, s, "Quinntyne")
	note := createNote(t, s, tenantID, "Doomed", "doomed")

	require.NoError(t, s.Notes.Delete(ctx, tenantID, note.ID))

	_, err := s.Notes.GetByID(ctx, tenantID, note.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepo_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	tenantID := createTenant(t, s, "Quinntyne")

	err := s.Notes.Delete(context.Background(), tenantID, 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepo_Delete_CascadesJoinRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantID := createTenant(t, s, "Quinntyne")
	note := createNote(t, s, tenantID, "Tagged", "tagged")
	tag := createTag(t, s, tenantID, "Angular", "angular")
	require.NoError(t, s.Tags.LinkToNote(ctx, tenantID, note.ID, tag.ID))

	require.NoError(t, s.Notes.Delete(ctx, tenantID, note.ID))

	// The tag itself survives; only the link goes.
	_, err := s.Tags.GetByID(ctx, tenantID, tag.ID)
	assert.NoError(t, err)
}

func TestNoteRepo_ExistingSlugs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tenantA := createTenant(t, s, "Tenant A")
	tenantB := createTenant(t, s, "Tenant B")

	createNote(t, s, tenantA, "One", "first-note")
	createNote(t, s, tenantA, "Two", "first-note-2")
	createNote(t, s, tenantA, "Unrelated", "other")
	createNote(t, s, tenantB, "Elsewhere", "first-note")

	got, err := s.Notes.ExistingSlugs(ctx, tenantA, "first-note")

	require.NoError(t, err)
	assert.Equal(t, []string{"first-note", "first-note-2"}, got)
}
