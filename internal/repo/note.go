package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/macaria/backend/internal/domain"
)

// NoteRepo defines the persistence operations for Notes.
// The feature layer depends on this interface, not the concrete Postgres
// implementation, which allows handlers to be unit-tested with a mock.
// Returned notes do not have Tags populated — see TagRepo.ListByNote.
type NoteRepo interface {
	// Create inserts a new note and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, note domain.Note) (domain.Note, error)

	// Update overwrites the mutable fields of an existing note.
	// Returns domain.ErrNotFound if the note does not exist in the tenant.
	Update(ctx context.Context, note domain.Note) (domain.Note, error)

	// GetByID retrieves a single note by id within the tenant.
	GetByID(ctx context.Context, tenantID, id int64) (domain.Note, error)

	// GetBySlug retrieves a single note by slug within the tenant.
	GetBySlug(ctx context.Context, tenantID int64, slug string) (domain.Note, error)

	// List returns all of the tenant's notes, most recently created first.
	List(ctx context.Context, tenantID int64) ([]domain.Note, error)

	// ListByTagSlug returns the tenant's notes linked to the tag with the
	// given slug, most recently created first.
	ListByTagSlug(ctx context.Context, tenantID int64, tagSlug string) ([]domain.Note, error)

	// Delete removes a note by id. Linked note_tags rows are removed by the
	// FK cascade. Returns domain.ErrNotFound if the note does not exist in
	// the tenant.
	Delete(ctx context.Context, tenantID, id int64) error

	// ExistingSlugs returns every note slug in the tenant starting with
	// prefix. Used for collision suffixing during slug derivation.
	ExistingSlugs(ctx context.Context, tenantID int64, prefix string) ([]string, error)
}

// pgNoteRepo is the Postgres implementation of NoteRepo.
type pgNoteRepo struct {
	db db
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
func NewNoteRepo(db db) NoteRepo {
	return &pgNoteRepo{db: db}
}

func (r *pgNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	const q = `
		INSERT INTO notes (tenant_id, title, body, slug)
		VALUES (@tenant_id, @title, @body, @slug)
		RETURNING id, tenant_id, title, body, slug, created_at, updated_at`

	args := pgx.NamedArgs{
		"tenant_id": note.TenantID,
		"title":     note.Title,
		"body":      note.Body,
		"slug":      note.Slug,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgNoteRepo) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	const q = `
		UPDATE notes
		SET title      = @title,
		    body       = @body,
		    slug       = @slug,
		    updated_at = now()
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING id, tenant_id, title, body, slug, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":        note.ID,
		"tenant_id": note.TenantID,
		"title":     note.Title,
		"body":      note.Body,
		"slug":      note.Slug,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgNoteRepo) GetByID(ctx context.Context, tenantID, id int64) (domain.Note, error) {
	const q = `
		SELECT id, tenant_id, title, body, slug, created_at, updated_at
		FROM notes
		WHERE id = @id AND tenant_id = @tenant_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "tenant_id": tenantID})
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgNoteRepo) GetBySlug(ctx context.Context, tenantID int64, slug string) (domain.Note, error) {
	const q = `
		SELECT id, tenant_id, title, body, slug, created_at, updated_at
		FROM notes
		WHERE slug = @slug AND tenant_id = @tenant_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug, "tenant_id": tenantID})
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetBySlug: %w", err)
	}
	return result, nil
}

func (r *pgNoteRepo) List(ctx context.Context, tenantID int64) ([]domain.Note, error) {
	const q = `
		SELECT id, tenant_id, title, body, slug, created_at, updated_at
		FROM notes
		WHERE tenant_id = @tenant_id
		ORDER BY created_at DESC, id DESC`

	return r.queryNotes(ctx, "repo.NoteRepo.List", q, pgx.NamedArgs{"tenant_id": tenantID})
}

func (r *pgNoteRepo) ListByTagSlug(ctx context.Context, tenantID int64, tagSlug string) ([]domain.Note, error) {
	const q = `
		SELECT n.id, n.tenant_id, n.title, n.body, n.slug, n.created_at, n.updated_at
		FROM notes n
		JOIN note_tags nt ON nt.note_id = n.id
		JOIN tags t ON t.id = nt.tag_id
		WHERE n.tenant_id = @tenant_id
		  AND t.tenant_id = @tenant_id
		  AND t.slug = @tag_slug
		ORDER BY n.created_at DESC, n.id DESC`

	args := pgx.NamedArgs{"tenant_id": tenantID, "tag_slug": tagSlug}
	return r.queryNotes(ctx, "repo.NoteRepo.ListByTagSlug", q, args)
}

func (r *pgNoteRepo) Delete(ctx context.Context, tenantID, id int64) error {
	const q = `DELETE FROM notes WHERE id = @id AND tenant_id = @tenant_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "tenant_id": tenantID})
	if err != nil {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgNoteRepo) ExistingSlugs(ctx context.Context, tenantID int64, prefix string) ([]string, error) {
	const q = `
		SELECT slug
		FROM notes
		WHERE tenant_id = @tenant_id AND slug LIKE @prefix || '%'
		ORDER BY slug`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.ExistingSlugs: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("repo.NoteRepo.ExistingSlugs: scan: %w", err)
		}
		slugs = append(slugs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.ExistingSlugs: rows: %w", err)
	}
	return slugs, nil
}

// queryNotes runs a multi-row note query and scans the result set.
func (r *pgNoteRepo) queryNotes(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Note, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return notes, nil
}

// scanNote maps a single database row into a domain.Note.
func scanNote(s scanner) (domain.Note, error) {
	var n domain.Note
	err := s.Scan(&n.ID, &n.TenantID, &n.Title, &n.Body, &n.Slug, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, err
	}
	return n, nil
}
