package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/macaria/backend/internal/domain"
)

// TagRepo defines the persistence operations for Tags and the note_tags join
// table. Join rows carry the tenant id alongside both foreign keys, so link
// and unlink operations stay inside the caller's tenant by construction.
type TagRepo interface {
	// Create inserts a new tag and returns the persisted record.
	Create(ctx context.Context, tag domain.Tag) (domain.Tag, error)

	// Update overwrites the name and slug of an existing tag.
	// Returns domain.ErrNotFound if the tag does not exist in the tenant.
	Update(ctx context.Context, tag domain.Tag) (domain.Tag, error)

	// GetByID retrieves a single tag by id within the tenant.
	GetByID(ctx context.Context, tenantID, id int64) (domain.Tag, error)

	// List returns all of the tenant's tags, ordered by slug.
	List(ctx context.Context, tenantID int64) ([]domain.Tag, error)

	// ListByIDs returns the tenant's tags matching ids. Ids belonging to
	// another tenant are silently absent from the result; callers that need
	// all ids resolved compare lengths.
	ListByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.Tag, error)

	// ExistingSlugs returns every tag slug in the tenant starting with
	// prefix. Used for collision suffixing during slug derivation.
	ExistingSlugs(ctx context.Context, tenantID int64, prefix string) ([]string, error)

	// LinkToNote links a tag to a note. Idempotent — no error if already
	// linked. Both rows must belong to the tenant; the caller is expected to
	// have resolved note and tag through this tenant's repos first.
	LinkToNote(ctx context.Context, tenantID, noteID, tagID int64) error

	// UnlinkFromNote unlinks a tag from a note.
	// Returns domain.ErrNotFound if the tag is not linked to the note.
	UnlinkFromNote(ctx context.Context, tenantID, noteID, tagID int64) error

	// ReplaceForNote makes tagIDs the exact tag set of the note, removing
	// links not listed and adding the missing ones.
	ReplaceForNote(ctx context.Context, tenantID, noteID int64, tagIDs []int64) error

	// ListByNote returns all tags linked to a note, ordered by slug.
	ListByNote(ctx context.Context, tenantID, noteID int64) ([]domain.Tag, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

func (r *pgTagRepo) Create(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (tenant_id, name, slug)
		VALUES (@tenant_id, @name, @slug)
		RETURNING id, tenant_id, name, slug, created_at`

	args := pgx.NamedArgs{"tenant_id": tag.TenantID, "name": tag.Name, "slug": tag.Slug}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) Update(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	const q = `
		UPDATE tags
		SET name = @name,
		    slug = @slug
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING id, tenant_id, name, slug, created_at`

	args := pgx.NamedArgs{"id": tag.ID, "tenant_id": tag.TenantID, "name": tag.Name, "slug": tag.Slug}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) GetByID(ctx context.Context, tenantID, id int64) (domain.Tag, error) {
	const q = `
		SELECT id, tenant_id, name, slug, created_at
		FROM tags
		WHERE id = @id AND tenant_id = @tenant_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "tenant_id": tenantID})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) List(ctx context.Context, tenantID int64) ([]domain.Tag, error) {
	const q = `
		SELECT id, tenant_id, name, slug, created_at
		FROM tags
		WHERE tenant_id = @tenant_id
		ORDER BY slug`

	return r.queryTags(ctx, "repo.TagRepo.List", q, pgx.NamedArgs{"tenant_id": tenantID})
}

func (r *pgTagRepo) ListByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.Tag, error) {
	const q = `
		SELECT id, tenant_id, name, slug, created_at
		FROM tags
		WHERE tenant_id = @tenant_id AND id = ANY(@ids)
		ORDER BY slug`

	args := pgx.NamedArgs{"tenant_id": tenantID, "ids": ids}
	return r.queryTags(ctx, "repo.TagRepo.ListByIDs", q, args)
}

func (r *pgTagRepo) ExistingSlugs(ctx context.Context, tenantID int64, prefix string) ([]string, error) {
	const q = `
		SELECT slug
		FROM tags
		WHERE tenant_id = @tenant_id AND slug LIKE @prefix || '%'
		ORDER BY slug`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ExistingSlugs: %w", err)
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("repo.TagRepo.ExistingSlugs: scan: %w", err)
		}
		slugs = append(slugs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ExistingSlugs: rows: %w", err)
	}
	return slugs, nil
}

// LinkToNote links a tag to a note. Idempotent via ON CONFLICT DO NOTHING.
// The tenant id on the join row comes from the notes row itself, so a forged
// tenant id cannot attach a link to another tenant's note.
func (r *pgTagRepo) LinkToNote(ctx context.Context, tenantID, noteID, tagID int64) error {
	const q = `
		INSERT INTO note_tags (tenant_id, note_id, tag_id)
		SELECT n.tenant_id, n.id, t.id
		FROM notes n
		JOIN tags t ON t.tenant_id = n.tenant_id
		WHERE n.id = @note_id AND t.id = @tag_id AND n.tenant_id = @tenant_id
		ON CONFLICT (note_id, tag_id) DO NOTHING`

	args := pgx.NamedArgs{"tenant_id": tenantID, "note_id": noteID, "tag_id": tagID}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.TagRepo.LinkToNote: %w", err)
	}
	return nil
}

func (r *pgTagRepo) UnlinkFromNote(ctx context.Context, tenantID, noteID, tagID int64) error {
	const q = `
		DELETE FROM note_tags
		WHERE tenant_id = @tenant_id AND note_id = @note_id AND tag_id = @tag_id`

	args := pgx.NamedArgs{"tenant_id": tenantID, "note_id": noteID, "tag_id": tagID}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.TagRepo.UnlinkFromNote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TagRepo.UnlinkFromNote: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTagRepo) ReplaceForNote(ctx context.Context, tenantID, noteID int64, tagIDs []int64) error {
	const del = `
		DELETE FROM note_tags
		WHERE tenant_id = @tenant_id AND note_id = @note_id
		  AND tag_id <> ALL(@tag_ids)`

	args := pgx.NamedArgs{"tenant_id": tenantID, "note_id": noteID, "tag_ids": tagIDs}
	if _, err := r.db.Exec(ctx, del, args); err != nil {
		return fmt.Errorf("repo.TagRepo.ReplaceForNote: delete: %w", err)
	}

	const ins = `
		INSERT INTO note_tags (tenant_id, note_id, tag_id)
		SELECT n.tenant_id, n.id, t.id
		FROM notes n
		JOIN tags t ON t.tenant_id = n.tenant_id
		WHERE n.id = @note_id AND n.tenant_id = @tenant_id AND t.id = ANY(@tag_ids)
		ON CONFLICT (note_id, tag_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, ins, args); err != nil {
		return fmt.Errorf("repo.TagRepo.ReplaceForNote: insert: %w", err)
	}
	return nil
}

func (r *pgTagRepo) ListByNote(ctx context.Context, tenantID, noteID int64) ([]domain.Tag, error) {
	const q = `
		SELECT t.id, t.tenant_id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = @note_id AND nt.tenant_id = @tenant_id
		ORDER BY t.slug`

	args := pgx.NamedArgs{"note_id": noteID, "tenant_id": tenantID}
	return r.queryTags(ctx, "repo.TagRepo.ListByNote", q, args)
}

// queryTags runs a multi-row tag query and scans the result set.
func (r *pgTagRepo) queryTags(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return tags, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var t domain.Tag
	err := s.Scan(&t.ID, &t.TenantID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	return t, nil
}
