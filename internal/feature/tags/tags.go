// Package tags implements the tag use cases: upsert-by-id and listing.
package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/mediator"
	"github.com/macaria/backend/internal/repo"
)

// SaveTag creates a tag when *TagID is zero and renames it otherwise.
// TagID is a pointer so that an omitted field is distinguishable from an
// explicit zero: the field itself is required.
type SaveTag struct {
	TagID *int64 `json:"tagId"`
	Name  string `json:"name"`
}

// SaveTagResponse returns the id of the created or updated tag.
type SaveTagResponse struct {
	TagID int64 `json:"tagId"`
}

// GetTags lists all of the tenant's tags.
type GetTags struct{}

// GetTagsResponse carries the tenant's tags ordered by slug.
type GetTagsResponse struct {
	Tags []domain.Tag `json:"tags"`
}

// ValidateSaveTag requires the tag id field to be present (zero means
// create) and a non-blank name.
func ValidateSaveTag(req SaveTag) []mediator.FieldError {
	var errs []mediator.FieldError
	if req.TagID == nil {
		errs = append(errs, mediator.FieldError{Field: "tagId", Message: "Tag id is required"})
	}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, mediator.FieldError{Field: "name", Message: "Name is required"})
	}
	return errs
}

// Commands holds the mutating tag use cases.
type Commands struct {
	tx repo.TxRunner
}

// NewCommands constructs the tag commands over the given transaction runner.
func NewCommands(tx repo.TxRunner) *Commands {
	return &Commands{tx: tx}
}

// SaveTag creates or renames a tag and emits a TagSaved event carrying the
// committed tag. The slug follows the name, made unique within the tenant
// by suffixing.
func (c *Commands) SaveTag(ctx context.Context, tc domain.TenantContext, req SaveTag) (SaveTagResponse, []domain.Event, error) {
	var saved domain.Tag

	err := c.tx.InTx(ctx, func(s repo.Store) error {
		base := domain.Slugify(req.Name)
		if base == "" {
			return fmt.Errorf("name yields an empty slug: %w", domain.ErrValidation)
		}

		tag := domain.Tag{
			TenantID: tc.TenantID,
			Name:     strings.TrimSpace(req.Name),
		}

		var err error
		if id := *req.TagID; id != 0 {
			existing, err := s.Tags.GetByID(ctx, tc.TenantID, id)
			if err != nil {
				return err
			}
			tag.ID = id
			tag.Slug = existing.Slug
			if base != existing.Slug {
				taken, err := s.Tags.ExistingSlugs(ctx, tc.TenantID, base)
				if err != nil {
					return err
				}
				tag.Slug = domain.UniqueSlug(base, without(taken, existing.Slug))
			}
			saved, err = s.Tags.Update(ctx, tag)
			return err
		}

		taken, err := s.Tags.ExistingSlugs(ctx, tc.TenantID, base)
		if err != nil {
			return err
		}
		tag.Slug = domain.UniqueSlug(base, taken)
		saved, err = s.Tags.Create(ctx, tag)
		return err
	})
	if err != nil {
		return SaveTagResponse{}, nil, fmt.Errorf("tags.Commands.SaveTag: %w", err)
	}

	events := []domain.Event{domain.TagSaved{TenantID: tc.TenantID, Tag: saved}}
	return SaveTagResponse{TagID: saved.ID}, events, nil
}

// Queries holds the read-only tag use cases.
type Queries struct {
	store repo.Store
}

// NewQueries constructs the tag queries over a pool-bound store.
func NewQueries(store repo.Store) *Queries {
	return &Queries{store: store}
}

// GetTags lists the tenant's tags.
func (q *Queries) GetTags(ctx context.Context, tc domain.TenantContext, _ GetTags) (GetTagsResponse, []domain.Event, error) {
	tags, err := q.store.Tags.List(ctx, tc.TenantID)
	if err != nil {
		return GetTagsResponse{}, nil, fmt.Errorf("tags.Queries.GetTags: %w", err)
	}
	return GetTagsResponse{Tags: tags}, nil, nil
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
