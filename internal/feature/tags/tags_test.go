package tags_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/feature/tags"
	"github.com/macaria/backend/internal/repo"
)

// mockTagRepo is a hand-written test double for repo.TagRepo with one
// function field per method.
type mockTagRepo struct {
	create         func(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	update         func(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	getByID        func(ctx context.Context, tenantID, id int64) (domain.Tag, error)
	list           func(ctx context.Context, tenantID int64) ([]domain.Tag, error)
	listByIDs      func(ctx context.Context, tenantID int64, ids []int64) ([]domain.Tag, error)
	existingSlugs  func(ctx context.Context, tenantID int64, prefix string) ([]string, error)
	linkToNote     func(ctx context.Context, tenantID, noteID, tagID int64) error
	unlinkFromNote func(ctx context.Context, tenantID, noteID, tagID int64) error
	replaceForNote func(ctx context.Context, tenantID, noteID int64, tagIDs []int64) error
	listByNote     func(ctx context.Context, tenantID, noteID int64) ([]domain.Tag, error)
}

func (m *mockTagRepo) Create(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	return m.create(ctx, tag)
}
func (m *mockTagRepo) Update(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	return m.update(ctx, tag)
}
func (m *mockTagRepo) GetByID(ctx context.Context, tenantID, id int64) (domain.Tag, error) {
	return m.getByID(ctx, tenantID, id)
}
func (m *mockTagRepo) List(ctx context.Context, tenantID int64) ([]domain.Tag, error) {
	return m.list(ctx, tenantID)
}
func (m *mockTagRepo) ListByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.Tag, error) {
	return m.listByIDs(ctx, tenantID, ids)
}
func (m *mockTagRepo) ExistingSlugs(ctx context.Context, tenantID int64, prefix string) ([]string, error) {
	return m.existingSlugs(ctx, tenantID, prefix)
}
func (m *mockTagRepo) LinkToNote(ctx context.Context, tenantID, noteID, tagID int64) error {
	return m.linkToNote(ctx, tenantID, noteID, tagID)
}
func (m *mockTagRepo) UnlinkFromNote(ctx context.Context, tenantID, noteID, tagID int64) error {
	return m.unlinkFromNote(ctx, tenantID, noteID, tagID)
}
func (m *mockTagRepo) ReplaceForNote(ctx context.Context, tenantID, noteID int64, tagIDs []int64) error {
	return m.replaceForNote(ctx, tenantID, noteID, tagIDs)
}
func (m *mockTagRepo) ListByNote(ctx context.Context, tenantID, noteID int64) ([]domain.Tag, error) {
	return m.listByNote(ctx, tenantID, noteID)
}

var _ repo.TagRepo = (*mockTagRepo)(nil)

type mockTxRunner struct {
	store repo.Store
}

func (m *mockTxRunner) InTx(_ context.Context, fn func(s repo.Store) error) error {
	return fn(m.store)
}

var _ repo.TxRunner = (*mockTxRunner)(nil)

func newCommands(tagRepo *mockTagRepo) *tags.Commands {
	return tags.NewCommands(&mockTxRunner{store: repo.Store{Tags: tagRepo}})
}

var tenantA = domain.TenantContext{TenantID: 1, UserID: 1}

func idPtr(id int64) *int64 { return &id }

func TestSaveTag_CreateWithZeroID(t *testing.T) {
	var created domain.Tag
	tagRepo := &mockTagRepo{
		existingSlugs: func(_ context.Context, _ int64, prefix string) ([]string, error) {
			assert.Equal(t, "angular", prefix)
			return nil, nil
		},
		create: func(_ context.Context, tag domain.Tag) (domain.Tag, error) {
			created = tag
			tag.ID = 1
			return tag, nil
		},
	}

	cmd := newCommands(tagRepo)
	res, events, err := cmd.SaveTag(context.Background(), tenantA, tags.SaveTag{TagID: idPtr(0), Name: "Angular"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TagID)
	assert.Equal(t, "angular", created.Slug)
	assert.Equal(t, int64(1), created.TenantID)

	require.Len(t, events, 1)
	saved, ok := events[0].(domain.TagSaved)
	require.True(t, ok)
	assert.Equal(t, "[Tag] Saved", saved.EventName())
	assert.Equal(t, int64(1), saved.Tag.ID)
}

func TestSaveTag_CreateSuffixesSlugCollision(t *testing.T) {
	var created domain.Tag
	tagRepo := &mockTagRepo{
		existingSlugs: func(_ context.Context, _ int64, _ string) ([]string, error) {
			return []string{"angular"}, nil
		},
		create: func(_ context.Context, tag domain.Tag) (domain.Tag, error) {
			created = tag
			tag.ID = 2
			return tag, nil
		},
	}

	cmd := newCommands(tagRepo)
	_, _, err := cmd.SaveTag(context.Background(), tenantA, tags.SaveTag{TagID: idPtr(0), Name: "Angular"})

	require.NoError(t, err)
	assert.Equal(t, "angular-2", created.Slug)
}

func TestSaveTag_RenameRederivesSlug(t *testing.T) {
	var updated domain.Tag
	tagRepo := &mockTagRepo{
		getByID: func(_ context.Context, _, id int64) (domain.Tag, error) {
			return domain.Tag{ID: id, TenantID: 1, Name: "Angular", Slug: "angular"}, nil
		},
		existingSlugs: func(_ context.Context, _ int64, prefix string) ([]string, error) {
			assert.Equal(t, "routing", prefix)
			return nil, nil
		},
		update: func(_ context.Context, tag domain.Tag) (domain.Tag, error) {
			updated = tag
			return tag, nil
		},
	}

	cmd := newCommands(tagRepo)
	res, _, err := cmd.SaveTag(context.Background(), tenantA, tags.SaveTag{TagID: idPtr(3), Name: "Routing"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), res.TagID)
	assert.Equal(t, "Routing", updated.Name)
	assert.Equal(t, "routing", updated.Slug)
}

func TestSaveTag_RenameToSameSlugSkipsLookup(t *testing.T) {
	tagRepo := &mockTagRepo{
		getByID: func(_ context.Context, _, id int64) (domain.Tag, error) {
			return domain.Tag{ID: id, TenantID: 1, Name: "angular", Slug: "angular"}, nil
		},
		// existingSlugs intentionally nil: a same-slug rename must not hit it.
		update: func(_ context.Context, tag domain.Tag) (domain.Tag, error) {
			return tag, nil
		},
	}

	cmd := newCommands(tagRepo)
	_, _, err := cmd.SaveTag(context.Background(), tenantA, tags.SaveTag{TagID: idPtr(3), Name: "Angular"})

	require.NoError(t, err)
}

func TestSaveTag_UpdateNotFound(t *testing.T) {
	tagRepo := &mockTagRepo{
		getByID: func(_ context.Context, _, _ int64) (domain.Tag, error) {
			return domain.Tag{}, domain.ErrNotFound
		},
	}

	cmd := newCommands(tagRepo)
	_, events, err := cmd.SaveTag(context.Background(), tenantA, tags.SaveTag{TagID: idPtr(99), Name: "Routing"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, events)
}

func TestSaveTag_SymbolNameYieldsValidationError(t *testing.T) {
	cmd := newCommands(&mockTagRepo{})

	_, _, err := cmd.SaveTag(context.Background(), tenantA, tags.SaveTag{TagID: idPtr(0), Name: "!!!"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetTags_OK(t *testing.T) {
	tagRepo := &mockTagRepo{
		list: func(_ context.Context, tenantID int64) ([]domain.Tag, error) {
			assert.Equal(t, int64(1), tenantID)
			return []domain.Tag{{ID: 1, Slug: "angular"}, {ID: 2, Slug: "routing"}}, nil
		},
	}

	q := tags.NewQueries(repo.Store{Tags: tagRepo})
	res, events, err := q.GetTags(context.Background(), tenantA, tags.GetTags{})

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Len(t, res.Tags, 2)
}

func TestValidateSaveTag_RequiresIDField(t *testing.T) {
	errs := tags.ValidateSaveTag(tags.SaveTag{Name: "Angular"})
	require.Len(t, errs, 1)
	assert.Equal(t, "tagId", errs[0].Field)
}

func TestValidateSaveTag_ZeroIDIsPresent(t *testing.T) {
	assert.Empty(t, tags.ValidateSaveTag(tags.SaveTag{TagID: idPtr(0), Name: "Angular"}))
}

func TestValidateSaveTag_RequiresName(t *testing.T) {
	errs := tags.ValidateSaveTag(tags.SaveTag{TagID: idPtr(0), Name: "  "})
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
}
