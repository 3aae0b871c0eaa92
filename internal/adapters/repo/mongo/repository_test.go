package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server only when SHELF_TEST_MONGO_URI is set.
func newLiveRepository(t *testing.T) *Repository {
	t.Helper()

	uri := os.Getenv("SHELF_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SHELF_TEST_MONGO_URI not set")
	}

	config := viper.New()
	config.Set(DatabaseKey, "shelf_test_"+uuid.NewString()[:8])

	repo, err := NewRepository(context.Background(), config, uri)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.items.Database().Drop(context.Background())
		_ = repo.Close(context.Background())
	})
	return repo
}

func TestRepositoryLiveRoundTrip(t *testing.T) {
	repo := newLiveRepository(t)
	ctx := context.Background()
	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := domain.TrackedItem{Title: "Solo Leveling", Owner: "U", Progress: 10, SavedAt: savedAt}
	second := domain.TrackedItem{Title: "Tower of God", Owner: "U", Progress: 5, Link: "https://x.test", SavedAt: savedAt}

	var err error
	first.ID, err = repo.Insert(ctx, first)
	require.NoError(t, err)
	second.ID, err = repo.Insert(ctx, second)
	require.NoError(t, err)

	items, err := repo.FindByOwner(ctx, "U", "")
	require.NoError(t, err)
	assert.Equal(t, []domain.TrackedItem{first, second}, items)

	got, err := repo.FindOneByTitleExact(ctx, "U", "tower of god")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	require.NoError(t, repo.UpdateProgress(ctx, first.ID, 12, savedAt.Add(time.Second)))
	got, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Progress)

	require.ErrorIs(t, repo.UpdateProgress(ctx, "000000000000000000000000", 1, savedAt), domain.ErrItemNotFound)

	require.NoError(t, repo.Grant(ctx, domain.PermissionGrant{User: "friend", GrantedBy: "admin", GrantedAt: savedAt}))
	require.NoError(t, repo.Grant(ctx, domain.PermissionGrant{User: "friend", GrantedBy: "other", GrantedAt: savedAt}))
	grants, err := repo.ListGrants(ctx)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, domain.UserID("admin"), grants[0].GrantedBy)
}

func TestRepositoryRejectsMalformedIDs(t *testing.T) {
	t.Parallel()

	repo := &Repository{timeout: time.Second}

	_, err := repo.GetByID(context.Background(), "not-hex")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	require.ErrorIs(t, repo.UpdateProgress(context.Background(), "not-hex", 1, time.Now()), domain.ErrItemNotFound)
}

func TestNewRepositoryRequiresURI(t *testing.T) {
	t.Parallel()

	_, err := NewRepository(context.Background(), nil, "")
	require.Error(t, err)
}
