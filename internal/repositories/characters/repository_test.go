package characters_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/variants/raven"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/repositories/characters"
	"github.com/KirkDiggler/brp-sheet/internal/testutils"
	"github.com/KirkDiggler/brp-sheet/internal/uuid"
)

// testRepository runs the behaviour every backend shares
func testRepository(t *testing.T, repo characters.Repository) {
	ctx := context.Background()

	t.Run("create and retrieve", func(t *testing.T) {
		c := testutils.CreateTestCharacter(t, "ada", "owner-1", "camp-1", "Ada")
		c.Damage = 3
		c.LocationDamage[shared.LocationHead] = 3
		require.NoError(t, repo.Create(ctx, c))
		assert.False(t, c.CreatedAt.IsZero())

		got, err := repo.Get(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Base().Bio.Name)
		assert.Equal(t, 3, got.Base().LocationDamage[shared.LocationHead])
		assert.Equal(t, c.CreatedAt, got.Base().CreatedAt)
		assert.Equal(t, c.SkillNames(), got.Base().SkillNames())
	})

	t.Run("retrieved sheets are copies", func(t *testing.T) {
		got, err := repo.Get(ctx, "ada")
		require.NoError(t, err)
		got.Base().Damage = 9

		again, err := repo.Get(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, 3, again.Base().Damage)
	})

	t.Run("duplicate fails", func(t *testing.T) {
		c := testutils.CreateTestCharacter(t, "ada", "owner-1", "camp-1", "Ada")
		err := repo.Create(ctx, c)
		assert.True(t, brperr.IsAlreadyExists(err))
	})

	t.Run("generated ID", func(t *testing.T) {
		c := testutils.CreateTestCharacter(t, "", "owner-1", "", "Bea")
		require.NoError(t, repo.Create(ctx, c))
		assert.True(t, strings.HasPrefix(c.ID, uuid.CharacterIDPrefix))
	})

	t.Run("variant kind survives", func(t *testing.T) {
		c := testutils.CreateTestRavenCharacter(t, "crow", "owner-2", "camp-1", "Crow")
		c.AddGuilt(5)
		require.NoError(t, repo.Create(ctx, c))

		got, err := repo.Get(ctx, "crow")
		require.NoError(t, err)
		rc, ok := got.(*raven.Character)
		require.True(t, ok)
		assert.Equal(t, c.Guilt, rc.Guilt)
	})

	t.Run("list", func(t *testing.T) {
		owned, err := repo.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.Len(t, owned, 2)
		assert.Equal(t, "Ada", owned[0].Base().Bio.Name)
		assert.Equal(t, "Bea", owned[1].Base().Bio.Name)

		campaign, err := repo.ListByCampaign(ctx, "camp-1")
		require.NoError(t, err)
		assert.Len(t, campaign, 2)

		none, err := repo.ListByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)

		_, err = repo.ListByOwner(ctx, "")
		assert.True(t, brperr.IsInvalidArgument(err))
	})

	t.Run("update", func(t *testing.T) {
		got, err := repo.Get(ctx, "ada")
		require.NoError(t, err)
		created := got.Base().CreatedAt

		got.Base().Damage = 5
		got.Base().CampaignID = "camp-2"
		require.NoError(t, repo.Update(ctx, got))

		again, err := repo.Get(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, 5, again.Base().Damage)
		assert.Equal(t, created, again.Base().CreatedAt)
		assert.False(t, again.Base().UpdatedAt.Before(created))

		old, err := repo.ListByCampaign(ctx, "camp-1")
		require.NoError(t, err)
		assert.Len(t, old, 1)
		moved, err := repo.ListByCampaign(ctx, "camp-2")
		require.NoError(t, err)
		assert.Len(t, moved, 1)

		missing := testutils.CreateTestCharacter(t, "missing", "owner-1", "", "Missing")
		assert.True(t, brperr.IsNotFound(repo.Update(ctx, missing)))
	})

	t.Run("unloadable sheet is refused", func(t *testing.T) {
		bad := testutils.CreateTestCharacter(t, "odd", "owner-3", "", "Odd")
		bad.RecentSanityLoss = -4
		err := repo.Create(ctx, bad)
		assert.True(t, brperr.IsValidation(err))
		_, err = repo.Get(ctx, "odd")
		assert.True(t, brperr.IsNotFound(err))

		got, err := repo.Get(ctx, "ada")
		require.NoError(t, err)
		got.Base().RecentSanityLoss = -4
		assert.True(t, brperr.IsValidation(repo.Update(ctx, got)))

		again, err := repo.Get(ctx, "ada")
		require.NoError(t, err)
		assert.Zero(t, again.Base().RecentSanityLoss)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "ada"))

		_, err := repo.Get(ctx, "ada")
		assert.True(t, brperr.IsNotFound(err))
		assert.True(t, brperr.IsNotFound(repo.Delete(ctx, "ada")))
		assert.True(t, brperr.IsInvalidArgument(repo.Delete(ctx, "")))

		owned, err := repo.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		assert.Len(t, owned, 1)
	})
}

func TestInMemoryRepository(t *testing.T) {
	testRepository(t, characters.NewInMemoryRepository(nil))
}

func TestSQLiteRepository_Memory(t *testing.T) {
	repo, err := characters.OpenSQLite(&characters.SQLiteRepoConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	testRepository(t, repo)
}

func TestSQLiteRepository_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.db")
	repo, err := characters.OpenSQLite(&characters.SQLiteRepoConfig{Path: path})
	require.NoError(t, err)
	testRepository(t, repo)
	require.NoError(t, repo.Close())

	// migrations are safe to rerun and data persists
	reopened, err := characters.OpenSQLite(&characters.SQLiteRepoConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "crow")
	require.NoError(t, err)
	assert.Equal(t, "Crow", got.Base().Bio.Name)
}

func TestOpenSQLite_InvalidConfig(t *testing.T) {
	_, err := characters.OpenSQLite(nil)
	assert.True(t, brperr.IsInvalidArgument(err))

	_, err = characters.OpenSQLite(&characters.SQLiteRepoConfig{Path: "  "})
	assert.True(t, brperr.IsInvalidArgument(err))
}
