package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideStore(t *testing.T) {
	t.Parallel()

	t.Run("writes staged guides on commit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewGuideStore(db)
		svc := sqlite.NewGuideService(db)
		ctx := context.Background()

		// Given: two staged guides
		require.NoError(t, store.Save(ctx, testGuide("https://example.com/a")))
		require.NoError(t, store.Save(ctx, testGuide("https://example.com/b")))

		// Then: nothing is visible before commit
		guides, err := svc.FindGuides(ctx, howto.GuideFilter{})
		require.NoError(t, err)
		assert.Empty(t, guides)

		// When: committing
		require.NoError(t, store.Commit())

		// Then: both guides are stored and the stage is empty
		guides, err = svc.FindGuides(ctx, howto.GuideFilter{})
		require.NoError(t, err)
		assert.Len(t, guides, 2)
		assert.Zero(t, store.Len())
	})

	t.Run("keeps the last guide saved for a URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewGuideStore(db)
		ctx := context.Background()

		updated := testGuide("https://example.com/a")
		updated.Title = "Build a Better Shelf"
		require.NoError(t, store.Save(ctx, testGuide("https://example.com/a")))
		require.NoError(t, store.Save(ctx, updated))
		assert.Equal(t, 1, store.Len())

		require.NoError(t, store.Commit())

		guides, err := sqlite.NewGuideService(db).FindGuides(ctx, howto.GuideFilter{})
		require.NoError(t, err)
		require.Len(t, guides, 1)
		assert.Equal(t, "Build a Better Shelf", guides[0].Title)
	})

	t.Run("abort discards staged guides", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewGuideStore(db)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, testGuide("https://example.com/a")))
		require.NoError(t, store.Abort())
		require.NoError(t, store.Commit())

		guides, err := sqlite.NewGuideService(db).FindGuides(ctx, howto.GuideFilter{})
		require.NoError(t, err)
		assert.Empty(t, guides)
	})

	t.Run("rolls back every guide when one fails", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewGuideStore(db)
		ctx := context.Background()

		// Given: a valid guide staged next to one with a blank title
		broken := testGuide("https://example.com/b")
		broken.Title = ""
		require.NoError(t, store.Save(ctx, testGuide("https://example.com/a")))
		require.NoError(t, store.Save(ctx, broken))

		// When: committing
		err := store.Commit()

		// Then: the commit fails and nothing is stored
		require.Error(t, err)
		guides, err := sqlite.NewGuideService(db).FindGuides(ctx, howto.GuideFilter{})
		require.NoError(t, err)
		assert.Empty(t, guides)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("rejects guide without URL", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewGuideStore(setupTestDB(t))

		err := store.Save(context.Background(), testGuide(""))

		assert.Equal(t, howto.EINVALID, howto.ErrorCode(err))
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewGuideStore(setupTestDB(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := store.Save(ctx, testGuide("https://example.com/a"))

		assert.ErrorIs(t, err, context.Canceled)
	})
}
