package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("never-written set loads empty", func(t *testing.T) {
		ids, err := NewInMemoryStore().Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("toggle flips membership", func(t *testing.T) {
		store := NewInMemoryStore()

		completed, err := store.Toggle(ctx, "lesson-7")
		require.NoError(t, err)
		assert.True(t, completed)

		ids, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, "lesson-7")
	})

	t.Run("double toggle restores the original membership", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Save(ctx, []string{"lesson-1"}))

		for _, id := range []string{"lesson-1", "lesson-2"} {
			before, err := store.Load(ctx)
			require.NoError(t, err)

			_, err = store.Toggle(ctx, id)
			require.NoError(t, err)
			_, err = store.Toggle(ctx, id)
			require.NoError(t, err)

			after, err := store.Load(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, before, after)
		}
	})

	t.Run("save replaces the whole set and dedupes", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Save(ctx, []string{"a", "b"}))
		require.NoError(t, store.Save(ctx, []string{"c", "c", "d"}))

		ids, err := store.Load(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"c", "d"}, ids)
	})

	t.Run("load returns a copy", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Save(ctx, []string{"a"}))

		ids, err := store.Load(ctx)
		require.NoError(t, err)
		ids[0] = "mutated"

		again, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, again)
	})
}
