package scrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlState(t *testing.T) {
	t.Parallel()

	t.Run("starts every category at page 1", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState(CategoryHome, CategoryNeutral)
		assert.Equal(t, []Category{CategoryHome, CategoryNeutral}, s.Active())
		assert.Equal(t, 1, s.Page(CategoryHome))
		assert.Equal(t, 1, s.Page(CategoryNeutral))
		assert.False(t, s.Done())
	})

	t.Run("advance moves only the target category", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState(CategoryHome, CategoryNeutral)
		next := s.Advance(CategoryHome)
		assert.Equal(t, 2, next.Page(CategoryHome))
		assert.Equal(t, 1, next.Page(CategoryNeutral))

		// Transitions never mutate the prior state.
		assert.Equal(t, 1, s.Page(CategoryHome))
	})

	t.Run("complete removes only the target category", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState(CategoryHome, CategoryNeutral)
		next := s.Complete(CategoryNeutral)
		assert.False(t, next.IsActive(CategoryNeutral))
		assert.True(t, next.IsActive(CategoryHome))
		assert.Equal(t, 0, next.Page(CategoryNeutral))
		assert.True(t, s.IsActive(CategoryNeutral))
	})

	t.Run("done once every category completes", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState(CategoryHome, CategoryNeutral)
		s = s.Complete(CategoryHome)
		require.False(t, s.Done())
		s = s.Complete(CategoryNeutral)
		assert.True(t, s.Done())
		assert.Empty(t, s.Active())
	})

	t.Run("transitions on a completed category are no-ops", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState(CategoryHome).Complete(CategoryHome)
		assert.True(t, s.Advance(CategoryHome).Done())
		assert.True(t, s.Complete(CategoryHome).Done())
	})

	t.Run("there is no way back into the active set", func(t *testing.T) {
		t.Parallel()
		s := NewCrawlState(CategoryHome, CategoryNeutral)
		s = s.Advance(CategoryHome).Advance(CategoryHome).Complete(CategoryHome)
		s = s.Advance(CategoryHome)
		assert.False(t, s.IsActive(CategoryHome))
		assert.Equal(t, []Category{CategoryNeutral}, s.Active())
	})
}

func TestCategoryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "home", CategoryHome.String())
	assert.Equal(t, "neutral", CategoryNeutral.String())
	assert.Equal(t, "unknown", Category(7).String())
}
