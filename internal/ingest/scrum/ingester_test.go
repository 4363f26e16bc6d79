package scrum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCheckpoints struct {
	cursors map[int]int
	cleared []int
}

func (s *stubCheckpoints) CrawlCursor(_ context.Context, category int) (int, error) {
	if page, ok := s.cursors[category]; ok {
		return page, nil
	}
	return 1, nil
}

func (s *stubCheckpoints) SetCrawlCursor(_ context.Context, category, page int) error {
	if s.cursors == nil {
		s.cursors = make(map[int]int)
	}
	s.cursors[category] = page
	return nil
}

func (s *stubCheckpoints) ClearCrawlCursor(_ context.Context, category int) error {
	s.cleared = append(s.cleared, category)
	delete(s.cursors, category)
	return nil
}

func TestRestoreCursors(t *testing.T) {
	t.Parallel()

	ing := &Ingester{
		checkpoints: &stubCheckpoints{
			cursors: map[int]int{int(CategoryHome): 5},
		},
	}

	state := ing.restoreCursors(context.Background(), NewCrawlState(CategoryHome, CategoryNeutral))
	assert.Equal(t, 5, state.Page(CategoryHome))
	assert.Equal(t, 1, state.Page(CategoryNeutral))
}

func TestRestoreCursorsWithoutCheckpoints(t *testing.T) {
	t.Parallel()

	ing := &Ingester{}
	state := ing.restoreCursors(context.Background(), NewCrawlState(CategoryHome))
	assert.Equal(t, 1, state.Page(CategoryHome))
}

func TestProgressSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	ing := &Ingester{}
	ing.progress = Progress{Pages: map[string]int{"home": 2}}

	snap := ing.Progress()
	snap.Pages["home"] = 99

	assert.Equal(t, 2, ing.progress.Pages["home"])
}
