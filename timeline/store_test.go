package timeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/mastoview/domain"
)

func page(ids ...int64) []domain.Post {
	out := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Post{ID: id})
	}
	return out
}

func ids(posts []domain.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestStore_EmptyHasNoCursors(t *testing.T) {
	s := NewStore()
	_, ok := s.CursorForNewer()
	assert.False(t, ok)
	_, ok = s.CursorForOlder()
	assert.False(t, ok)
	assert.False(t, s.Initialized())
	assert.Empty(t, s.Posts())
}

func TestStore_MergeScenario(t *testing.T) {
	s := NewStore()

	s.Initialize(page(100, 99))
	assert.Equal(t, []int64{100, 99}, ids(s.Posts()))
	newest, ok := s.CursorForNewer()
	require.True(t, ok)
	assert.Equal(t, int64(100), newest)
	oldest, ok := s.CursorForOlder()
	require.True(t, ok)
	assert.Equal(t, int64(99), oldest)

	assert.Zero(t, s.MergeNewer(page(102, 101)))
	assert.Equal(t, []int64{102, 101, 100, 99}, ids(s.Posts()))

	assert.Zero(t, s.MergeOlder(page(98, 97)))
	assert.Equal(t, []int64{102, 101, 100, 99, 98, 97}, ids(s.Posts()))
}

func TestStore_MergeNewerDropsOverlap(t *testing.T) {
	s := NewStore()
	s.Initialize(page(100, 99))

	dropped := s.MergeNewer(page(101, 100, 99))
	assert.Equal(t, 2, dropped)
	assert.Equal(t, []int64{101, 100, 99}, ids(s.Posts()))
}

func TestStore_MergeOlderDropsOverlap(t *testing.T) {
	s := NewStore()
	s.Initialize(page(100, 99))

	dropped := s.MergeOlder(page(99, 98))
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []int64{100, 99, 98}, ids(s.Posts()))
}

func TestStore_MergeIntoEmptyInitializes(t *testing.T) {
	s := NewStore()
	s.MergeOlder(page(5, 4))
	assert.True(t, s.Initialized())
	assert.Equal(t, []int64{5, 4}, ids(s.Posts()))

	s.Reset()
	assert.False(t, s.Initialized())
	s.MergeNewer(page(9))
	assert.Equal(t, []int64{9}, ids(s.Posts()))
}

func TestStore_EmptyPageIsNoop(t *testing.T) {
	s := NewStore()
	s.Initialize(page(10))
	s.MergeNewer(nil)
	s.MergeOlder(nil)
	assert.Equal(t, []int64{10}, ids(s.Posts()))
}

func TestStore_PostsIsSnapshot(t *testing.T) {
	s := NewStore()
	s.Initialize(page(3, 2))
	snap := s.Posts()
	snap[0].ID = 42
	assert.Equal(t, []int64{3, 2}, ids(s.Posts()))
}

// Property: well-formed pages in either direction keep the sequence strictly
// descending and grow it by exactly the page length.
func TestStore_RandomWellFormedMergesStaySorted(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore()
	s.Initialize(page(1000))
	hi, lo := int64(1000), int64(1000)

	for range 200 {
		n := rng.Intn(5)
		before := s.Len()
		if rng.Intn(2) == 0 {
			p := make([]int64, n)
			for i := range n {
				p[n-1-i] = hi + int64(i) + 1
			}
			hi += int64(n)
			assert.Zero(t, s.MergeNewer(page(p...)))
		} else {
			p := make([]int64, n)
			for i := range n {
				p[i] = lo - int64(i) - 1
			}
			lo -= int64(n)
			assert.Zero(t, s.MergeOlder(page(p...)))
		}
		require.Equal(t, before+n, s.Len())
	}

	got := ids(s.Posts())
	for i := 1; i < len(got); i++ {
		require.Greater(t, got[i-1], got[i])
	}
}
