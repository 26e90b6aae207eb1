// Package timeline holds the merged, newest-first sequence of posts.
package timeline

import (
	"sync"

	"github.com/CrestNiraj12/mastoview/domain"
)

// Store keeps posts sorted by descending id with no duplicates. Pages are
// only ever attached at one end; the stored sequence is never re-sorted.
type Store struct {
	mu          sync.RWMutex
	posts       []domain.Post
	initialized bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Initialize replaces the contents with page, which must be newest first.
func (s *Store) Initialize(page []domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]domain.Post(nil), page...)
	s.initialized = true
}

// MergeNewer prepends page ahead of the newest post. Entries whose id is not
// above the current newest id are dropped; the count of dropped entries is
// returned. An empty store is simply initialized with page.
func (s *Store) MergeNewer(page []domain.Post) (dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	if len(s.posts) == 0 {
		s.posts = append([]domain.Post(nil), page...)
		return 0
	}

	newest := s.posts[0].ID
	fresh := make([]domain.Post, 0, len(page))
	for _, p := range page {
		if p.ID <= newest {
			dropped++
			continue
		}
		fresh = append(fresh, p)
	}
	if len(fresh) == 0 {
		return dropped
	}
	merged := make([]domain.Post, 0, len(fresh)+len(s.posts))
	merged = append(merged, fresh...)
	s.posts = append(merged, s.posts...)
	return dropped
}

// MergeOlder appends page after the oldest post, dropping entries whose id
// is not below the current oldest id.
func (s *Store) MergeOlder(page []domain.Post) (dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	if len(s.posts) == 0 {
		s.posts = append([]domain.Post(nil), page...)
		return 0
	}

	oldest := s.posts[len(s.posts)-1].ID
	for _, p := range page {
		if p.ID >= oldest {
			dropped++
			continue
		}
		s.posts = append(s.posts, p)
	}
	return dropped
}

// CursorForNewer returns the newest id, used as since_id.
func (s *Store) CursorForNewer() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.posts) == 0 {
		return 0, false
	}
	return s.posts[0].ID, true
}

// CursorForOlder returns the oldest id, used as max_id.
func (s *Store) CursorForOlder() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.posts) == 0 {
		return 0, false
	}
	return s.posts[len(s.posts)-1].ID, true
}

// Posts returns a copy of the timeline, newest first.
func (s *Store) Posts() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Post(nil), s.posts...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Initialized reports whether any page has been stored since creation or
// the last Reset.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Reset empties the store.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = nil
	s.initialized = false
}
