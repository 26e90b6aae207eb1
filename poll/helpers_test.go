package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/mastoview/app"
	"github.com/CrestNiraj12/mastoview/domain"
	"github.com/CrestNiraj12/mastoview/timeline"
)

type fakeResponse struct {
	data []byte
	err  error
}

// fakeTimeline records every query and blocks until the test hands it a
// response, so completion happens exactly when the test says so.
type fakeTimeline struct {
	mu        sync.Mutex
	queries   []app.PageQuery
	responses chan fakeResponse
}

func newFakeTimeline() *fakeTimeline {
	return &fakeTimeline{responses: make(chan fakeResponse)}
}

func (f *fakeTimeline) FetchPublicTimeline(ctx context.Context, q app.PageQuery) ([]byte, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	select {
	case r := <-f.responses:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeTimeline) respond(data []byte) { f.responses <- fakeResponse{data: data} }

func (f *fakeTimeline) fail(err error) { f.responses <- fakeResponse{err: err} }

func (f *fakeTimeline) queryLog() []app.PageQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]app.PageQuery(nil), f.queries...)
}

func statusesJSON(t *testing.T, ids ...int64) []byte {
	t.Helper()
	type account struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Avatar      string `json:"avatar"`
	}
	type status struct {
		ID        string  `json:"id"`
		CreatedAt string  `json:"created_at"`
		Account   account `json:"account"`
		Content   string  `json:"content"`
		URL       string  `json:"url"`
	}
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	out := make([]status, 0, len(ids))
	for _, id := range ids {
		out = append(out, status{
			ID:        fmt.Sprint(id),
			CreatedAt: base.Add(time.Duration(id) * time.Second).Format(time.RFC3339),
			Account:   account{Username: fmt.Sprintf("user%d", id), Avatar: "/avatars/original/missing.png"},
			Content:   fmt.Sprintf("<p>post %d</p>", id),
			URL:       fmt.Sprintf("https://mastodon.example/@u/%d", id),
		})
	}
	data, err := json.Marshal(out)
	require.NoError(t, err)
	return data
}

func postIDs(posts []domain.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func newTestController(f *fakeTimeline) (*Controller, *timeline.Store) {
	store := timeline.NewStore()
	c := NewController(f, store, Config{Limit: 2})
	return c, store
}

// completeWith answers the outstanding request and ticks until the
// controller has merged it.
func completeWith(t *testing.T, c *Controller, f *fakeTimeline, now time.Time, data []byte) {
	t.Helper()
	f.respond(data)
	require.Eventually(t, func() bool { return c.Advance(now) }, time.Second, 5*time.Millisecond)
}
