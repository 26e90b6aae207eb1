package mastodon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/CrestNiraj12/mastoview/app"
)

// timelineService implements app.TimelineService for the public timeline.
type timelineService struct {
	client    *Client
	localOnly bool
}

// NewTimelineService creates a TimelineService backed by Mastodon. localOnly
// restricts the public timeline to posts from the instance itself.
func NewTimelineService(client *Client, localOnly bool) *timelineService {
	return &timelineService{client: client, localOnly: localOnly}
}

func (s *timelineService) FetchPublicTimeline(ctx context.Context, q app.PageQuery) ([]byte, error) {
	data, err := s.client.Get(ctx, publicTimelinePath(q, s.localOnly))
	if err != nil {
		return nil, fmt.Errorf("fetching timeline: %w", err)
	}
	return data, nil
}

func publicTimelinePath(q app.PageQuery, localOnly bool) string {
	params := url.Values{}
	if localOnly {
		params.Set("local", "true")
	}
	switch {
	case q.SinceID > 0:
		params.Set("since_id", strconv.FormatInt(q.SinceID, 10))
	case q.MaxID > 0:
		params.Set("max_id", strconv.FormatInt(q.MaxID, 10))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/api/v1/timelines/public"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return path
}
