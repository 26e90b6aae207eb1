package mastodon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CrestNiraj12/mastoview/app"
)

func TestPublicTimelinePath(t *testing.T) {
	assert.Equal(t, "/api/v1/timelines/public", publicTimelinePath(app.PageQuery{}, false))
	assert.Equal(t, "/api/v1/timelines/public?local=true", publicTimelinePath(app.PageQuery{}, true))
	assert.Equal(t,
		"/api/v1/timelines/public?limit=40&local=true&since_id=12",
		publicTimelinePath(app.PageQuery{SinceID: 12, Limit: 40}, true))
}

func TestPublicTimelinePath_SinceWinsOverMax(t *testing.T) {
	got := publicTimelinePath(app.PageQuery{SinceID: 5, MaxID: 3}, false)
	assert.Equal(t, "/api/v1/timelines/public?since_id=5", got)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	c := NewClient("https://mastodon.example", 0)
	assert.Equal(t, defaultTimeout, c.http.Timeout)
	assert.Equal(t, "https://mastodon.example", c.BaseURL())

	c = NewClient("https://mastodon.example", 3*time.Second)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
