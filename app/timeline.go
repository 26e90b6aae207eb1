package app

import "context"

// PageQuery selects one page of the public timeline. At most one of SinceID
// and MaxID is set; both zero asks for the newest page.
type PageQuery struct {
	SinceID int64 // Fetch posts newer than this id
	MaxID   int64 // Fetch posts older than this id
	Limit   int
}

// TimelineService fetches raw timeline pages. Decoding is left to the caller
// so a malformed page can be rejected before anything is merged.
type TimelineService interface {
	// FetchPublicTimeline returns the JSON array for one page, newest first.
	FetchPublicTimeline(ctx context.Context, q PageQuery) ([]byte, error)
}
