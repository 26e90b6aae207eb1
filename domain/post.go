package domain

import "time"

// AttachmentKind separates attachments we can preview from everything else.
type AttachmentKind int

const (
	KindOther AttachmentKind = iota
	KindImage
)

// ParseAttachmentKind maps the API "type" field onto an AttachmentKind.
func ParseAttachmentKind(s string) AttachmentKind {
	if s == "image" {
		return KindImage
	}
	return KindOther
}

// Attachment is a media item attached to a post.
type Attachment struct {
	Kind            AttachmentKind
	PreviewURL      string
	FullURL         string
	InlineMarkerURL string // Short link the server also inlines into the body text
}

// PreviewImageURL returns the URL to show inline, or "" when the attachment
// is not an image.
func (a Attachment) PreviewImageURL() string {
	if a.Kind != KindImage {
		return ""
	}
	return a.PreviewURL
}

// Author identifies who wrote a post.
type Author struct {
	Username    string
	DisplayName string
	AvatarURL   string
}

// Name returns the display name, falling back to the username.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// Post is a single status from the timeline.
type Post struct {
	ID          int64
	CreatedAt   time.Time
	Author      Author
	Body        string // Raw HTML as delivered
	Text        string // Plain text derived from Body when the page was decoded
	URL         string // Permalink
	Attachments []Attachment
}

// Direction selects which end of the timeline a fetch extends.
type Direction int

const (
	Newer Direction = iota
	Older
)

func (d Direction) String() string {
	switch d {
	case Newer:
		return "newer"
	case Older:
		return "older"
	default:
		return "unknown"
	}
}
