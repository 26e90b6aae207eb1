package poll

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/CrestNiraj12/mastoview/domain"
	"github.com/CrestNiraj12/mastoview/markup"
)

// statusID accepts ids encoded as JSON strings (current Mastodon) or
// numbers (older servers).
type statusID int64

func (id *statusID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCursor, string(b))
	}
	*id = statusID(n)
	return nil
}

// mastodonStatus is the subset of Mastodon's Status entity we render.
type mastodonStatus struct {
	ID               statusID                  `json:"id"`
	CreatedAt        string                    `json:"created_at"`
	Account          mastodonAccount           `json:"account"`
	Content          string                    `json:"content"` // HTML
	URL              string                    `json:"url"`
	MediaAttachments []mastodonMediaAttachment `json:"media_attachments"`
}

type mastodonAccount struct {
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type mastodonMediaAttachment struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	RemoteURL  string `json:"remote_url"`
	PreviewURL string `json:"preview_url"`
	TextURL    string `json:"text_url"`
}

// DecodePage parses one timeline response. Any status that fails to decode
// rejects the whole page. The result is newest first with no repeated ids.
func DecodePage(data []byte) ([]domain.Post, error) {
	var statuses []mastodonStatus
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}
	if statuses == nil {
		return nil, fmt.Errorf("%w: null page", domain.ErrMalformedPayload)
	}

	posts := make([]domain.Post, 0, len(statuses))
	for _, st := range statuses {
		if st.ID == 0 {
			return nil, fmt.Errorf("%w: status without id", domain.ErrMalformedPayload)
		}
		createdAt, err := time.Parse(time.RFC3339, st.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: status %d created_at: %v", domain.ErrMalformedPayload, st.ID, err)
		}
		posts = append(posts, mapStatus(st, createdAt))
	}

	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	return slices.CompactFunc(posts, func(a, b domain.Post) bool { return a.ID == b.ID }), nil
}

func mapStatus(st mastodonStatus, createdAt time.Time) domain.Post {
	username := st.Account.Username
	if username == "" {
		username = st.Account.Acct
	}
	attachments := mapMediaAttachments(st.MediaAttachments)
	markers := make([]string, 0, len(attachments))
	for _, a := range attachments {
		if a.Kind == domain.KindImage {
			markers = append(markers, a.InlineMarkerURL)
		}
	}
	return domain.Post{
		ID:        int64(st.ID),
		CreatedAt: createdAt,
		Author: domain.Author{
			Username:    username,
			DisplayName: st.Account.DisplayName,
			AvatarURL:   st.Account.Avatar,
		},
		Body:        st.Content,
		Text:        markup.PlainText(st.Content, markers),
		URL:         st.URL,
		Attachments: attachments,
	}
}

func mapMediaAttachments(in []mastodonMediaAttachment) []domain.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Attachment, 0, len(in))
	for _, m := range in {
		full := m.URL
		if full == "" {
			full = m.RemoteURL
		}
		out = append(out, domain.Attachment{
			Kind:            domain.ParseAttachmentKind(m.Type),
			PreviewURL:      m.PreviewURL,
			FullURL:         full,
			InlineMarkerURL: m.TextURL,
		})
	}
	return out
}
