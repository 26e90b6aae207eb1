package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorName_FallsBackToUsername(t *testing.T) {
	assert.Equal(t, "Alice", Author{Username: "alice", DisplayName: "Alice"}.Name())
	assert.Equal(t, "bob", Author{Username: "bob"}.Name())
}

func TestAttachmentPreviewImageURL_OnlyImages(t *testing.T) {
	img := Attachment{Kind: ParseAttachmentKind("image"), PreviewURL: "/p.png"}
	vid := Attachment{Kind: ParseAttachmentKind("video"), PreviewURL: "/v.png"}
	assert.Equal(t, "/p.png", img.PreviewImageURL())
	assert.Empty(t, vid.PreviewImageURL())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "newer", Newer.String())
	assert.Equal(t, "older", Older.String())
	assert.Equal(t, "unknown", Direction(9).String())
}
