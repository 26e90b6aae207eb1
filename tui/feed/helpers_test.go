package feed

import (
	"image"
	"image/color"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/mastoview/domain"
	"github.com/CrestNiraj12/mastoview/poll"
)

var t0 = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type fakeSession struct {
	posts    []domain.Post
	status   poll.Status
	changed  bool
	accept   bool
	avatars  map[string]image.Image // missing key = pending
	previews map[string]image.Image
	pending  int

	started, ticks       int
	newer, older, reload int
}

func newFakeSession(posts ...domain.Post) *fakeSession {
	return &fakeSession{
		posts:    posts,
		accept:   true,
		avatars:  map[string]image.Image{},
		previews: map[string]image.Image{},
	}
}

func (f *fakeSession) Start(time.Time) { f.started++ }
func (f *fakeSession) Tick(time.Time) bool {
	f.ticks++
	c := f.changed
	f.changed = false
	return c
}
func (f *fakeSession) Posts() []domain.Post { return append([]domain.Post(nil), f.posts...) }
func (f *fakeSession) RequestNewer(time.Time) bool {
	f.newer++
	return f.accept
}
func (f *fakeSession) RequestOlder(time.Time) bool {
	f.older++
	return f.accept
}
func (f *fakeSession) Reload(time.Time) bool {
	f.reload++
	return f.accept
}
func (f *fakeSession) Status() poll.Status { return f.status }
func (f *fakeSession) Avatar(p domain.Post) (image.Image, bool) {
	img, ok := f.avatars[p.Author.AvatarURL]
	return img, ok
}
func (f *fakeSession) Preview(a domain.Attachment) (image.Image, bool) {
	img, ok := f.previews[a.PreviewImageURL()]
	return img, ok
}
func (f *fakeSession) PendingImages() int { return f.pending }

func makePost(id int64, createdAt time.Time) domain.Post {
	return domain.Post{
		ID:        id,
		CreatedAt: createdAt,
		Author: domain.Author{
			Username:    "user" + strconv.FormatInt(id, 10),
			DisplayName: "Author " + strconv.FormatInt(id, 10),
			AvatarURL:   "https://example.test/avatars/" + strconv.FormatInt(id, 10) + ".png",
		},
		Text: "hello from " + strconv.FormatInt(id, 10),
		URL:  "https://example.test/@user/" + strconv.FormatInt(id, 10),
	}
}

// newTestModel returns a model whose snapshot is already synced with s.
func newTestModel(s *fakeSession) Model {
	m := New(s, "example.test", true)
	m.now = func() time.Time { return t0 }
	s.changed = true
	m, _ = m.Update(TickMsg(t0))
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}
