package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/CrestNiraj12/mastoview/domain"
	"github.com/CrestNiraj12/mastoview/tui/common"
)

// View returns the last rendered frame.
func (m Model) View() string {
	if m.rendered == "" {
		return m.render()
	}
	return m.rendered
}

func (m *Model) render() string {
	now := m.now()
	var b strings.Builder

	title := common.AppTitleStyle.Render("🐘 mastoview")
	b.WriteString(title + common.InstanceStyle.Render(m.instance) + "\n\n")

	st := m.session.Status()
	switch {
	case len(m.posts) == 0 && st.Fetching:
		b.WriteString(fmt.Sprintf("  %s Loading timeline...\n", m.spinner.View()))
	case len(m.posts) == 0 && st.LastErr != nil:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", st.LastErr)))
		b.WriteString("\n\n  Press r to retry.\n")
	case len(m.posts) == 0:
		b.WriteString("  No posts yet.\n")
	default:
		b.WriteString(m.renderList(now))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus(now))
	return b.String()
}

// renderList renders as many posts as fit, scrolling so the cursor row is
// always on screen.
func (m *Model) renderList(now time.Time) string {
	// Header (3 lines) and status bar with help (3 lines).
	avail := max(m.height-6, 1)
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}

	blocks := make([]string, 0, m.cursor-m.startIndex+1)
	used := 0
	for i := m.startIndex; i <= m.cursor; i++ {
		s := m.renderPost(m.posts[i], i == m.cursor, now)
		blocks = append(blocks, s)
		used += lipgloss.Height(s)
	}
	for used > avail && len(blocks) > 1 {
		used -= lipgloss.Height(blocks[0])
		blocks = blocks[1:]
		m.startIndex++
	}
	for i := m.cursor + 1; i < len(m.posts); i++ {
		s := m.renderPost(m.posts[i], false, now)
		h := lipgloss.Height(s)
		if used+h > avail {
			break
		}
		blocks = append(blocks, s)
		used += h
	}
	return strings.Join(blocks, "\n")
}

func (m Model) renderPost(p domain.Post, selected bool, now time.Time) string {
	inner := max(m.width-4, 12)

	avatar := placeholder(avatarW, avatarH, '░')
	if img, ready := m.session.Avatar(p); ready {
		avatar = placeholder(avatarW, avatarH, ' ')
		if img != nil {
			avatar = m.thumbnail(p.Author.AvatarURL, img, avatarW, avatarH)
		}
	}
	name := common.AuthorStyle.Render(p.Author.Name()) + " " + common.UsernameStyle.Render("@"+p.Author.Username)
	ts := common.TimestampStyle.Render(humanize.RelTime(p.CreatedAt, now, "ago", "from now"))
	head := lipgloss.JoinHorizontal(lipgloss.Top, avatar, " ", lipgloss.JoinVertical(lipgloss.Left, name, ts))

	parts := []string{head}
	if text := strings.TrimSpace(p.Text); text != "" {
		lines := common.WrapText(text, inner, maxTextLines)
		parts = append(parts, common.ContentStyle.Render(strings.Join(lines, "\n")))
	}
	if media := m.renderMedia(p.Attachments); media != "" {
		parts = append(parts, media)
	}

	content := common.ClampLines(lipgloss.JoinVertical(lipgloss.Left, parts...), inner)
	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	return style.Width(inner + 2).Render(content)
}

func (m Model) renderMedia(atts []domain.Attachment) string {
	if len(atts) == 0 {
		return ""
	}
	images, other := 0, 0
	var thumbs []string
	for _, a := range atts {
		if a.Kind != domain.KindImage {
			other++
			continue
		}
		images++
		if !m.showMedia {
			continue
		}
		block := placeholder(previewW, previewH, '░')
		if img, ready := m.session.Preview(a); ready {
			block = placeholder(previewW, previewH, ' ')
			if img != nil {
				block = m.thumbnail(a.PreviewImageURL(), img, previewW, previewH)
			}
		}
		if len(thumbs) > 0 {
			thumbs = append(thumbs, " ")
		}
		thumbs = append(thumbs, block)
	}

	var badges []string
	if images > 0 {
		badges = append(badges, fmt.Sprintf("🖼 %d", images))
	}
	if other > 0 {
		badges = append(badges, fmt.Sprintf("📎 %d", other))
	}
	badge := common.MediaStyle.Render(strings.Join(badges, "  "))
	if len(thumbs) == 0 {
		return badge
	}
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, thumbs...), badge)
}

func (m Model) renderStatus(now time.Time) string {
	st := m.session.Status()
	var parts []string
	if st.Fetching {
		parts = append(parts, fmt.Sprintf("%s fetching %s", m.spinner.View(), st.Direction))
	} else if !st.LastCompleted.IsZero() {
		parts = append(parts, "updated "+humanize.RelTime(st.LastCompleted, now, "ago", "from now"))
	}
	if len(m.posts) > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.cursor+1, len(m.posts)))
	}
	if n := m.session.PendingImages(); n > 0 {
		parts = append(parts, fmt.Sprintf("images: %d pending", n))
	}
	if st.EndReached {
		parts = append(parts, "end of timeline")
	}
	line := strings.Join(parts, " · ")
	if st.LastErr != nil && len(m.posts) > 0 {
		line += "  " + common.ErrorStyle.Render(st.LastErr.Error())
	}
	return common.StatusBarStyle.Render(common.ClampLines(line, max(m.width-1, 10))+"\n"+m.help.View(m.keys)) + "\n"
}
