// Package markup turns the HTML subset used in post bodies into plain text
// safe to print in a terminal.
package markup

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/x/ansi"
)

var (
	htmlTagRe   = regexp.MustCompile(`<[^>]*>`)
	lineBreakRe = regexp.MustCompile(`(?i)</p>|<br\s*/?>`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
)

// PlainText renders body as text: <br> becomes a newline, each paragraph
// ends with a newline, other tags are dropped and entities decoded. Every
// marker URL (the inline link the server adds for an attached image) is
// removed from the result.
func PlainText(body string, markers []string) string {
	text := htmlToText(body)
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		text = strings.ReplaceAll(text, m, "")
	}
	return tidy(sanitizeForTerminal(text))
}

func htmlToText(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// Fall back to a tag strip; the parser only fails on reader errors.
		s := lineBreakRe.ReplaceAllString(body, "\n")
		return htmlTagRe.ReplaceAllString(s, "")
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").AppendHtml("\n")
	return doc.Find("body").Text()
}

// sanitizeForTerminal removes escape sequences and control characters other
// than newlines and tabs.
func sanitizeForTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f || r == 0x1b {
			return -1
		}
		return r
	}, s)
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
