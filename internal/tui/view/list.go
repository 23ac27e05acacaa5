package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/glabrego/devwebfeed/internal/posts"
	"github.com/glabrego/devwebfeed/internal/render/markup"
	tuitheme "github.com/glabrego/devwebfeed/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const displayDateLayout = "Jan 2, 2006"

type PostLineParams struct {
	Post        posts.Post
	ShowNumbers bool
	VisiblePos  int
	Active      bool
	Width       int
}

// DisplayDate is the date shown next to a post. It round-trips through
// posts.ParseDate, which the delete action relies on.
func DisplayDate(p posts.Post) string {
	t := p.SubmittedAt()
	if t.IsZero() {
		return strings.TrimSpace(p.Submitted)
	}
	return t.UTC().Format(displayDateLayout)
}

func RenderPostLine(p PostLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf("  %s ", cursorMarker)
	if p.ShowNumbers {
		prefix = fmt.Sprintf("  %s%3d. ", cursorMarker, p.VisiblePos+1)
	}

	right := DisplayDate(p.Post)
	if meta := PostMeta(p.Post); meta != "" {
		right = meta + "  " + right
	}
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(right)
	if available < 1 {
		available = 1
	}

	label := truncateRunes(PostTitle(p.Post), available)
	styledTitle := th.StylePostTitle(p.Post, label)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+th.MetaValue.Render(right))
}

// PostTitle is the title as plain text, or a placeholder when it is empty.
func PostTitle(p posts.Post) string {
	if title := markup.Text(p.Title); title != "" {
		return title
	}
	return "(untitled)"
}

// PostMeta joins domain and author, the two values a post can be filtered by.
func PostMeta(p posts.Post) string {
	parts := make([]string, 0, 2)
	if d := strings.TrimSpace(p.Domain); d != "" {
		parts = append(parts, d)
	}
	if a := strings.TrimSpace(p.Author); a != "" {
		parts = append(parts, a)
	}
	return strings.Join(parts, " · ")
}

func RenderMonthLine(label string, count, width int, active, collapsed bool, th tuitheme.Theme) string {
	icon := "▾"
	if collapsed {
		icon = "▸"
	}
	left := th.Section.Render(icon + " " + label)
	if count <= 0 {
		return th.RenderActiveLine(active, left)
	}
	right := th.Count.Render(fmt.Sprintf("%d", count))
	gap := width - visibleLen(left) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(active, left+strings.Repeat(" ", gap)+right)
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
