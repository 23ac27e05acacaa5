package view

import (
	"strings"

	"github.com/glabrego/devwebfeed/internal/posts"
	tuitree "github.com/glabrego/devwebfeed/internal/tui/tree"
)

// ListRenderer is the board's render target inside the terminal. Render
// replaces the whole list; drawing happens later in RenderListBody.
type ListRenderer struct {
	target  string
	posts   []posts.Post
	renders int
}

func NewListRenderer() *ListRenderer {
	return &ListRenderer{}
}

func (r *ListRenderer) Render(list []posts.Post, target string) {
	r.posts = append([]posts.Post(nil), list...)
	r.target = target
	r.renders++
}

func (r *ListRenderer) Posts() []posts.Post { return r.posts }
func (r *ListRenderer) Target() string      { return r.target }
func (r *ListRenderer) Renders() int        { return r.renders }

type ListRenderInput struct {
	Rows            []tuitree.Row
	Start           int
	End             int
	TreeCursor      int
	MonthCounts     map[string]int
	CollapsedMonths map[string]bool

	RenderMonthLine func(label string, count int, active, collapsed bool) string
	RenderPostLine  func(postIndex, visiblePos int, active bool) string
}

func RenderListBody(in ListRenderInput) string {
	if len(in.Rows) == 0 || in.Start >= in.End || in.Start < 0 {
		return ""
	}
	var b strings.Builder
	visiblePos := 0
	for i := 0; i < in.Start; i++ {
		if in.Rows[i].Kind == tuitree.RowPost {
			visiblePos++
		}
	}
	for i := in.Start; i < in.End; i++ {
		row := in.Rows[i]
		switch row.Kind {
		case tuitree.RowMonth:
			b.WriteString(in.RenderMonthLine(row.Label, in.MonthCounts[row.Month], i == in.TreeCursor, in.CollapsedMonths[row.Month]))
			b.WriteString("\n")
		case tuitree.RowPost:
			b.WriteString(in.RenderPostLine(row.PostIndex, visiblePos, i == in.TreeCursor))
			b.WriteString("\n")
			visiblePos++
		}
	}
	return b.String()
}
