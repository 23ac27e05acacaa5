package view

import (
	"strings"
	"testing"

	"github.com/glabrego/devwebfeed/internal/posts"
	tuitheme "github.com/glabrego/devwebfeed/internal/tui/theme"
	tuitree "github.com/glabrego/devwebfeed/internal/tui/tree"
)

func TestDisplayDate_RoundTripsThroughParseDate(t *testing.T) {
	p := posts.Post{Submitted: "2017-11-09T23:30:00Z"}
	label := DisplayDate(p)
	if label != "Nov 9, 2017" {
		t.Fatalf("unexpected display date: %q", label)
	}
	parsed, ok := posts.ParseDate(label)
	if !ok || parsed.Year() != 2017 || parsed.Month() != 11 || parsed.Day() != 9 {
		t.Fatalf("display date did not parse back: %v ok=%v", parsed, ok)
	}

	if got := DisplayDate(posts.Post{Submitted: " soon "}); got != "soon" {
		t.Fatalf("expected raw value for unparsable date, got %q", got)
	}
}

func TestPostMeta(t *testing.T) {
	if got := PostMeta(posts.Post{Domain: "example.com", Author: "Ada"}); got != "example.com · Ada" {
		t.Fatalf("unexpected meta: %q", got)
	}
	if got := PostMeta(posts.Post{Author: "Ada"}); got != "Ada" {
		t.Fatalf("unexpected author-only meta: %q", got)
	}
}

func TestRenderPostLine_UntitledAndNarrow(t *testing.T) {
	th := tuitheme.Default()
	line := stripANSI(RenderPostLine(PostLineParams{Post: posts.Post{Submitted: "2017-11-09"}, Width: 40}, th))
	if !strings.Contains(line, "(untitled)") || !strings.HasSuffix(line, "Nov 9, 2017") {
		t.Fatalf("unexpected untitled line: %q", line)
	}

	narrow := stripANSI(RenderPostLine(PostLineParams{Post: posts.Post{Title: "A rather long title", Submitted: "2017-11-09"}, Width: 10}, th))
	if !strings.HasSuffix(narrow, "Nov 9, 2017") {
		t.Fatalf("expected date to survive a narrow width, got %q", narrow)
	}
}

func TestListRenderer_RecordsLastRender(t *testing.T) {
	r := NewListRenderer()
	list := []posts.Post{{URL: "a"}, {URL: "b"}}
	r.Render(list, "posts")
	list[0].URL = "mutated"

	if r.Renders() != 1 || r.Target() != "posts" {
		t.Fatalf("unexpected renderer state: renders=%d target=%q", r.Renders(), r.Target())
	}
	if got := r.Posts(); len(got) != 2 || got[0].URL != "a" {
		t.Fatalf("expected renderer to keep its own copy, got %+v", got)
	}
}

func TestRenderListBody_NumbersContinueAcrossWindow(t *testing.T) {
	rows := []tuitree.Row{
		{Kind: tuitree.RowMonth, Label: "November 2017", Month: "November 2017"},
		{Kind: tuitree.RowPost, Month: "November 2017", PostIndex: 0},
		{Kind: tuitree.RowPost, Month: "November 2017", PostIndex: 1},
	}
	var positions []int
	body := RenderListBody(ListRenderInput{
		Rows:        rows,
		Start:       2,
		End:         3,
		TreeCursor:  2,
		MonthCounts: map[string]int{"November 2017": 2},
		RenderMonthLine: func(label string, count int, active, collapsed bool) string {
			return label
		},
		RenderPostLine: func(postIndex, visiblePos int, active bool) string {
			positions = append(positions, visiblePos)
			if active {
				return "active"
			}
			return "post"
		},
	})
	if body != "active\n" {
		t.Fatalf("unexpected body: %q", body)
	}
	if len(positions) != 1 || positions[0] != 1 {
		t.Fatalf("expected visible position 1, got %v", positions)
	}
}
